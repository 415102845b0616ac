package main

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/spc-cache/internal/cache"
	"github.com/leonardcser/spc-cache/internal/config"
	"github.com/leonardcser/spc-cache/internal/logger"
	"github.com/leonardcser/spc-cache/internal/tools"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting SPC cache MCP server")

	cfg, err := config.Load(os.Getenv("SPC_CACHE_CONFIG"))
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		panic(err)
	}

	// Connect to cache daemon; start it if needed, then connect.
	sock := cfg.Socket
	logger.Infof("Attempting to connect to cache daemon at %s", sock)
	client, err := connectCache(sock)
	if err != nil {
		logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
		if startErr := startCacheDaemon(); startErr != nil {
			logger.Errorf("Failed to start cache daemon: %v", startErr)
		} else {
			logger.Infof("Cache daemon started successfully")
		}
		// wait for socket to appear
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if c2, err2 := connectCache(sock); err2 == nil {
				client = c2
				err = nil
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
		if client == nil {
			logger.Errorf("Failed to connect to cache daemon after startup attempt: %v", err)
			panic(err)
		}
	}
	logger.Infof("Successfully connected to cache daemon")

	s := server.NewMCPServer(
		"SPC Cache",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	keyDesc := "The cache key. Must be non-empty and must not contain any of " + cache.ReservedKeyChars

	toolGet := mcp.NewTool("cache-get",
		mcp.WithDescription(multiline(
			"Reads a value from the file cache",
			"\nUsage notes:",
			"- Returns the stored JSON value, or a cache-miss message",
			"- Expired, missing and corrupt entries are all reported as a miss",
		)),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
	)
	s.AddTool(toolGet, tools.CacheGetHandler(client))
	logger.Infof("Registered cache-get tool")

	toolSet := mcp.NewTool("cache-set",
		mcp.WithDescription(multiline(
			"Stores a JSON value in the file cache",
			"\nUsage notes:",
			"- The value must be valid JSON",
			"- ttl accepts integer seconds (\"600\") or a duration (\"10m\"); defaults to one hour",
		)),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
		mcp.WithString("value", mcp.Required(), mcp.Description("JSON value to store")),
		mcp.WithString("ttl", mcp.Description("Optional time-to-live")),
	)
	s.AddTool(toolSet, tools.CacheSetHandler(client))
	logger.Infof("Registered cache-set tool")

	toolDelete := mcp.NewTool("cache-delete",
		mcp.WithDescription("Deletes a value from the file cache"),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
	)
	s.AddTool(toolDelete, tools.CacheDeleteHandler(client))
	logger.Infof("Registered cache-delete tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func connectCache(sock string) (cache.Cache, error) {
	// quick probe
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return cache.NewClient(sock, cache.JSONCodec{}), nil
}

func startCacheDaemon() error {
	// 1) Try cache binary next to this server executable (works with absolute invocation)
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), "spc-cache-server")
		if _, statErr := os.Stat(sibling); statErr == nil {
			return spawn(sibling)
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath("spc-cache-server"); err == nil {
		return spawn(path)
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./spc-cache-server"); err == nil {
		return spawn("./spc-cache-server")
	}

	return exec.ErrNotFound
}

func spawn(path string) error {
	cmd := exec.Command(path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	return cmd.Start()
}
