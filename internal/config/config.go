// Package config loads spc-cache settings from an optional YAML file, an
// optional .env file and SPC_CACHE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leonardcser/spc-cache/internal/cache"
)

// Environment variables recognised by Load.
const (
	EnvDir         = "SPC_CACHE_DIR"
	EnvBackend     = "SPC_CACHE_BACKEND"
	EnvDB          = "SPC_CACHE_DB"
	EnvTTL         = "SPC_CACHE_TTL"
	EnvCodec       = "SPC_CACHE_CODEC"
	EnvSocket      = "SPC_CACHE_SOCK"
	EnvMetricsAddr = "SPC_CACHE_METRICS_ADDR"
	EnvLogFile     = "SPC_CACHE_LOG"
	EnvLogLevel    = "SPC_CACHE_LOG_LEVEL"
)

const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

type Config struct {
	// Location is the FileCache base directory.
	Location string `yaml:"location"`
	// Backend selects "file" or "bolt".
	Backend string `yaml:"backend"`
	// BoltPath is the database file for the bolt backend.
	BoltPath string `yaml:"bolt_path"`
	// DefaultTTL is integer seconds or a Go duration.
	DefaultTTL string `yaml:"default_ttl"`
	// Codec names the value serializer: json, gob, raw or proto.
	Codec       string    `yaml:"codec"`
	Socket      string    `yaml:"socket"`
	MetricsAddr string    `yaml:"metrics_addr"`
	Log         LogConfig `yaml:"log"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	base := defaultBaseDir()
	return &Config{
		Location:   filepath.Join(base, "entries"),
		Backend:    BackendFile,
		BoltPath:   filepath.Join(base, "cache.bbolt"),
		DefaultTTL: "3600",
		Codec:      "json",
		Socket:     filepath.Join(base, "cache.sock"),
		Log:        LogConfig{Level: "info"},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist), ./.env and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// A missing .env is normal; Load never overrides variables already set.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		EnvDir:         &c.Location,
		EnvBackend:     &c.Backend,
		EnvDB:          &c.BoltPath,
		EnvTTL:         &c.DefaultTTL,
		EnvCodec:       &c.Codec,
		EnvSocket:      &c.Socket,
		EnvMetricsAddr: &c.MetricsAddr,
		EnvLogFile:     &c.Log.File,
		EnvLogLevel:    &c.Log.Level,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*field = v
		}
	}
}

// Validate checks that every field can be used to build a backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.Location == "" {
			return errors.New("location must be set for the file backend")
		}
	case BackendBolt:
		if c.BoltPath == "" {
			return errors.New("bolt_path must be set for the bolt backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := c.TTL(); err != nil {
		return fmt.Errorf("default_ttl: %w", err)
	}
	if _, err := cache.CodecByName(c.Codec); err != nil {
		return err
	}
	return nil
}

// TTL returns DefaultTTL as a duration.
func (c *Config) TTL() (time.Duration, error) {
	if c.DefaultTTL == "" {
		return cache.DefaultTTL, nil
	}
	ttl, err := cache.ParseTTL(c.DefaultTTL)
	if err != nil {
		return 0, err
	}
	if ttl.Duration() <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", ttl)
	}
	return ttl.Duration(), nil
}

// Backend is a cache.Cache that may hold resources.
type Backend interface {
	cache.Cache
	Close() error
}

type fileBackend struct{ *cache.FileCache }

func (fileBackend) Close() error { return nil }

// OpenBackend builds the configured backend. codec overrides the configured
// codec when non-nil; the daemon passes cache.RawCodec{}. The file backend's
// directory is created if missing.
func OpenBackend(c *Config, codec cache.Codec) (Backend, error) {
	ttl, err := c.TTL()
	if err != nil {
		return nil, err
	}
	if codec == nil {
		if codec, err = cache.CodecByName(c.Codec); err != nil {
			return nil, err
		}
	}
	switch c.Backend {
	case BackendBolt:
		if err := os.MkdirAll(filepath.Dir(c.BoltPath), 0o755); err != nil {
			return nil, fmt.Errorf("create bolt directory: %w", err)
		}
		bc, err := cache.OpenBolt(c.BoltPath, cache.BoltOptions{Bucket: "spc", DefaultTTL: ttl, Codec: codec})
		if err != nil {
			return nil, fmt.Errorf("open bolt cache: %w", err)
		}
		return bc, nil
	default:
		if err := os.MkdirAll(c.Location, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
		return fileBackend{cache.NewFileCache(c.Location, cache.WithCodec(codec), cache.WithDefaultTTL(ttl))}, nil
	}
}

func defaultBaseDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "spc-cache")
}
