package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables to configure the log file path and level.
const (
	envLogPath  = "SPC_CACHE_LOG"
	envLogLevel = "SPC_CACHE_LOG_LEVEL"
)

var (
	mu            sync.RWMutex
	std           = zerolog.Nop()
	logFile       *os.File
	isInitialized bool
)

// InitFromEnv initializes the logger using SPC_CACHE_LOG or a default path.
// SPC_CACHE_LOG=- logs to stderr.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "spc-cache.log")
		} else {
			path = "./spc-cache.log"
		}
	}
	if err := Init(path); err != nil {
		return err
	}
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		SetLevel(lvl)
	}
	return nil
}

// Init initializes the logger to write to the provided file path.
// It creates parent directories if needed and opens the file in append mode.
// The path "-" selects a console writer on stderr.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if isInitialized {
		return nil
	}
	var out io.Writer
	if path == "-" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	} else {
		if err := ensureParentDir(path); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = f
		out = f
	}
	std = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	isInitialized = true
	return nil
}

// InitWriter points the logger at w. Used by tests and embedding programs.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std = zerolog.New(w).With().Timestamp().Logger()
	isInitialized = true
}

// SetLevel sets the minimum level; unknown names fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	std = std.Level(lvl)
	mu.Unlock()
}

// Close closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std = zerolog.Nop()
	isInitialized = false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Logger returns the structured logger for callers that attach fields.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

// Printf logs a formatted message at info level.
func Printf(format string, args ...any) { write(zerolog.InfoLevel, format, args...) }

// Debugf logs debugging details.
func Debugf(format string, args ...any) { write(zerolog.DebugLevel, format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { write(zerolog.InfoLevel, format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { write(zerolog.WarnLevel, format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { write(zerolog.ErrorLevel, format, args...) }

func write(level zerolog.Level, format string, args ...any) {
	mu.RLock()
	l := std
	ready := isInitialized
	mu.RUnlock()
	if !ready {
		// Fallback: initialize with default if not already.
		_ = InitFromEnv()
		l = Logger()
	}
	l.WithLevel(level).Msg(fmt.Sprintf(format, args...))
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
