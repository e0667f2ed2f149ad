// Package logging builds the slog logger used by the crawler.
// Console output is human-readable text on stderr so that it never mixes
// with the rendered site tree on stdout; file output is JSON lines with
// size-based rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the logging configuration
type Config struct {
	Level      slog.Level
	FilePath   string
	MaxSize    int64 // MB
	MaxBackups int
	Console    bool
	Output     io.Writer // console destination, os.Stderr when nil
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      slog.LevelInfo,
		FilePath:   "",
		MaxSize:    20, // 20MB
		MaxBackups: 3,
		Console:    true,
	}
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ResolveLevel picks the effective level: verbose always means debug,
// otherwise the named level applies.
func ResolveLevel(level string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return ParseLevel(level)
}

// NewLogger creates a new logger with the given configuration.
// The returned closer releases the log file, if any.
func NewLogger(config Config) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: config.Level}

	console := config.Output
	if console == nil {
		console = os.Stderr
	}

	if config.FilePath == "" {
		return slog.New(slog.NewTextHandler(console, opts)), nopCloser{}, nil
	}

	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, nil, err
	}

	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultConfig().MaxSize
	}

	fileWriter, err := NewRotatingFileWriter(config.FilePath, maxSize*1024*1024, config.MaxBackups)
	if err != nil {
		return nil, nil, err
	}

	// With a file configured the console copy is optional; both get JSON so
	// one handler can serve the pair.
	var writer io.Writer = fileWriter
	if config.Console {
		writer = io.MultiWriter(console, fileWriter)
	}

	return slog.New(slog.NewJSONHandler(writer, opts)), fileWriter, nil
}

// SetDefault creates and sets a default logger with the given configuration
func SetDefault(config Config) (io.Closer, error) {
	logger, closer, err := NewLogger(config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
