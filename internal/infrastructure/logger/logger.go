// Package logger owns the process-wide zerolog instance. Early callers get a
// logger configured from the LOG_LEVEL and LOG_FORMAT environment, before the
// full configuration has loaded.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the global logger, lazily initialized from the
// environment (console output at info level when unset).
func GetLogger() zerolog.Logger {
	once.Do(func() {
		lvl, err := zerolog.ParseLevel(strings.ToLower(envOr("LOG_LEVEL", "info")))
		if err != nil {
			lvl = zerolog.InfoLevel
		}
		logger, err := build(lvl, envOr("LOG_FORMAT", "console"))
		if err != nil {
			logger, _ = build(lvl, "console")
		}
		globalLogger = logger
	})
	return globalLogger
}

// New reconfigures the global logger from the loaded service configuration.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, err
	}

	logger, err := build(lvl, format)
	if err != nil {
		return zerolog.Logger{}, err
	}

	globalLogger = logger
	return globalLogger, nil
}

func build(lvl zerolog.Level, format string) (zerolog.Logger, error) {
	var writer zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		writer = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case "console":
		writer = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	return writer.Level(lvl), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
