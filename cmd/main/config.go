package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
)

const (
	envLogLevel     = "MARKOVTEXT_LOG_LEVEL"
	envDatabasePath = "MARKOVTEXT_DATABASE_PATH"
)

// ErrConfigNotWritten is returned alongside a usable default Config when the
// default config file could not be created.
var ErrConfigNotWritten = errors.New("failed to write default config file")

// Config holds the settings that flags fall back to when they are not given.
type Config struct {
	LogLevel      string `json:"log_level"`
	DatabasePath  string `json:"database_path"`
	DefaultLength int    `json:"default_length"`
	DefaultOrder  int    `json:"default_order"`
	SentenceStart bool   `json:"sentence_start"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "warn",
		DatabasePath:  "./markovtext.db?_journal_mode=WAL&_busy_timeout=5000",
		DefaultLength: 200,
		DefaultOrder:  3,
		SentenceStart: false,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values. Values from
// the environment, including a .env file in the working directory, override
// the file. If the default file cannot be written, the defaults are returned
// together with an error wrapping ErrConfigNotWritten.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	var writeErr error

	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		var data []byte
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
			writeErr = fmt.Errorf("%w: %v", ErrConfigNotWritten, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err = json.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// A missing .env file is the common case.
	_ = godotenv.Load()
	if v := os.Getenv(envLogLevel); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		config.DatabasePath = v
	}

	return config, writeErr
}

// parseLevel maps a config string to a slog level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
