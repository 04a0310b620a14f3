// Package config loads runtime settings from the environment, optionally
// seeded from a .env file, and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables
const (
	EnvLogLevel     = "CHESSNOVA_LOG_LEVEL"
	EnvLogFormat    = "CHESSNOVA_LOG_FORMAT"
	EnvDataDir      = "CHESSNOVA_DATA_DIR"
	EnvDifficulty   = "CHESSNOVA_DIFFICULTY"
	EnvThinkingTime = "CHESSNOVA_THINKING_TIME"
	EnvSeed         = "CHESSNOVA_SEED"
)

// Log formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the process settings.
type Config struct {
	Logs         LogConfig
	DataDir      string // empty means the platform data directory
	Difficulty   string
	ThinkingTime time.Duration
	Seed         int64 // 0 seeds from the clock
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  zerolog.Level
	Format string
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Logs:         LogConfig{Level: zerolog.InfoLevel, Format: FormatConsole},
		Difficulty:   "medium",
		ThinkingTime: 500 * time.Millisecond,
	}
}

// Load reads the configuration from the environment. Variables from the
// given .env files are added first without overriding ones already set; a
// missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv. Empty
// values keep their defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv(EnvLogLevel); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
		cfg.Logs.Level = level
	}

	if v := getenv(EnvLogFormat); v != "" {
		v = strings.ToLower(v)
		if v != FormatConsole && v != FormatJSON {
			return nil, fmt.Errorf("config: %s: unknown format %q", EnvLogFormat, v)
		}
		cfg.Logs.Format = v
	}

	cfg.DataDir = getenv(EnvDataDir)

	if v := getenv(EnvDifficulty); v != "" {
		cfg.Difficulty = strings.ToLower(v)
	}

	if v := getenv(EnvThinkingTime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvThinkingTime, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("config: %s: negative duration %s", EnvThinkingTime, v)
		}
		cfg.ThinkingTime = d
	}

	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

// NewLogger builds the process logger writing to w.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	if c.Logs.Format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(c.Logs.Level).With().Timestamp().Logger()
}
