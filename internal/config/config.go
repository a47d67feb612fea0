// Package config holds the server configuration read from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/evcraddock/prospect-tracker/internal/db"
)

// Config holds server configuration.
type Config struct {
	DBPath   string
	Port     string
	DevMode  bool
	LogLevel string // debug, info, warn or error; empty follows DevMode
}

// Load reads envFile, if it exists, into the process environment and then
// builds a Config. Variables already set in the environment win.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv creates a Config from PT_* environment variables. The database
// path defaults to db.DefaultPath.
func FromEnv() (Config, error) {
	cfg := Config{
		DBPath:   os.Getenv("PT_DB_PATH"),
		Port:     envOrDefault("PT_PORT", "8080"),
		DevMode:  os.Getenv("PT_DEV_MODE") == "true",
		LogLevel: strings.ToLower(os.Getenv("PT_LOG_LEVEL")),
	}
	if cfg.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

// Validate checks the port and log level.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	return nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
