package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	envDSN         = "FOODLOG_DSN"
	envBusyTimeout = "FOODLOG_BUSY_TIMEOUT"
	envLogLevel    = "FOODLOG_LOG_LEVEL"
	envLogFormat   = "FOODLOG_LOG_FORMAT"
)

// parseEnv overlays cfg with FOODLOG_* variables. When envFile exists it is
// loaded first; variables already set in the process win over the file.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v, ok := os.LookupEnv(envDSN); ok && v != "" {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envBusyTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envBusyTimeout, err)
		}
		cfg.BusyTimeout = d
	}
	if v, ok := os.LookupEnv(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(envLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
	return nil
}
