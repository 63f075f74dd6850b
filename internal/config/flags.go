package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/foodlog/internal/flagx"
)

// parseFlags populates cfg from the -d/--dsn and -l/--log-level flags in
// args. Everything else in args belongs to the command tree and is filtered
// out first.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-d", "--dsn", "-l", "--log-level"})

	fs := flag.NewFlagSet("foodlog", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database path or DSN")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database path or DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
