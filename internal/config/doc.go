// Package config loads runtime configuration for the foodlog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a .env file.
//  3. Optional JSON file selected with -c or --config.
//  4. Command-line flags, which override earlier values.
//
// Environment
//
//	FOODLOG_DSN            SQLite database path or DSN
//	FOODLOG_BUSY_TIMEOUT   how long to wait on a locked database, e.g. "5s"
//	FOODLOG_LOG_LEVEL      debug, info, warn or error
//	FOODLOG_LOG_FORMAT     text or json
//
// Supported flags
//
//	-d, --dsn string         database path or DSN
//	-l, --log-level string   log level
//
// # JSON schema
//
// busy_timeout accepts either a duration string or integer nanoseconds:
//
//	{
//	  "database_dsn": "/var/lib/foodlog/foodlog.db",
//	  "busy_timeout": "5s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Keys missing from the file keep their earlier value.
package config
