package config

import "time"

// Config holds runtime settings for the foodlog CLI.
type Config struct {
	DatabaseDSN string
	BusyTimeout time.Duration
	LogLevel    string
	LogFormat   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "foodlog.db"
	c.BusyTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig applies defaults, then overlays the environment (seeded from
// ./.env when present), the JSON file named in args and finally the flags in
// args. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	return load(args, ".env")
}

func load(args []string, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
