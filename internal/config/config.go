// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/sadopc/kidstimer/internal/store"
)

type Config struct {
	DBPath      string `env:"KIDSTIMER_DB_PATH"`
	LogLevel    string `env:"KIDSTIMER_LOG_LEVEL"    envDefault:"warn"`
	Debug       bool   `env:"KIDSTIMER_DEBUG"`
	HistoryDays int    `env:"KIDSTIMER_HISTORY_DAYS" envDefault:"30"`
	Bonuses     bool   `env:"KIDSTIMER_BONUS_POINTS"`
}

// Load parses the environment and fills defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalises cfg in place and rejects unusable values.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("default db path: %w", err)
		}
		c.DBPath = path
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Debug {
		c.LogLevel = "debug"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid KIDSTIMER_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.HistoryDays < 1 {
		return fmt.Errorf("KIDSTIMER_HISTORY_DAYS must be at least 1, got %d", c.HistoryDays)
	}
	return nil
}

// Level returns the parsed log level. Validate must have succeeded.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
