// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DBPath overrides the default ~/.flowfocus.db location.
	DBPath   string `envconfig:"FF_DB" default:""`
	LogLevel string `envconfig:"FF_LOG_LEVEL" default:"info"`
	Timezone string `envconfig:"FF_TIMEZONE" default:"Local"`

	// RolloverCron is the schedule on which `ff watch` catches up missed
	// recurring-task occurrences.
	RolloverCron string `envconfig:"FF_ROLLOVER_CRON" default:"@hourly"`
}

func (c *Config) Validate() error {
	if c.RolloverCron == "" {
		return fmt.Errorf("FF_ROLLOVER_CRON must not be empty")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
