// Package config loads and validates configuration from VIBERTIME_*
// environment variables. Malformed values are contract violations and are
// rejected here, at read time, so the schedulers never see them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the watcher.
type Config struct {
	// Bedtime is the stop-working time of day as HH:MM.
	Bedtime string `envconfig:"BEDTIME" default:"23:30"`

	// DayStartHour is the session-day boundary; work before this hour
	// counts toward the previous day.
	DayStartHour int `envconfig:"DAY_START_HOUR" default:"4"`

	IdleTimeoutSeconds  int `envconfig:"IDLE_TIMEOUT_SECONDS" default:"30"`
	ZombieWindowSeconds int `envconfig:"ZOMBIE_WINDOW_SECONDS" default:"300"`
	SoftNudgeMinutes    int `envconfig:"SOFT_NUDGE_MINUTES" default:"30"`
	AutoSnoozeMinutes   int `envconfig:"AUTO_SNOOZE_MINUTES" default:"30"`

	// Addr is the listen address of the local status API.
	Addr string `envconfig:"ADDR" default:"127.0.0.1:7399"`

	// DataDir holds the statistics database and log file. Defaults to
	// ~/.vibertime.
	DataDir string `envconfig:"DATA_DIR"`

	Debug bool `envconfig:"DEBUG" default:"false"`

	// OTEL export of the daily ledger, disabled unless configured.
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTELInsecure bool   `envconfig:"OTEL_INSECURE" default:"false"`

	// Parsed from Bedtime at load time.
	BedtimeHour   int `ignored:"true"`
	BedtimeMinute int `ignored:"true"`
}

// Load reads configuration from the environment and fails fast on any
// malformed value.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("VIBERTIME", &cfg); err != nil {
		return nil, err
	}

	hour, minute, err := ParseBedtime(cfg.Bedtime)
	if err != nil {
		return nil, fmt.Errorf("VIBERTIME_BEDTIME %q: %w", cfg.Bedtime, err)
	}
	cfg.BedtimeHour = hour
	cfg.BedtimeMinute = minute

	if cfg.DayStartHour < 0 || cfg.DayStartHour > 23 {
		return nil, ErrInvalidDayStartHour
	}
	if cfg.IdleTimeoutSeconds < 1 {
		return nil, ErrInvalidIdleTimeout
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".vibertime")
	}

	return &cfg, nil
}

// DatabasePath returns the location of the statistics database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "stats.db")
}

// ParseBedtime parses an HH:MM string into hour and minute.
func ParseBedtime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidBedtime
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidBedtime
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidBedtime
	}
	return hour, minute, nil
}
