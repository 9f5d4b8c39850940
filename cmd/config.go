package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	portfolio "github.com/TomaszMurek1/stock-scout-sub002"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the configuration file.
const (
	EnvTracked                 = "SCOUT_TRACKED"
	EnvCurrency                = "SCOUT_CURRENCY"
	EnvShortWindow             = "SCOUT_SHORT_WINDOW"
	EnvLongWindow              = "SCOUT_LONG_WINDOW"
	EnvCountTouches            = "SCOUT_COUNT_TOUCHES"
	EnvRejectNegativePositions = "SCOUT_REJECT_NEGATIVE_POSITIONS"
	EnvDB                      = "SCOUT_DB"
	EnvSchedule                = "SCOUT_SCHEDULE"
	EnvLogLevel                = "SCOUT_LOG_LEVEL"
	EnvMetricsAddr             = "SCOUT_METRICS_ADDR"
)

// Config holds the application configuration.
type Config struct {
	// Tracked instruments, in the order their values are summed.
	Tracked  []string `yaml:"tracked"`
	Currency string   `yaml:"currency"`

	ShortWindow  int  `yaml:"short_window"`
	LongWindow   int  `yaml:"long_window"`
	CountTouches bool `yaml:"count_touches"`

	RejectNegativePositions bool `yaml:"reject_negative_positions"`

	DB          string `yaml:"db"`
	Schedule    string `yaml:"schedule"` // cron expression with seconds
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// LoadConfig reads the configuration from a YAML file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.ShortWindow == 0 {
		cfg.ShortWindow = 20
	}
	if cfg.LongWindow == 0 {
		cfg.LongWindow = 50
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 22 * * 1-5"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvTracked); v != "" {
		c.Tracked = list(v)
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		c.Currency = v
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DB = v
	}
	if v := os.Getenv(EnvSchedule); v != "" {
		c.Schedule = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.MetricsAddr = v
	}

	var errs []error
	atoi := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	parseBool := func(name string, dst *bool) {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}
	atoi(EnvShortWindow, &c.ShortWindow)
	atoi(EnvLongWindow, &c.LongWindow)
	parseBool(EnvCountTouches, &c.CountTouches)
	parseBool(EnvRejectNegativePositions, &c.RejectNegativePositions)
	return errors.Join(errs...)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error
	if c.ShortWindow < 1 {
		errs = append(errs, fmt.Errorf("short_window must be positive, got %d", c.ShortWindow))
	}
	if c.LongWindow < 1 {
		errs = append(errs, fmt.Errorf("long_window must be positive, got %d", c.LongWindow))
	}
	if _, err := cron.NewParser(cronFields).Parse(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule %q: %w", c.Schedule, err))
	}
	return errors.Join(errs...)
}

// cronFields is the schedule syntax, seconds included.
const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// LedgerOptions returns the ledger options selected by the configuration.
func (c *Config) LedgerOptions() []portfolio.LedgerOption {
	if c.RejectNegativePositions {
		return []portfolio.LedgerOption{portfolio.RejectNegativePositions()}
	}
	return nil
}

// CrossoverOptions returns the crossover options selected by the configuration.
func (c *Config) CrossoverOptions() []portfolio.CrossoverOption {
	if c.CountTouches {
		return []portfolio.CrossoverOption{portfolio.CountTouches()}
	}
	return nil
}
