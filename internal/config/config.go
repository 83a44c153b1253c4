// Package config loads todod settings from defaults, a TOML file, the
// environment, and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/idilsaglam/todo-service/internal/logging"
)

// Defaults.
const (
	DefaultListen          = "127.0.0.1:8080"
	DefaultConfigFile      = "todod.toml"
	DefaultMaxBodyBytes    = 1 << 20
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultReadTimeout     = 5 * time.Second
	DefaultHeaderTimeout   = 2 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Config is the full server configuration.
type Config struct {
	Listen       string     `toml:"listen"`
	Seed         bool       `toml:"seed"`
	MaxBodyBytes int64      `toml:"max_body_bytes"`
	Log          LogConfig  `toml:"log"`
	HTTP         HTTPConfig `toml:"http"`

	// File is the config file that was read, empty if none.
	File string `toml:"-"`
}

// LogConfig mirrors logging.Options.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Timestamps bool   `toml:"timestamps"`
}

// HTTPConfig holds server timeouts.
type HTTPConfig struct {
	ReadTimeout       time.Duration `toml:"read_timeout"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	IdleTimeout       time.Duration `toml:"idle_timeout"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Listen = DefaultListen
	cfg.Seed = true
	cfg.MaxBodyBytes = DefaultMaxBodyBytes
	cfg.Log = LogConfig{
		Level:      DefaultLogLevel,
		Format:     DefaultLogFormat,
		Timestamps: true,
	}
	cfg.HTTP = HTTPConfig{
		ReadTimeout:       DefaultReadTimeout,
		ReadHeaderTimeout: DefaultHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// LoggingOptions converts the log section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		Timestamps: c.Log.Timestamps,
		Prefix:     "todod",
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		errs = append(errs, fmt.Errorf("listen %q: %w", c.Listen, err))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be > 0, got %d", c.MaxBodyBytes))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormatter(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	timeouts := map[string]time.Duration{
		"read_timeout":        c.HTTP.ReadTimeout,
		"read_header_timeout": c.HTTP.ReadHeaderTimeout,
		"write_timeout":       c.HTTP.WriteTimeout,
		"idle_timeout":        c.HTTP.IdleTimeout,
		"shutdown_timeout":    c.HTTP.ShutdownTimeout,
	}
	for name, d := range timeouts {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}
