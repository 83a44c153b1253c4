package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables read by Load.
const (
	EnvConfig       = "TODOD_CONFIG"
	EnvListen       = "TODOD_LISTEN"
	EnvSeed         = "TODOD_SEED"
	EnvLogLevel     = "TODOD_LOG_LEVEL"
	EnvLogFormat    = "TODOD_LOG_FORMAT"
	EnvMaxBodyBytes = "TODOD_MAX_BODY_BYTES"
)

// flagValues holds raw flag values until we know which ones were set.
type flagValues struct {
	configFile      string
	listen          string
	seed            bool
	logLevel        string
	logFormat       string
	shutdownTimeout time.Duration
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (-config, TODOD_CONFIG, or ./todod.toml when present)
// 3. Environment variables
// 4. CLI flags
//
// Only flags present in args override earlier sources.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("todod", flag.ContinueOnError)
	}
	cfg := Default()

	fv := bindFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path, explicit := configPath(fv.configFile, set["config"])
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.File = path
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	applyFlags(cfg, fv, set)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) *flagValues {
	fv := &flagValues{}
	fs.StringVar(&fv.configFile, "config", "", "path to a TOML config file")
	fs.StringVar(&fv.listen, "listen", cfg.Listen, "HTTP listen address")
	fs.BoolVar(&fv.seed, "seed", cfg.Seed, "start with the sample todo items")
	fs.StringVar(&fv.logLevel, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&fv.logFormat, "log-format", cfg.Log.Format, "log format (text, json, logfmt)")
	fs.DurationVar(&fv.shutdownTimeout, "shutdown-timeout", cfg.HTTP.ShutdownTimeout, "graceful shutdown timeout")
	return fv
}

// configPath picks the file to read. The second result is true when the
// user named the file, in which case a missing file is an error.
func configPath(flagValue string, flagSet bool) (string, bool) {
	if flagSet && flagValue != "" {
		return flagValue, true
	}
	if v := os.Getenv(EnvConfig); v != "" {
		return v, true
	}
	return DefaultConfigFile, false
}

// loadConfigFile decodes TOML over cfg. Unknown keys are rejected.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxBodyBytes, err)
		}
		cfg.MaxBodyBytes = n
	}
	return nil
}

func applyFlags(cfg *Config, fv *flagValues, set map[string]bool) {
	if set["listen"] {
		cfg.Listen = fv.listen
	}
	if set["seed"] {
		cfg.Seed = fv.seed
	}
	if set["log-level"] {
		cfg.Log.Level = fv.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = fv.logFormat
	}
	if set["shutdown-timeout"] {
		cfg.HTTP.ShutdownTimeout = fv.shutdownTimeout
	}
}
