// Package config loads eloud configuration from TOML files and
// environment variables, with live reload via file watching.
//
// Precedence, lowest to highest: defaults, TOML file, environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	// DefaultRate is the speech rate in words per minute. The
	// documented valid range is 1-400; out-of-range values are passed
	// through to the synthesizer verbatim.
	DefaultRate = 270

	// DefaultSettleMS is the post-termination settling interval in
	// milliseconds.
	DefaultSettleMS = 500

	// DefaultRefreshMS is the post-refresh narration delay in
	// milliseconds.
	DefaultRefreshMS = 200
)

// Config holds the eloud settings.
type Config struct {
	// Rate is the speech rate in words per minute.
	Rate int `toml:"rate"`

	// Synthesizer is the path to the synthesizer binary.
	// Empty means resolve the default binary on PATH at startup.
	Synthesizer string `toml:"synthesizer"`

	// SettleMS is the settling interval after cancelling an utterance,
	// in milliseconds.
	SettleMS int `toml:"settle_ms"`

	// RefreshMS is the post-refresh narration delay, in milliseconds.
	RefreshMS int `toml:"refresh_ms"`

	// LogLevel is the logging level: debug, info, warn, or error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() Config {
	return Config{
		Rate:      DefaultRate,
		SettleMS:  DefaultSettleMS,
		RefreshMS: DefaultRefreshMS,
		LogLevel:  "info",
	}
}

// SettleDelay returns the settling interval as a duration.
func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// RefreshDelay returns the post-refresh delay as a duration.
func (c Config) RefreshDelay() time.Duration {
	return time.Duration(c.RefreshMS) * time.Millisecond
}

// Load reads configuration from the given TOML file, then applies
// environment overrides. A missing file is not an error; the defaults
// and environment still apply. An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Environment variable names.
const (
	EnvRate        = "ELOUD_RATE"
	EnvSynthesizer = "ELOUD_SYNTHESIZER"
	EnvSettleMS    = "ELOUD_SETTLE_MS"
	EnvRefreshMS   = "ELOUD_REFRESH_MS"
	EnvLogLevel    = "ELOUD_LOG_LEVEL"
)

// applyEnv overrides config values from the environment.
// Unparseable numeric values leave the existing value in place.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvRate); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rate = n
		}
	}
	if v, ok := os.LookupEnv(EnvSynthesizer); ok {
		cfg.Synthesizer = v
	}
	if v, ok := os.LookupEnv(EnvSettleMS); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SettleMS = n
		}
	}
	if v, ok := os.LookupEnv(EnvRefreshMS); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RefreshMS = n
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
}
