// Package config resolves client configuration from explicit values, the
// environment and optional YAML profiles.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/nodela/nodela-go/internal/apierrors"
)

// EnvAPIKey is the environment variable consulted when no API key is given.
const EnvAPIKey = "NODELA_API_KEY"

// Defaults.
const (
	DefaultBaseURL    = "https://api.nodela.co"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Config is the resolved client configuration. It is not modified after
// Resolve returns.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is the maximum number of attempts per second. Zero disables
	// client-side rate limiting.
	RateLimit float64
	Burst     int
}

// Defaults returns a Config with every default applied and no API key.
func Defaults() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Resolve validates cfg and fills in what the caller left unset. When
// cfg.APIKey is empty, lookup is called once for EnvAPIKey; a nil lookup
// uses os.LookupEnv. Errors are *apierrors.Error with config origin.
func Resolve(cfg Config, lookup LookupFunc) (Config, error) {
	if cfg.APIKey == "" {
		if lookup == nil {
			lookup = os.LookupEnv
		}
		if key, ok := lookup(EnvAPIKey); ok {
			cfg.APIKey = key
		}
	}
	if cfg.APIKey == "" {
		return Config{}, &apierrors.Error{
			Kind:    apierrors.KindAuthentication,
			Origin:  apierrors.OriginConfig,
			Message: "API key is required: pass one explicitly or set " + EnvAPIKey,
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		return Config{}, apierrors.Validation(apierrors.OriginConfig, "timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return Config{}, apierrors.Validation(apierrors.OriginConfig, "max retries must not be negative, got %d", cfg.MaxRetries)
	}
	if cfg.RateLimit < 0 {
		return Config{}, apierrors.Validation(apierrors.OriginConfig, "rate limit must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.Burst < 0 {
		return Config{}, apierrors.Validation(apierrors.OriginConfig, "burst must not be negative, got %d", cfg.Burst)
	}
	if cfg.RateLimit > 0 && cfg.Burst == 0 {
		cfg.Burst = 1
	}

	return cfg, nil
}

// Profile is the on-disk YAML form of a configuration. Unset fields leave
// the corresponding Config value alone.
type Profile struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries *int          `yaml:"max_retries"`
	RateLimit  float64       `yaml:"rate_limit"`
	Burst      int           `yaml:"burst"`
}

// LoadFile reads a YAML profile. ${VAR} references are expanded from the
// environment before parsing.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var p Profile
	expanded := os.ExpandEnv(string(data))
	if err := yaml.UnmarshalStrict([]byte(expanded), &p); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &p, nil
}

// Apply overlays the values set in p onto cfg.
func (p *Profile) Apply(cfg Config) Config {
	if p == nil {
		return cfg
	}
	if p.APIKey != "" {
		cfg.APIKey = p.APIKey
	}
	if p.BaseURL != "" {
		cfg.BaseURL = p.BaseURL
	}
	if p.Timeout != 0 {
		cfg.Timeout = p.Timeout
	}
	if p.MaxRetries != nil {
		cfg.MaxRetries = *p.MaxRetries
	}
	if p.RateLimit != 0 {
		cfg.RateLimit = p.RateLimit
	}
	if p.Burst != 0 {
		cfg.Burst = p.Burst
	}
	return cfg
}

// Redacted returns the API key with all but its last four characters masked.
func (c Config) Redacted() string {
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
