package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nodela/nodela-go/internal/apierrors"
)

func lookupFrom(env map[string]string, calls *int) LookupFunc {
	return func(key string) (string, bool) {
		*calls++
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.BaseURL != "https://api.nodela.co" {
		t.Errorf("BaseURL = %s, want https://api.nodela.co", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestResolve_ExplicitKeySkipsEnvironment(t *testing.T) {
	var calls int
	cfg := Defaults()
	cfg.APIKey = "explicit"

	got, err := Resolve(cfg, lookupFrom(map[string]string{EnvAPIKey: "from-env"}, &calls))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.APIKey != "explicit" {
		t.Errorf("APIKey = %s, want explicit", got.APIKey)
	}
	if calls != 0 {
		t.Errorf("lookup calls = %d, want 0", calls)
	}
}

func TestResolve_KeyFromEnvironment(t *testing.T) {
	var calls int
	got, err := Resolve(Defaults(), lookupFrom(map[string]string{EnvAPIKey: "from-env"}, &calls))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.APIKey != "from-env" {
		t.Errorf("APIKey = %s, want from-env", got.APIKey)
	}
	if calls != 1 {
		t.Errorf("lookup calls = %d, want 1", calls)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	var calls int
	_, err := Resolve(Defaults(), lookupFrom(nil, &calls))
	if !errors.Is(err, apierrors.ErrAuthentication) {
		t.Fatalf("error = %v, want authentication error", err)
	}

	var apiErr *apierrors.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *apierrors.Error", err)
	}
	if apiErr.Origin != apierrors.OriginConfig {
		t.Errorf("Origin = %v, want %v", apiErr.Origin, apierrors.OriginConfig)
	}
	if !strings.Contains(apiErr.Message, EnvAPIKey) {
		t.Errorf("Message = %q, want it to name %s", apiErr.Message, EnvAPIKey)
	}
}

func TestResolve_EmptyEnvironmentValue(t *testing.T) {
	var calls int
	_, err := Resolve(Defaults(), lookupFrom(map[string]string{EnvAPIKey: ""}, &calls))
	if !errors.Is(err, apierrors.ErrAuthentication) {
		t.Errorf("error = %v, want authentication error", err)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"negative burst", func(c *Config) { c.Burst = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.APIKey = "k"
			tt.modify(&cfg)

			_, err := Resolve(cfg, nil)
			if !errors.Is(err, apierrors.ErrValidation) {
				t.Fatalf("error = %v, want validation error", err)
			}
			var apiErr *apierrors.Error
			if errors.As(err, &apiErr) && apiErr.Origin != apierrors.OriginConfig {
				t.Errorf("Origin = %v, want %v", apiErr.Origin, apierrors.OriginConfig)
			}
		})
	}
}

func TestResolve_FillsDefaults(t *testing.T) {
	got, err := Resolve(Config{APIKey: "k", Timeout: time.Second, RateLimit: 5}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", got.BaseURL, DefaultBaseURL)
	}
	if got.Burst != 1 {
		t.Errorf("Burst = %d, want 1", got.Burst)
	}
	if got.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", got.MaxRetries)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodela.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv("NODELA_TEST_KEY", "key-from-env")

	path := writeFile(t, `
api_key: ${NODELA_TEST_KEY}
base_url: https://sandbox.nodela.co
timeout: 45s
max_retries: 0
rate_limit: 2.5
burst: 4
`)

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if p.APIKey != "key-from-env" {
		t.Errorf("APIKey = %s, want key-from-env", p.APIKey)
	}
	if p.BaseURL != "https://sandbox.nodela.co" {
		t.Errorf("BaseURL = %s, want https://sandbox.nodela.co", p.BaseURL)
	}
	if p.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", p.Timeout)
	}
	if p.MaxRetries == nil || *p.MaxRetries != 0 {
		t.Errorf("MaxRetries = %v, want explicit 0", p.MaxRetries)
	}

	cfg := p.Apply(Defaults())
	if cfg.MaxRetries != 0 {
		t.Errorf("applied MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.RateLimit != 2.5 || cfg.Burst != 4 {
		t.Errorf("applied rate = %v/%d, want 2.5/4", cfg.RateLimit, cfg.Burst)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	p, err := LoadFile(writeFile(t, "api_key: abc\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	cfg := p.Apply(Defaults())
	if cfg.Timeout != DefaultTimeout || cfg.MaxRetries != DefaultMaxRetries || cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Apply() = %+v, want defaults kept", cfg)
	}
	if cfg.APIKey != "abc" {
		t.Errorf("APIKey = %s, want abc", cfg.APIKey)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "api_kee: typo\n"))
		if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("error = %v, want parse error", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadFile(writeFile(t, "timeout: soon\n"))
		if err == nil {
			t.Error("expected error for invalid duration")
		}
	})
}

func TestProfile_ApplyNil(t *testing.T) {
	var p *Profile
	if got := p.Apply(Defaults()); got != Defaults() {
		t.Errorf("Apply() = %+v, want defaults", got)
	}
}

func TestConfig_Redacted(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"sk_live_123456", "****3456"},
	}
	for _, tt := range tests {
		if got := (Config{APIKey: tt.key}).Redacted(); got != tt.want {
			t.Errorf("Redacted(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}
