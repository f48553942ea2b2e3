package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/matzehuels/presspub/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "PRESSPUB_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRESSPUB_HOST", "https://www.crifan.org")
	t.Setenv("PRESSPUB_TOKEN", "secret")
	t.Setenv("PRESSPUB_TIMEOUT", "30s")
	t.Setenv("PRESSPUB_PER_PAGE", "50")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Host != "https://www.crifan.org" || cfg.Token != "secret" {
		t.Errorf("credentials = %q, %q", cfg.Host, cfg.Token)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.PerPage != 50 {
		t.Errorf("PerPage = %d, want 50", cfg.PerPage)
	}
	if cfg.MaxRetries != 10 {
		t.Errorf("MaxRetries = %d, want default 10", cfg.MaxRetries)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Host = "https://www.crifan.org"
	want.Token = "secret"
	want.Proxy = "http://127.0.0.1:58591"
	want.RateLimit = 2

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Host = "https://file.example.com"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PRESSPUB_HOST", "https://env.example.com")

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Host != "https://env.example.com" {
		t.Errorf("Host = %q, want environment value", got.Host)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("host = [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"valid host", func(c *Config) { c.Host = "https://www.crifan.org" }, false},
		{"host without scheme", func(c *Config) { c.Host = "www.crifan.org" }, true},
		{"bad proxy", func(c *Config) { c.Proxy = "socks://x" }, true},
		{"per_page zero", func(c *Config) { c.PerPage = 0 }, true},
		{"per_page too large", func(c *Config) { c.PerPage = 101 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireCredentials(t *testing.T) {
	cfg := Default()
	if err := cfg.RequireCredentials(); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("missing host: %v", err)
	}
	cfg.Host = "https://www.crifan.org"
	if err := cfg.RequireCredentials(); err == nil || !strings.Contains(err.Error(), "token") {
		t.Errorf("missing token: %v", err)
	}
	cfg.Token = "t"
	if err := cfg.RequireCredentials(); err != nil {
		t.Errorf("complete: %v", err)
	}
}

func TestTransport(t *testing.T) {
	cfg := Default()
	cfg.MaxRetries = 3
	cfg.RetryBackoff = time.Second
	tr := cfg.Transport()
	if tr.Retry.Attempts != 3 || tr.Retry.Delay != time.Second || tr.Timeout != 90*time.Second {
		t.Errorf("Transport() = %+v", tr)
	}
	if len(cfg.ClientOptions()) != 3 {
		t.Error("ClientOptions() should carry transport, page size, and uploads path")
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{Token: "eyJ0eXAiOiJKV1QiLCJhbGciOiJIUzI1NiJ9"}
	if got := cfg.Redacted().Token; got != "eyJ0...NiJ9" {
		t.Errorf("Redacted() = %q", got)
	}
	if got := (Config{Token: "short"}).Redacted().Token; got != "****" {
		t.Errorf("Redacted() = %q", got)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "presspub", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}
}
