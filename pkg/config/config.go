// Package config loads presspub settings from a TOML file and the
// environment.
//
// Values come from, in increasing priority: built-in defaults, the TOML
// file, and PRESSPUB_* environment variables.
//
//	cfg, err := config.Load(config.DefaultPath())
//	client, err := wordpress.NewClient(cfg.Host, cfg.Token, cfg.ClientOptions()...)
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/httputil"
	"github.com/matzehuels/presspub/pkg/integrations"
	"github.com/matzehuels/presspub/pkg/integrations/wordpress"
)

// AppName is the directory name used under the user config directory.
const AppName = "presspub"

// Config holds site credentials and transport settings.
type Config struct {
	Host  string `toml:"host" env:"PRESSPUB_HOST" env-description:"WordPress site root, e.g. https://www.crifan.org"`
	Token string `toml:"token" env:"PRESSPUB_TOKEN" env-description:"JWT bearer token"`
	Proxy string `toml:"proxy" env:"PRESSPUB_PROXY" env-description:"HTTP proxy URL"`

	Timeout      time.Duration `toml:"timeout" env:"PRESSPUB_TIMEOUT" env-default:"90s" env-description:"per-request timeout"`
	MaxRetries   int           `toml:"max_retries" env:"PRESSPUB_MAX_RETRIES" env-default:"10" env-description:"attempts on connection failure"`
	RetryBackoff time.Duration `toml:"retry_backoff" env:"PRESSPUB_RETRY_BACKOFF" env-default:"500ms" env-description:"first retry delay, doubled per attempt"`
	RateLimit    float64       `toml:"rate_limit" env:"PRESSPUB_RATE_LIMIT" env-default:"0" env-description:"requests per second, 0 for unlimited"`

	PerPage     int    `toml:"per_page" env:"PRESSPUB_PER_PAGE" env-default:"100" env-description:"taxonomy search page size (1-100)"`
	UploadsPath string `toml:"uploads_path" env:"PRESSPUB_UPLOADS_PATH" env-default:"/wp-content/uploads" env-description:"site-relative uploads directory"`
}

// Default returns a Config with every default applied and no credentials.
func Default() Config {
	return Config{
		Timeout:      90 * time.Second,
		MaxRetries:   httputil.DefaultAttempts,
		RetryBackoff: httputil.DefaultDelay,
		PerPage:      wordpress.DefaultPerPage,
		UploadsPath:  wordpress.DefaultUploadsPath,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/presspub/config.toml, falling back
// to ~/.config/presspub/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", AppName+".toml")
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// Load reads path when it exists and then applies the environment.
// A missing file is not an error. An empty path reads the environment only.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
			return cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "stat config %s", path)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read environment")
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating parent directories. The file
// holds the token, so it is readable by the owner only.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "create config directory")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidPath, err, "write config %s", path)
	}
	return nil
}

// Validate checks that the settings can build a client.
// Host and token are not required here; see [Config.RequireCredentials].
func (c Config) Validate() error {
	if c.Host != "" {
		if err := perrors.ValidateURL(c.Host); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "host")
		}
	}
	if c.Proxy != "" {
		if err := perrors.ValidateURL(c.Proxy); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "proxy")
		}
	}
	if c.PerPage < 1 || c.PerPage > wordpress.DefaultPerPage {
		return perrors.New(perrors.ErrCodeInvalidConfig, "per_page must be between 1 and %d, got %d", wordpress.DefaultPerPage, c.PerPage)
	}
	if c.Timeout < 0 || c.RetryBackoff < 0 || c.MaxRetries < 0 || c.RateLimit < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "timeout, retries, backoff, and rate limit must not be negative")
	}
	return nil
}

// RequireCredentials reports a missing host or token.
func (c Config) RequireCredentials() error {
	if c.Host == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "no host configured (set PRESSPUB_HOST or run 'presspub auth login')")
	}
	if c.Token == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "no token configured (set PRESSPUB_TOKEN or run 'presspub auth login')")
	}
	return nil
}

// Transport returns the transport settings.
func (c Config) Transport() integrations.Config {
	return integrations.Config{
		Timeout:   c.Timeout,
		Proxy:     c.Proxy,
		RateLimit: c.RateLimit,
		Retry: httputil.Policy{
			Attempts: c.MaxRetries,
			Delay:    c.RetryBackoff,
			MaxDelay: httputil.DefaultMaxDelay,
		},
	}
}

// ClientOptions returns the wordpress client options for c.
func (c Config) ClientOptions() []wordpress.Option {
	return []wordpress.Option{
		wordpress.WithTransport(c.Transport()),
		wordpress.WithPerPage(c.PerPage),
		wordpress.WithUploadsPath(c.UploadsPath),
	}
}

// Redacted returns a copy with the token masked, for display.
func (c Config) Redacted() Config {
	if len(c.Token) > 8 {
		c.Token = c.Token[:4] + "..." + c.Token[len(c.Token)-4:]
	} else if c.Token != "" {
		c.Token = "****"
	}
	return c
}
