package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	perrors "github.com/matzehuels/presspub/pkg/errors"
	"github.com/matzehuels/presspub/pkg/httputil"
)

// Config holds transport settings.
//
// Zero values: no timeout, proxy taken from the environment, a single
// attempt per request, and no pacing. Use [DefaultConfig] for the retrying
// defaults.
type Config struct {
	Timeout   time.Duration   // Whole-request deadline (0 = none)
	Proxy     string          // Proxy URL, e.g. http://127.0.0.1:58591 (empty = environment)
	Retry     httputil.Policy // Retry policy for connection failures
	RateLimit float64         // Requests per second (0 = unlimited)
}

// DefaultConfig returns a Config with [httputil.DefaultPolicy] and no
// timeout or pacing.
func DefaultConfig() Config {
	return Config{Retry: httputil.DefaultPolicy()}
}

// NewHTTPClient creates an HTTP client honouring the timeout and proxy of cfg.
func NewHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		if err := perrors.ValidateURL(cfg.Proxy); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid proxy")
		}
		u, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid proxy %q", cfg.Proxy)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: transport}, nil
}

// JoinURL appends path to base, avoiding a doubled slash.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
