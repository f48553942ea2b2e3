// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about HTTP calls and taxonomy resolution.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    observability.SetTaxonomyHooks(&myTaxonomyHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.HTTP().OnRequest(ctx, method, host, path)
//	// ... send request ...
//	observability.HTTP().OnResponse(ctx, method, host, path, status, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request attempt.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response of any status.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Taxonomy Hooks
// =============================================================================

// TaxonomyHooks receives events from category/tag resolution.
type TaxonomyHooks interface {
	// OnResolved records a name mapped to an id. created is true when the
	// term did not exist and was created by this call.
	OnResolved(ctx context.Context, kind, name string, id int64, created bool)

	// OnFailed records a name that could not be searched or created.
	OnFailed(ctx context.Context, kind, name string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopTaxonomyHooks is a no-op implementation of TaxonomyHooks.
type NoopTaxonomyHooks struct{}

func (NoopTaxonomyHooks) OnResolved(context.Context, string, string, int64, bool) {}
func (NoopTaxonomyHooks) OnFailed(context.Context, string, string, error)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	taxonomyHooks TaxonomyHooks = NoopTaxonomyHooks{}
	hooksMu       sync.RWMutex
)

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// SetTaxonomyHooks registers custom taxonomy hooks.
func SetTaxonomyHooks(h TaxonomyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		taxonomyHooks = h
	}
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Taxonomy returns the registered taxonomy hooks.
func Taxonomy() TaxonomyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return taxonomyHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	httpHooks = NoopHTTPHooks{}
	taxonomyHooks = NoopTaxonomyHooks{}
}
