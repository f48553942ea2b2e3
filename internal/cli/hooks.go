package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/presspub/pkg/observability"
)

// logHooks writes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}

func (h *logHooks) OnResolved(_ context.Context, kind, name string, id int64, created bool) {
	h.logger.Debug("resolved", "kind", kind, "name", name, "id", id, "created", created)
}

func (h *logHooks) OnFailed(_ context.Context, kind, name string, err error) {
	h.logger.Debug("resolution failed", "kind", kind, "name", name, "err", err)
}

var (
	_ observability.HTTPHooks     = (*logHooks)(nil)
	_ observability.TaxonomyHooks = (*logHooks)(nil)
)
