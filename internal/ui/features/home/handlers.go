package home

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/components"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	registry *site.Registry
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *site.Registry, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{registry: reg, logger: logger, isDev: isDev}
}

// HomePage renders the full page from the visitor's current state.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	var snap site.Snapshot
	if err := common.Do(h.registry, r, func(p *site.Page) { snap = p.Snapshot() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Page(snap, h.isDev).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Updates is the long-lived SSE endpoint. It sends nothing up front, the
// page is already rendered, and re-patches the main element after every
// state change of the visitor's instance.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	inst, err := common.Instance(h.registry, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := inst.Subscribe()
	defer inst.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-inst.Done():
			// Instance torn down; the client reconnects to a fresh one
			return
		case <-updates:
			snap, err := inst.Snapshot(ctx)
			if errors.Is(err, eventloop.ErrClosed) {
				return
			}
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(components.Main(snap)); err != nil {
				h.logger.Debug("update stream write failed", "error", err)
				return
			}
		}
	}
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
