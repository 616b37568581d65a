package demo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the demo feature.
type Handlers struct {
	registry *site.Registry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *site.Registry) *Handlers {
	return &Handlers{registry: reg}
}

// Run starts the active example. A run already in progress is left alone.
func (h *Handlers) Run(w http.ResponseWriter, r *http.Request) {
	common.Apply(w, r, h.registry, func(p *site.Page) error {
		p.RunDemo()
		return nil
	})
}

// Reset clears the demo progress.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	common.Apply(w, r, h.registry, func(p *site.Page) error {
		p.ResetDemo()
		return nil
	})
}

// Select switches the demo example.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	common.Apply(w, r, h.registry, func(p *site.Page) error {
		return p.SelectDemo(id)
	})
}
