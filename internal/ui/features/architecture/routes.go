// Package architecture serves the pipeline stage tabs.
package architecture

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// SetupRoutes configures routes for the architecture feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	router.Post("/architecture/select/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		common.Apply(w, r, reg, func(p *site.Page) error {
			return p.SelectStep(id)
		})
	})
	return nil
}
