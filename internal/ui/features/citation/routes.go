// Package citation serves the BibTeX copy control.
package citation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// SetupRoutes configures routes for the citation feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	router.Post("/citation/copy", func(w http.ResponseWriter, r *http.Request) {
		common.Apply(w, r, reg, func(p *site.Page) error {
			p.CopyCitation()
			return nil
		})
	})
	return nil
}
