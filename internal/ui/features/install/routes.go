// Package install serves the installation guide tabs and snippet copying.
package install

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// SetupRoutes configures routes for the install feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	router.Route("/install", func(r chi.Router) {
		r.Post("/tab/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			common.Apply(w, r, reg, func(p *site.Page) error {
				return p.SelectInstallTab(id)
			})
		})
		r.Post("/copy/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			common.Apply(w, r, reg, func(p *site.Page) error {
				return p.CopyInstallStep(id)
			})
		})
	})
	return nil
}
