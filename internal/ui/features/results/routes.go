// Package results serves the benchmark chart controls.
package results

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// SetupRoutes configures routes for the results feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	router.Route("/results", func(r chi.Router) {
		r.Post("/dataset/{id}", selecting(reg, (*site.Page).SelectDataset))
		r.Post("/model/{id}", selecting(reg, (*site.Page).SelectModel))
	})
	return nil
}

func selecting(reg *site.Registry, sel func(*site.Page, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		common.Apply(w, r, reg, func(p *site.Page) error {
			return sel(p, id)
		})
	}
}
