// Package demo exposes the scripted walkthrough controls.
package demo

import (
	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
)

// SetupRoutes configures routes for the demo feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	handlers := NewHandlers(reg)

	router.Route("/demo", func(r chi.Router) {
		r.Post("/run", handlers.Run)
		r.Post("/reset", handlers.Reset)
		r.Post("/select/{id}", handlers.Select)
	})

	return nil
}
