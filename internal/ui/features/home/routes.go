// Package home serves the page itself and its live update stream.
package home

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, reg *site.Registry, logger *slog.Logger, isDev bool) error {
	handlers := NewHandlers(reg, logger, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.Updates)
	router.Get("/healthz", handlers.Health)

	return nil
}
