// Package viewport receives section visibility reports and navigation
// requests from the browser.
package viewport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features/common"
)

// SetupRoutes configures routes for the viewport feature.
func SetupRoutes(router chi.Router, reg *site.Registry) error {
	router.Post("/reveal/{section}", func(w http.ResponseWriter, r *http.Request) {
		ratio, err := parseRatio(r.URL.Query().Get("ratio"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		section := chi.URLParam(r, "section")
		common.Apply(w, r, reg, func(p *site.Page) error {
			return p.ReportVisibility(section, ratio)
		})
	})
	router.Get("/nav/{anchor}", func(w http.ResponseWriter, r *http.Request) {
		anchor := chi.URLParam(r, "anchor")
		common.Apply(w, r, reg, func(p *site.Page) error {
			return p.ScrollTo(anchor)
		})
	})
	return nil
}

// parseRatio reads the intersection ratio the browser observed. The
// threshold is applied on the server, so the ratio is required.
func parseRatio(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing ratio")
	}
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ratio %q", s)
	}
	return ratio, nil
}
