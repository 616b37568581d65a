// Package router sets up HTTP routes for the site server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/weaver-tableqa/weaversite/internal/site"
	architectureFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/architecture"
	citationFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/citation"
	demoFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/demo"
	homeFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/home"
	installFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/install"
	resultsFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/results"
	viewportFeature "github.com/weaver-tableqa/weaversite/internal/ui/features/viewport"
	"github.com/weaver-tableqa/weaversite/internal/ui/notifier"
	"github.com/weaver-tableqa/weaversite/internal/ui/resources"
	"github.com/weaver-tableqa/weaversite/internal/ui/visitor"
)

// Reloader tells connected dev browsers to reload the page.
type Reloader struct {
	notify *notifier.Notifier
}

// NewReloader creates a Reloader with no connected browsers.
func NewReloader() *Reloader {
	return &Reloader{notify: notifier.New()}
}

// Trigger reloads every connected browser.
func (r *Reloader) Trigger() {
	r.notify.Broadcast()
}

// SetupRoutes configures all routes for the site server. A nil reloader
// disables the dev reload stream.
func SetupRoutes(
	router chi.Router,
	reg *site.Registry,
	sessionStore sessions.Store,
	logger *slog.Logger,
	reloader *Reloader,
	isDev bool,
) error {
	// Hot reload endpoint for dev mode
	if isDev && reloader != nil {
		setupReload(router, reloader)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	var err error
	router.Group(func(r chi.Router) {
		r.Use(visitor.Middleware(sessionStore, logger))

		setups := []func(chi.Router) error{
			func(r chi.Router) error { return homeFeature.SetupRoutes(r, reg, logger, isDev) },
			func(r chi.Router) error { return demoFeature.SetupRoutes(r, reg) },
			func(r chi.Router) error { return architectureFeature.SetupRoutes(r, reg) },
			func(r chi.Router) error { return resultsFeature.SetupRoutes(r, reg) },
			func(r chi.Router) error { return installFeature.SetupRoutes(r, reg) },
			func(r chi.Router) error { return citationFeature.SetupRoutes(r, reg) },
			func(r chi.Router) error { return viewportFeature.SetupRoutes(r, reg) },
		}
		for _, setup := range setups {
			if err = setup(r); err != nil {
				return
			}
		}
	})
	return err
}

func setupReload(router chi.Router, reloader *Reloader) {
	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		ch := reloader.notify.Subscribe()
		defer reloader.notify.Unsubscribe(ch)

		sse := datastar.NewSSE(w, r)
		select {
		case <-ch:
			_ = sse.ExecuteScript("window.location.reload()")
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reloader.Trigger()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
