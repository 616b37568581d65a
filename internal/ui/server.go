// Package ui serves the Weaver paper site and its interactive demo.
package ui

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/resources"
	"github.com/weaver-tableqa/weaversite/internal/ui/router"
	"github.com/weaver-tableqa/weaversite/internal/ui/visitor"
)

// sessionMaxAge keeps visitor cookies for 30 days.
const sessionMaxAge = 86400 * 30

// Server is the site server.
type Server struct {
	registry     *site.Registry
	sessionStore *sessions.CookieStore
	reloader     *router.Reloader
	port         int
	dev          bool
	catalogPath  string
	logger       *slog.Logger
}

// Config holds configuration for the site server.
type Config struct {
	Registry *site.Registry
	Port     int
	// Dev enables the browser reload stream and file watching
	Dev bool
	// SessionSecret signs visitor cookies. A random secret is used when
	// empty, which forgets visitors across restarts.
	SessionSecret string
	// SecureCookies marks visitor cookies Secure. Only enable it behind
	// HTTPS, or browsers never send the cookie back.
	SecureCookies bool
	// CatalogPath is the content file watched in dev mode. Empty means the
	// embedded catalog.
	CatalogPath string
	Logger      *slog.Logger
}

// NewServer creates a new site server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("ui: registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("no session secret configured, visitors reset on restart")
	}

	s := &Server{
		registry:     cfg.Registry,
		sessionStore: visitor.NewStore(secret, sessionMaxAge, cfg.SecureCookies),
		port:         cfg.Port,
		dev:          cfg.Dev,
		catalogPath:  cfg.CatalogPath,
		logger:       logger,
	}
	if s.dev {
		s.reloader = router.NewReloader()
	}
	return s, nil
}

// Handler builds the HTTP handler with middleware and every route.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
		s.requestLogger,
	)

	if err := router.SetupRoutes(r, s.registry, s.sessionStore, s.logger, s.reloader, s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting site server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "dev", s.dev)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.registry.Run(egctx)
	})

	if s.dev {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down site server...")
		// Ends every open update stream so Shutdown does not wait on them
		s.registry.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether the server runs in development mode.
func (s *Server) IsDev() bool {
	return s.dev
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// watchFiles reloads the catalog and the browsers when content or static
// assets change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	var catalogFile string
	if s.catalogPath != "" {
		catalogFile = filepath.Clean(s.catalogPath)
		// Editors replace files on save, so watch the directory
		if err := watcher.Add(filepath.Dir(catalogFile)); err != nil {
			s.logger.Error("failed to watch catalog", "path", catalogFile, "error", err)
		}
	}
	if dir := resources.StaticDir(); dir != "" {
		if err := watcher.Add(dir); err != nil {
			s.logger.Error("failed to watch static directory", "path", dir, "error", err)
		}
	}

	// Debounce timer
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			isCatalog := catalogFile != "" && name == catalogFile
			if ext := filepath.Ext(name); !isCatalog && ext != ".css" && ext != ".js" {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("file changed", "file", name)
				if catalogFile != "" {
					s.reloadCatalog()
				}
				s.reloader.Trigger()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadCatalog swaps in the edited catalog. A broken file keeps the
// current content.
func (s *Server) reloadCatalog() {
	cat, err := catalog.LoadFile(s.catalogPath)
	if err != nil {
		s.logger.Error("catalog reload failed", "path", s.catalogPath, "error", err)
		return
	}
	s.registry.Reload(cat)
}
