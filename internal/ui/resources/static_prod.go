//go:build !dev

package resources

import (
	"bytes"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

//go:embed static/*
var staticFS embed.FS

// Handler returns an HTTP handler for the embedded assets. Stylesheets and
// scripts are minified once, when the handler is built.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))
	minified := minifyAssets(fsys)
	built := time.Now()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Embedded assets never change for the life of the binary
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		name := strings.TrimPrefix(r.URL.Path, "/static/")
		if body, ok := minified[name]; ok {
			w.Header().Set("Content-Type", minifiers[path.Ext(name)].contentType)
			http.ServeContent(w, r, name, built, bytes.NewReader(body))
			return
		}
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

func minifyAssets(fsys fs.FS) map[string][]byte {
	out := make(map[string][]byte)
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		m, ok := minifiers[path.Ext(p)]
		if !ok {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		body, err := m.fn(src)
		if err != nil {
			slog.Warn("serving unminified asset", "file", p, "error", err)
			body = src
		}
		out[p] = body
		return nil
	})
	return out
}

// StaticDir returns "" because assets are embedded.
func StaticDir() string { return "" }
