//go:build !dev

package resources

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ServesMinifiedCSS(t *testing.T) {
	h := Handler()

	req := httptest.NewRequest(http.MethodGet, "/static/site.css", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	assert.NotContains(t, rec.Body.String(), "\n  ")
}

func TestHandler_ServesMinifiedScript(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/static/reveal.js", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "IntersectionObserver")
	assert.NotContains(t, rec.Body.String(), "// Reports how much")
}

func TestHandler_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/static/missing.js", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
