package viewport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/ui/features"
)

func setupRouter(t *testing.T) (chi.Router, *features.TestFixture) {
	t.Helper()
	f := features.SetupTestFixture(t, features.FastConfig())
	router := chi.NewRouter()
	require.NoError(t, SetupRoutes(router, f.Registry))
	return router, f
}

func serve(router chi.Router, f *features.TestFixture, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, f.Request(method, target))
	return rec
}

// =============================================================================
// Reveal
// =============================================================================

func TestReveal_StaggersChildren(t *testing.T) {
	router, f := setupRouter(t)

	rec := serve(router, f, http.MethodPost, "/reveal/architecture?ratio=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.Snapshot().Section("architecture").Reveal.Revealed)

	require.Eventually(t, func() bool {
		return f.Snapshot().Section("architecture").Reveal.Done()
	}, time.Second, 5*time.Millisecond)
}

func TestReveal_Ratio(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantStatus   int
		wantRevealed bool
	}{
		{name: "missing ratio", query: "", wantStatus: http.StatusBadRequest, wantRevealed: false},
		{name: "at threshold", query: "?ratio=0.1", wantStatus: http.StatusOK, wantRevealed: true},
		{name: "above threshold", query: "?ratio=0.25", wantStatus: http.StatusOK, wantRevealed: true},
		{name: "below threshold", query: "?ratio=0.05", wantStatus: http.StatusOK, wantRevealed: false},
		{name: "zero", query: "?ratio=0", wantStatus: http.StatusOK, wantRevealed: false},
		{name: "malformed", query: "?ratio=lots", wantStatus: http.StatusBadRequest, wantRevealed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, f := setupRouter(t)

			rec := serve(router, f, http.MethodPost, "/reveal/results"+tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRevealed, f.Snapshot().Section("results").Reveal.Revealed)
		})
	}
}

func TestReveal_SubThresholdThenCrossing(t *testing.T) {
	router, f := setupRouter(t)

	// A sliver of the section scrolls into view first
	rec := serve(router, f, http.MethodPost, "/reveal/demo?ratio=0.01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.Snapshot().Section("demo").Reveal.Revealed)

	rec = serve(router, f, http.MethodPost, "/reveal/demo?ratio=0.08")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.Snapshot().Section("demo").Reveal.Revealed)

	rec = serve(router, f, http.MethodPost, "/reveal/demo?ratio=0.12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.Snapshot().Section("demo").Reveal.Revealed)
}

func TestReveal_UnknownSection(t *testing.T) {
	router, f := setupRouter(t)

	rec := serve(router, f, http.MethodPost, "/reveal/pricing?ratio=1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.Snapshot().Section("pricing").Reveal.Revealed)
}

// =============================================================================
// Nav
// =============================================================================

func TestNav(t *testing.T) {
	router, f := setupRouter(t)

	rec := serve(router, f, http.MethodGet, "/nav/results")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `document.getElementById("results")?.scrollIntoView({behavior: 'smooth'})`)
}

func TestNav_UnknownAnchor(t *testing.T) {
	router, f := setupRouter(t)

	rec := serve(router, f, http.MethodGet, "/nav/pricing")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "scrollIntoView")
}

func TestParseRatio(t *testing.T) {
	_, err := parseRatio("")
	assert.Error(t, err)

	r, err := parseRatio("0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, r)

	_, err = parseRatio("x")
	assert.Error(t, err)
}
