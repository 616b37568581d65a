package architecture

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/ui/features"
)

func TestSelectStep(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantActive string
	}{
		{name: "switches tab", id: "execution", wantStatus: http.StatusOK, wantActive: "execution"},
		{name: "unknown tab keeps selection", id: "training", wantStatus: http.StatusOK, wantActive: "preprocessing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := features.SetupTestFixture(t, features.FastConfig())
			router := chi.NewRouter()
			require.NoError(t, SetupRoutes(router, f.Registry))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, f.Request(http.MethodPost, "/architecture/select/"+tt.id))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActive, f.Snapshot().Architecture.Active.ID)
		})
	}
}

func TestSelectStep_RendersDetails(t *testing.T) {
	f := features.SetupTestFixture(t, features.FastConfig())
	router := chi.NewRouter()
	require.NoError(t, SetupRoutes(router, f.Registry))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, f.Request(http.MethodPost, "/architecture/select/extraction"))

	assert.Contains(t, rec.Body.String(), "Few-shot learning for output consistency")
}
