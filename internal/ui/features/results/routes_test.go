package results

import (
	"net/http"
	"net/http/httptest"
	"testing"

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

func post(router chi.Router, f *features.TestFixture, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, f.Request(http.MethodPost, target))
	return rec
}

func TestSelectDataset_KeepsModel(t *testing.T) {
	router, f := setupRouter(t)

	require.Equal(t, http.StatusOK, post(router, f, "/results/model/gemini").Code)
	rec := post(router, f, "/results/dataset/finqa")

	assert.Equal(t, http.StatusOK, rec.Code)
	s := f.Snapshot()
	assert.Equal(t, "finqa", s.Results.Dataset.ID)
	assert.Equal(t, "gemini", s.Results.Model.ID)
}

func TestSelectDataset_FinQAHasNoReAcTable(t *testing.T) {
	router, f := setupRouter(t)

	post(router, f, "/results/dataset/finqa")

	for _, b := range f.Snapshot().Results.Bars {
		assert.NotEqual(t, "ReAcTable", b.Method)
	}
}

func TestSelect_Unknown(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "dataset", target: "/results/dataset/spider"},
		{name: "model", target: "/results/model/llama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, f := setupRouter(t)
			before := f.Snapshot().Results

			rec := post(router, f, tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `id="main"`, "answers with the unchanged page")
			after := f.Snapshot().Results
			assert.Equal(t, before.Dataset.ID, after.Dataset.ID)
			assert.Equal(t, before.Model.ID, after.Model.ID)
		})
	}
}

func TestSelectModel_BarsRankedBest(t *testing.T) {
	router, f := setupRouter(t)

	post(router, f, "/results/model/deepseek")

	bars := f.Snapshot().Results.Bars
	require.NotEmpty(t, bars)
	assert.InDelta(t, 100.0, bars[0].Width, 0.001)
	for i := 1; i < len(bars); i++ {
		assert.GreaterOrEqual(t, bars[i-1].Accuracy, bars[i].Accuracy)
	}
}
