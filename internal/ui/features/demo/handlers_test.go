package demo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/ui/features"
)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t, features.FastConfig())
	return NewHandlers(fixture.Registry), fixture
}

// =============================================================================
// Run / Reset
// =============================================================================

func TestRun_StartsAndCompletes(t *testing.T) {
	h, f := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Run(rec, f.Request(http.MethodPost, "/demo/run"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: datastar-patch-elements")
	assert.Contains(t, body, "Running...")

	require.Eventually(t, func() bool {
		return f.Snapshot().Demo.Completed
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "France", f.Snapshot().Demo.Answer)
}

func TestRun_IgnoredWhileRunning(t *testing.T) {
	fixture := features.SetupTestFixture(t, features.SlowConfig())
	h := NewHandlers(fixture.Registry)

	h.Run(httptest.NewRecorder(), fixture.Request(http.MethodPost, "/demo/run"))
	before := fixture.Snapshot().Version

	rec := httptest.NewRecorder()
	h.Run(rec, fixture.Request(http.MethodPost, "/demo/run"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before, fixture.Snapshot().Version)
}

func TestReset(t *testing.T) {
	fixture := features.SetupTestFixture(t, features.SlowConfig())
	h := NewHandlers(fixture.Registry)

	h.Run(httptest.NewRecorder(), fixture.Request(http.MethodPost, "/demo/run"))
	require.True(t, fixture.Snapshot().Demo.State.Running)

	rec := httptest.NewRecorder()
	h.Reset(rec, fixture.Request(http.MethodPost, "/demo/reset"))

	assert.Equal(t, http.StatusOK, rec.Code)
	s := fixture.Snapshot()
	assert.False(t, s.Demo.State.Running)
	assert.Equal(t, 0, s.Demo.State.StepIndex)
}

// =============================================================================
// Select
// =============================================================================

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantID     string
	}{
		{name: "known example", id: "racing", wantStatus: http.StatusOK, wantID: "racing"},
		{name: "unknown example keeps selection", id: "chess", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, f := setupTestHandlers(t)
			wantID := tt.wantID
			if wantID == "" {
				wantID = f.Snapshot().Demo.Example.ID
			}

			req := features.RequestWithPathParam(f.Request(http.MethodPost, "/demo/select/"+tt.id), "id", tt.id)
			rec := httptest.NewRecorder()
			h.Select(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, wantID, f.Snapshot().Demo.Example.ID)
		})
	}
}

func TestSelect_ResetsRunningDemo(t *testing.T) {
	fixture := features.SetupTestFixture(t, features.SlowConfig())
	h := NewHandlers(fixture.Registry)

	h.Run(httptest.NewRecorder(), fixture.Request(http.MethodPost, "/demo/run"))

	req := features.RequestWithPathParam(fixture.Request(http.MethodPost, "/demo/select/racing"), "id", "racing")
	h.Select(httptest.NewRecorder(), req)

	s := fixture.Snapshot()
	assert.False(t, s.Demo.State.Running)
	assert.Equal(t, 0, s.Demo.State.StepIndex)
}
