// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/testutil"
	"github.com/weaver-tableqa/weaversite/internal/ui/visitor"
)

// TestVisitor is the visitor ID fixture requests are made as.
const TestVisitor = "4b1c7e4e-8a51-4f8e-9a63-0d2f0c1f6a10"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Catalog  *catalog.Catalog
	Registry *site.Registry

	t *testing.T
}

// FastConfig shortens every delay so timed behavior completes quickly.
func FastConfig() site.Config {
	cfg := site.DefaultConfig()
	cfg.Timing = demo.Timing{StepDelay: 5 * time.Millisecond, TrailingDelay: 5 * time.Millisecond}
	cfg.CopyRevert = 20 * time.Millisecond
	cfg.RevealStagger = time.Millisecond
	return cfg
}

// SlowConfig stretches every delay so state stays put for a test's duration.
func SlowConfig() site.Config {
	cfg := site.DefaultConfig()
	cfg.Timing = demo.Timing{StepDelay: time.Hour, TrailingDelay: time.Hour}
	cfg.CopyRevert = time.Hour
	return cfg
}

// SetupTestFixture creates a registry over the embedded catalog.
func SetupTestFixture(t *testing.T, cfg site.Config) *TestFixture {
	t.Helper()

	cat, err := catalog.Default()
	require.NoError(t, err)

	reg := site.NewRegistry(cat, cfg, time.Minute, testutil.NewTestLogger(t))
	t.Cleanup(reg.Close)

	return &TestFixture{Catalog: cat, Registry: reg, t: t}
}

// Request builds a request issued by TestVisitor.
func (f *TestFixture) Request(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(""))
	return r.WithContext(visitor.WithID(r.Context(), TestVisitor))
}

// Snapshot returns TestVisitor's current page state.
func (f *TestFixture) Snapshot() site.Snapshot {
	f.t.Helper()
	inst, err := f.Registry.Get(TestVisitor)
	require.NoError(f.t, err)
	s, err := inst.Snapshot(context.Background())
	require.NoError(f.t, err)
	return s
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout released at
// test cleanup.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}
