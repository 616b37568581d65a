package site

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupRegistry(t *testing.T, cfg Config) (*Registry, *fakeClock) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	clock := &fakeClock{now: time.Now()}
	r := NewRegistry(cat, cfg, time.Minute, testutil.NewTestLogger(t))
	r.now = clock.Now
	t.Cleanup(r.Close)
	return r, clock
}

func TestRegistry_GetReusesInstance(t *testing.T) {
	r, _ := setupRegistry(t, DefaultConfig())

	a, err := r.Get("visitor-a")
	require.NoError(t, err)
	again, err := r.Get("visitor-a")
	require.NoError(t, err)
	b, err := r.Get("visitor-b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, "visitor-a", a.ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_InstancesAreIsolated(t *testing.T) {
	r, _ := setupRegistry(t, DefaultConfig())
	ctx := context.Background()

	a, err := r.Get("a")
	require.NoError(t, err)
	b, err := r.Get("b")
	require.NoError(t, err)

	require.NoError(t, a.Do(ctx, func(p *Page) { require.NoError(t, p.SelectDataset("tabfact")) }))

	sa, err := a.Snapshot(ctx)
	require.NoError(t, err)
	sb, err := b.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tabfact", sa.Results.Dataset.ID)
	assert.Equal(t, "wikitq", sb.Results.Dataset.ID)
}

func TestInstance_BroadcastsOnChange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timing = demo.Timing{StepDelay: 5 * time.Millisecond, TrailingDelay: 5 * time.Millisecond}
	r, _ := setupRegistry(t, cfg)
	ctx := context.Background()

	inst, err := r.Get("v")
	require.NoError(t, err)
	updates := inst.Subscribe()
	defer inst.Unsubscribe(updates)

	var started bool
	require.NoError(t, inst.Do(ctx, func(p *Page) { started = p.RunDemo() }))
	require.True(t, started)

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("no update after starting the demo")
	}

	require.Eventually(t, func() bool {
		s, err := inst.Snapshot(ctx)
		return err == nil && s.Demo.Completed
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRegistry_SweepEvictsIdle(t *testing.T) {
	r, clock := setupRegistry(t, DefaultConfig())

	idle, err := r.Get("idle")
	require.NoError(t, err)
	watched, err := r.Get("watched")
	require.NoError(t, err)
	updates := watched.Subscribe()
	defer watched.Unsubscribe(updates)

	clock.Add(30 * time.Second)
	assert.Equal(t, 0, r.Sweep())

	clock.Add(31 * time.Second)
	assert.Equal(t, 1, r.Sweep(), "streams keep an instance alive")
	assert.Equal(t, 1, r.Len())

	select {
	case <-idle.Done():
	default:
		t.Fatal("evicted instance was not torn down")
	}
	assert.ErrorIs(t, idle.Do(context.Background(), func(*Page) {}), eventloop.ErrClosed)

	fresh, err := r.Get("idle")
	require.NoError(t, err)
	assert.NotSame(t, idle, fresh)
}

func TestRegistry_Close(t *testing.T) {
	r, _ := setupRegistry(t, DefaultConfig())
	inst, err := r.Get("v")
	require.NoError(t, err)

	r.Close()
	assert.Equal(t, 0, r.Len())
	_, err = r.Get("v")
	assert.ErrorIs(t, err, ErrRegistryClosed)

	select {
	case <-inst.Done():
	case <-time.After(time.Second):
		t.Fatal("instance not closed")
	}
}

func TestRegistry_RunClosesOnCancel(t *testing.T) {
	r, _ := setupRegistry(t, DefaultConfig())
	_, err := r.Get("v")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReloadRebuildsVisitors(t *testing.T) {
	r, _ := setupRegistry(t, DefaultConfig())
	ctx := context.Background()

	old, err := r.Get("v")
	require.NoError(t, err)
	require.NoError(t, old.Do(ctx, func(p *Page) { require.NoError(t, p.SelectDataset("finqa")) }))

	next, err := catalog.Default()
	require.NoError(t, err)
	next.Site.Title = "Weaver (draft)"
	r.Reload(next)

	select {
	case <-old.Done():
	case <-time.After(time.Second):
		t.Fatal("old instance not closed")
	}
	assert.Same(t, next, r.Catalog())

	fresh, err := r.Get("v")
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	s, err := fresh.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Weaver (draft)", s.Site.Title)
	assert.Equal(t, "wikitq", s.Results.Dataset.ID)
}
