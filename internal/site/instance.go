package site

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/ui/notifier"
)

// Instance is one visitor's page running on its own event loop.
type Instance struct {
	id       string
	loop     *eventloop.Loop
	page     *Page
	notifier *notifier.Notifier
	now      func() time.Time
	lastSeen atomic.Int64
}

func newInstance(id string, cat *catalog.Catalog, cfg Config, logger *slog.Logger, now func() time.Time) (*Instance, error) {
	logger = logger.With("visitor", id)
	inst := &Instance{
		id:       id,
		loop:     eventloop.New(logger),
		notifier: notifier.New(),
		now:      now,
	}
	inst.touch()

	var err error
	doErr := inst.loop.Do(context.Background(), func() {
		inst.page, err = NewPage(cat, inst.loop, cfg, logger)
		if err == nil {
			inst.page.OnChange(inst.notifier.Broadcast)
		}
	})
	if doErr != nil {
		err = doErr
	}
	if err != nil {
		inst.loop.Close()
		return nil, err
	}
	return inst, nil
}

// ID returns the visitor ID.
func (i *Instance) ID() string { return i.id }

// Do runs fn against the page on the instance loop and waits for it.
func (i *Instance) Do(ctx context.Context, fn func(p *Page)) error {
	i.touch()
	return i.loop.Do(ctx, func() { fn(i.page) })
}

// Snapshot captures the page state.
func (i *Instance) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := i.loop.Do(ctx, func() { s = i.page.Snapshot() })
	return s, err
}

// Subscribe returns a channel pinged after every state change. The caller
// must Unsubscribe.
func (i *Instance) Subscribe() chan struct{} {
	i.touch()
	return i.notifier.Subscribe()
}

// Unsubscribe releases a channel from Subscribe.
func (i *Instance) Unsubscribe(ch chan struct{}) {
	i.touch()
	i.notifier.Unsubscribe(ch)
}

// Done is closed when the instance has been torn down.
func (i *Instance) Done() <-chan struct{} {
	return i.loop.Done()
}

func (i *Instance) touch() {
	i.lastSeen.Store(i.now().UnixNano())
}

func (i *Instance) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, i.lastSeen.Load()))
}

func (i *Instance) close() {
	_ = i.loop.Do(context.Background(), i.page.Close)
	i.loop.Close()
}
