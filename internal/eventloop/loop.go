// Package eventloop provides the single-threaded scheduler that owns all
// interactive state of one UI instance.
//
// Every action and every timer callback runs on the loop goroutine, so the
// state machines built on top of it never need locks. Timers are
// cancellable, but a callback may already be queued when Stop is called;
// consumers guard their transitions with a generation token.
package eventloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrClosed is returned when work is posted to a closed loop.
var ErrClosed = errors.New("eventloop: closed")

// Timer is a cancellable delayed callback.
type Timer interface {
	// Stop prevents the callback from being scheduled. It returns false if
	// the timer already fired or was stopped.
	Stop() bool
}

// Scheduler arms delayed callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

const queueSize = 64

// Loop serializes functions onto one goroutine.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// New starts a loop. The caller must Close it to release the goroutine.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	l := &Loop{
		tasks:   make(chan func(), queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  logger,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case <-l.done:
			return
		case f := <-l.tasks:
			l.exec(f)
		}
	}
}

func (l *Loop) exec(f func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("eventloop task panicked", "panic", r)
		}
	}()
	f()
}

// Post queues f without waiting for it to run.
func (l *Loop) Post(f func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- f:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs f on the loop and waits for it to return.
// It must not be called from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		f()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	}
}

// AfterFunc arms a timer whose callback is posted back onto the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return &loopTimer{t: time.AfterFunc(d, func() {
		if err := l.Post(f); err != nil {
			l.logger.Debug("dropping timer callback", "error", err)
		}
	})}
}

// Close stops the loop. Queued work that has not started is discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
	<-l.stopped
}

// Done is closed once Close has been called.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

type loopTimer struct {
	t *time.Timer
}

func (t *loopTimer) Stop() bool {
	return t.t.Stop()
}
