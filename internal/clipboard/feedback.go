// Package clipboard tracks the transient "copied" acknowledgement shown after
// text is handed to the host clipboard.
package clipboard

import (
	"log/slog"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
)

// DefaultRevert is how long the copied state lasts.
const DefaultRevert = 2 * time.Second

// Writer is the host clipboard primitive. Writes are best effort.
type Writer interface {
	WriteText(text string)
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string)

// WriteText calls f(text).
func (f WriterFunc) WriteText(text string) { f(text) }

// Status is the feedback state.
type Status int

// Feedback states.
const (
	Idle Status = iota
	Copied
)

func (s Status) String() string {
	if s == Copied {
		return "copied"
	}
	return "idle"
}

// Feedback holds the copy acknowledgement for one group of copy buttons.
// Buttons in a group share the state; Key tells which one was pressed last.
// It is not safe for concurrent use; run it on an eventloop.Loop.
type Feedback struct {
	sched  eventloop.Scheduler
	writer Writer
	delay  time.Duration
	logger *slog.Logger

	status     Status
	key        string
	generation uint64
	pending    eventloop.Timer
	listeners  []func(Status, string)
}

// Option configures a Feedback.
type Option func(*Feedback)

// WithDelay overrides the revert delay.
func WithDelay(d time.Duration) Option {
	return func(f *Feedback) { f.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Feedback) { f.logger = l }
}

// New creates an idle feedback.
func New(sched eventloop.Scheduler, w Writer, opts ...Option) *Feedback {
	f := &Feedback{
		sched:  sched,
		writer: w,
		delay:  DefaultRevert,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// OnChange registers a listener for status changes.
func (f *Feedback) OnChange(fn func(Status, string)) {
	f.listeners = append(f.listeners, fn)
}

// Status returns the current state.
func (f *Feedback) Status() Status { return f.status }

// Key returns the key of the most recent copy.
func (f *Feedback) Key() string { return f.key }

// CopiedKey reports whether key is the one currently acknowledged.
func (f *Feedback) CopiedKey(key string) bool {
	return f.status == Copied && f.key == key
}

// Copy writes text to the clipboard and acknowledges it under key. A copy
// while already acknowledged restarts the full revert delay.
func (f *Feedback) Copy(key, text string) {
	if f.writer != nil {
		f.writer.WriteText(text)
	}
	f.invalidate()
	gen := f.generation
	f.pending = f.sched.AfterFunc(f.delay, func() { f.revert(gen) })

	f.status = Copied
	f.key = key
	f.logger.Debug("copied to clipboard", "key", key, "bytes", len(text))
	f.emit()
}

// Close cancels any pending revert.
func (f *Feedback) Close() {
	f.invalidate()
	f.listeners = nil
}

func (f *Feedback) invalidate() {
	f.generation++
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
}

func (f *Feedback) revert(gen uint64) {
	if gen != f.generation {
		return
	}
	f.pending = nil
	f.status = Idle
	f.emit()
}

func (f *Feedback) emit() {
	for _, fn := range f.listeners {
		fn(f.status, f.key)
	}
}
