// Package reveal drives the one-time entrance animation of page sections.
//
// A section is observed through a Viewport. The first time it becomes
// visible it is marked revealed and its children appear one after another,
// the first immediately and each following one a fixed stagger later.
// Reveals never run backwards.
package reveal

import (
	"log/slog"
	"sort"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

const (
	// DefaultThreshold is the visible ratio that triggers a reveal.
	DefaultThreshold = 0.1
	// DefaultStagger separates consecutive children.
	DefaultStagger = 100 * time.Millisecond
)

// State is the reveal progress of one section.
type State struct {
	Revealed        bool
	VisibleChildren int
	Children        int
}

// ChildVisible reports whether the i-th child (1-based) is shown.
func (s State) ChildVisible(i int) bool {
	return s.Revealed && i >= 1 && i <= s.VisibleChildren
}

// Done reports whether every child is shown.
func (s State) Done() bool {
	return s.Revealed && s.VisibleChildren == s.Children
}

type entry struct {
	state      State
	stagger    time.Duration
	cancel     func()
	generation uint64
	pending    eventloop.Timer
}

// Controller owns the reveal state of every section of one page.
// It is not safe for concurrent use; run it on an eventloop.Loop.
type Controller struct {
	viewport  Viewport
	sched     eventloop.Scheduler
	threshold float64
	stagger   time.Duration
	logger    *slog.Logger

	sections  map[string]*entry
	closed    bool
	listeners []func(id string, s State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold sets the visible ratio that triggers a reveal.
func WithThreshold(r float64) Option {
	return func(c *Controller) { c.threshold = r }
}

// WithStagger sets the default delay between children. Sections may
// override it.
func WithStagger(d time.Duration) Option {
	return func(c *Controller) { c.stagger = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller bound to a viewport.
func NewController(vp Viewport, sched eventloop.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		viewport:  vp,
		sched:     sched,
		threshold: DefaultThreshold,
		stagger:   DefaultStagger,
		logger:    slog.New(slog.DiscardHandler),
		sections:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threshold is the visible ratio a section needs to reveal. Hosts pass it
// to their intersection observer.
func (c *Controller) Threshold() float64 { return c.threshold }

// OnChange registers a listener called after every reveal transition.
func (c *Controller) OnChange(fn func(id string, s State)) {
	c.listeners = append(c.listeners, fn)
}

// Observe starts watching a section. Observing the same ID twice is a no-op.
func (c *Controller) Observe(sec core.Section) {
	if c.closed {
		return
	}
	if _, ok := c.sections[sec.ID]; ok {
		return
	}
	e := &entry{
		state:   State{Children: max(sec.Children, 0)},
		stagger: c.stagger,
	}
	if sec.StaggerMillis > 0 {
		e.stagger = time.Duration(sec.StaggerMillis) * time.Millisecond
	}
	c.sections[sec.ID] = e

	id := sec.ID
	e.cancel = c.viewport.Observe(id, c.threshold, func() { c.enter(id) })
}

// State returns the reveal state of a section.
func (c *Controller) State(id string) (State, bool) {
	e, ok := c.sections[id]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// States returns a copy of every section's state.
func (c *Controller) States() map[string]State {
	out := make(map[string]State, len(c.sections))
	for id, e := range c.sections {
		out[id] = e.state
	}
	return out
}

// IDs returns the observed section IDs in sorted order.
func (c *Controller) IDs() []string {
	ids := make([]string, 0, len(c.sections))
	for id := range c.sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close drops every subscription and pending stagger timer.
func (c *Controller) Close() {
	c.closed = true
	for _, e := range c.sections {
		e.generation++
		if e.pending != nil {
			e.pending.Stop()
			e.pending = nil
		}
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
	}
	c.listeners = nil
}

func (c *Controller) enter(id string) {
	e, ok := c.sections[id]
	if !ok || c.closed || e.state.Revealed {
		return
	}
	e.state.Revealed = true
	c.logger.Debug("revealing section", "section", id, "children", e.state.Children)
	if e.state.Children == 0 {
		c.emit(id, e.state)
		return
	}
	c.showNext(id, e, e.generation)
}

func (c *Controller) showNext(id string, e *entry, gen uint64) {
	if gen != e.generation || c.closed {
		return
	}
	e.pending = nil
	e.state.VisibleChildren++
	c.emit(id, e.state)
	if e.state.VisibleChildren < e.state.Children {
		e.pending = c.sched.AfterFunc(e.stagger, func() { c.showNext(id, e, gen) })
	}
}

func (c *Controller) emit(id string, s State) {
	for _, fn := range c.listeners {
		fn(id, s)
	}
}
