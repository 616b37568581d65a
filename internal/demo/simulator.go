// Package demo replays a pre-authored pipeline script as a timed sequence of
// step-advance transitions.
//
// A run is strictly sequential: each transition arms the timer for the next
// one, so step i+1 can never be observed before step i. Every armed timer
// captures the generation that was current when the run started; Reset,
// Load and Close bump the generation, and a callback whose generation is
// stale returns without touching state.
package demo

import (
	"log/slog"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// Timing holds the replay delays.
type Timing struct {
	// StepDelay elapses before each step completes
	StepDelay time.Duration
	// TrailingDelay elapses between the last step and the end of the run
	TrailingDelay time.Duration
}

// DefaultTiming returns the delays used on the site.
func DefaultTiming() Timing {
	return Timing{
		StepDelay:     1500 * time.Millisecond,
		TrailingDelay: 1000 * time.Millisecond,
	}
}

// State is the observable simulation state.
type State struct {
	// StepIndex is 0 before the first step completes, i once step i
	// (1-based) has completed and its result is visible.
	StepIndex int
	Running   bool
}

// Completed reports whether a run over steps steps has finished and the
// final answer should be shown.
func (s State) Completed(steps int) bool {
	return steps > 0 && s.StepIndex == steps && !s.Running
}

// StepDone reports whether the step at zero-based position i has a result.
func (s State) StepDone(i int) bool {
	return s.StepIndex > i
}

// StepInFlight reports whether the step at zero-based position i is the one
// currently being replayed.
func (s State) StepInFlight(i int) bool {
	return s.Running && s.StepIndex == i
}

// EventKind identifies a simulator transition.
type EventKind int

// Event kinds.
const (
	EventStarted EventKind = iota
	EventStepAdvanced
	EventCompleted
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStepAdvanced:
		return "step_advanced"
	case EventCompleted:
		return "completed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after a transition has been applied.
type Event struct {
	Kind  EventKind
	State State
}

// Simulator drives one demo run at a time. It is not safe for concurrent
// use; run it on an eventloop.Loop.
type Simulator struct {
	sched  eventloop.Scheduler
	timing Timing
	logger *slog.Logger

	example    *core.DemoExample
	state      State
	generation uint64
	pending    eventloop.Timer
	closed     bool
	listeners  []func(Event)
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTiming overrides the replay delays.
func WithTiming(t Timing) Option {
	return func(s *Simulator) { s.timing = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// New creates an idle simulator with no example loaded.
func New(sched eventloop.Scheduler, opts ...Option) *Simulator {
	s := &Simulator{
		sched:  sched,
		timing: DefaultTiming(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEvent registers a listener for applied transitions.
func (s *Simulator) OnEvent(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Load makes ex the active example. Any run in progress is reset first;
// the new example is never started implicitly.
func (s *Simulator) Load(ex *core.DemoExample) {
	s.Reset()
	s.example = ex
}

// Example returns the active example, or nil.
func (s *Simulator) Example() *core.DemoExample {
	return s.example
}

// State returns the current simulation state.
func (s *Simulator) State() State {
	return s.state
}

// Completed reports whether the active example's run has finished.
func (s *Simulator) Completed() bool {
	return s.state.Completed(s.example.StepCount())
}

// FinalAnswer returns the answer and reasoning once the run has completed.
func (s *Simulator) FinalAnswer() (answer, reasoning string, ok bool) {
	if !s.Completed() {
		return "", "", false
	}
	return s.example.Answer, s.example.Reasoning, true
}

// Start begins a run of the active example. It returns false, and does
// nothing, when a run is already in progress, no example is loaded, the
// example has no steps, or the simulator is closed.
func (s *Simulator) Start() bool {
	if s.closed || s.state.Running || s.example.StepCount() == 0 {
		return false
	}

	s.generation++
	s.state = State{Running: true}
	s.logger.Debug("demo run started", "example", s.example.ID, "generation", s.generation)
	s.emit(EventStarted)
	s.arm(s.generation, 1)
	return true
}

// Reset stops any run and returns to the initial state. Transitions armed
// before the reset are invalidated.
func (s *Simulator) Reset() {
	s.invalidate()
	s.state = State{}
	s.emit(EventReset)
}

// Close tears the simulator down. Pending transitions are invalidated and
// later calls to Start are ignored.
func (s *Simulator) Close() {
	s.invalidate()
	s.state = State{}
	s.closed = true
	s.listeners = nil
}

func (s *Simulator) invalidate() {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// arm schedules the transition to step next, or the end of the run when
// next is past the last step.
func (s *Simulator) arm(gen uint64, next int) {
	if next <= s.example.StepCount() {
		s.pending = s.sched.AfterFunc(s.timing.StepDelay, func() { s.advance(gen, next) })
		return
	}
	s.pending = s.sched.AfterFunc(s.timing.TrailingDelay, func() { s.finish(gen) })
}

func (s *Simulator) advance(gen uint64, index int) {
	if !s.current(gen) {
		return
	}
	s.state.StepIndex = index
	s.emit(EventStepAdvanced)
	s.arm(gen, index+1)
}

func (s *Simulator) finish(gen uint64) {
	if !s.current(gen) {
		return
	}
	s.pending = nil
	s.state.Running = false
	s.logger.Debug("demo run completed", "example", s.example.ID, "generation", gen)
	s.emit(EventCompleted)
}

func (s *Simulator) current(gen uint64) bool {
	if gen != s.generation {
		s.logger.Debug("discarding stale demo transition", "generation", gen, "current", s.generation)
		return false
	}
	return true
}

func (s *Simulator) emit(kind EventKind) {
	ev := Event{Kind: kind, State: s.state}
	for _, fn := range s.listeners {
		fn(ev)
	}
}
