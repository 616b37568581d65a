package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/testutil"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func racingExample() *core.DemoExample {
	return &core.DemoExample{
		ID:       "racing",
		Title:    "Racing Competition Analysis",
		Question: "Which country had the most competitors?",
		Steps: []core.ExecutionStep{
			{Kind: core.StepStructured, Title: "Extract unique drivers", Result: "Created table with 4 unique drivers"},
			{Kind: core.StepSemantic, Title: "Infer countries from driver names", Result: "Added country column"},
			{Kind: core.StepStructured, Title: "Count competitors by country", Result: "France: 2, Belgium: 1, Brazil: 1"},
		},
		Answer:    "France",
		Reasoning: "France had the most competitors with 2 drivers (Alain Prost and Eric Bernard)",
	}
}

type recorded struct {
	at    time.Duration
	event Event
}

func setupSimulator(t *testing.T) (*Simulator, *eventloop.Fake, *[]recorded) {
	t.Helper()
	clock := eventloop.NewFake()
	sim := New(clock, WithLogger(testutil.NewTestLogger(t)))
	var events []recorded
	sim.OnEvent(func(ev Event) {
		events = append(events, recorded{at: clock.Now(), event: ev})
	})
	return sim, clock, &events
}

func kinds(events []recorded, kind EventKind) []recorded {
	var out []recorded
	for _, r := range events {
		if r.event.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// Run sequencing
// =============================================================================

func TestSimulator_RacingScenario(t *testing.T) {
	sim, clock, _ := setupSimulator(t)
	sim.Load(racingExample())

	require.True(t, sim.Start())
	assert.Equal(t, State{StepIndex: 0, Running: true}, sim.State())

	checkpoints := []struct {
		at        time.Duration
		wantIndex int
		running   bool
	}{
		{at: 1499 * time.Millisecond, wantIndex: 0, running: true},
		{at: 1500 * time.Millisecond, wantIndex: 1, running: true},
		{at: 3000 * time.Millisecond, wantIndex: 2, running: true},
		{at: 4500 * time.Millisecond, wantIndex: 3, running: true},
		{at: 5499 * time.Millisecond, wantIndex: 3, running: true},
		{at: 5500 * time.Millisecond, wantIndex: 3, running: false},
	}

	for _, cp := range checkpoints {
		clock.AdvanceTo(cp.at)
		assert.Equal(t, State{StepIndex: cp.wantIndex, Running: cp.running}, sim.State(), "at %s", cp.at)
	}

	assert.True(t, sim.Completed())
	answer, reasoning, ok := sim.FinalAnswer()
	require.True(t, ok)
	assert.Equal(t, "France", answer)
	assert.Contains(t, reasoning, "Alain Prost")
	assert.Equal(t, 0, clock.Pending(), "no timers left after completion")
}

func TestSimulator_EmitsOrderedEvents(t *testing.T) {
	sim, clock, events := setupSimulator(t)
	sim.Load(racingExample())
	*events = nil

	sim.Start()
	clock.Advance(time.Minute)

	advances := kinds(*events, EventStepAdvanced)
	require.Len(t, advances, 3)
	for i, r := range advances {
		assert.Equal(t, i+1, r.event.State.StepIndex)
		assert.Equal(t, time.Duration(i+1)*1500*time.Millisecond, r.at)
	}

	completed := kinds(*events, EventCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, 5500*time.Millisecond, completed[0].at)
	assert.False(t, completed[0].event.State.Running)

	assert.Equal(t, EventStarted, (*events)[0].event.Kind)
}

func TestSimulator_CustomTiming(t *testing.T) {
	clock := eventloop.NewFake()
	sim := New(clock, WithTiming(Timing{StepDelay: 100 * time.Millisecond, TrailingDelay: 50 * time.Millisecond}))
	sim.Load(racingExample())
	sim.Start()

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, State{StepIndex: 3, Running: true}, sim.State())
	clock.Advance(50 * time.Millisecond)
	assert.True(t, sim.Completed())
}

func TestSimulator_OnlyOneTimerPending(t *testing.T) {
	sim, clock, _ := setupSimulator(t)
	sim.Load(racingExample())
	sim.Start()

	for i := 0; i < 4; i++ {
		assert.Equal(t, 1, clock.Pending(), "transition %d", i)
		clock.Advance(1500 * time.Millisecond)
	}
}

// =============================================================================
// No-op starts
// =============================================================================

func TestSimulator_StartNoOps(t *testing.T) {
	tests := []struct {
		name    string
		example *core.DemoExample
	}{
		{name: "no example loaded", example: nil},
		{name: "zero steps", example: &core.DemoExample{ID: "empty", Answer: "n/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, clock, events := setupSimulator(t)
			if tt.example != nil {
				sim.Load(tt.example)
			}
			*events = nil

			assert.False(t, sim.Start())
			assert.Equal(t, State{}, sim.State())
			assert.Empty(t, *events)
			assert.Equal(t, 0, clock.Pending())
			assert.False(t, sim.Completed())
		})
	}
}

func TestSimulator_DoubleStartIsIgnored(t *testing.T) {
	sim, clock, events := setupSimulator(t)
	sim.Load(racingExample())

	require.True(t, sim.Start())
	clock.Advance(2 * time.Second)
	assert.False(t, sim.Start(), "start while running is a no-op")
	assert.Equal(t, State{StepIndex: 1, Running: true}, sim.State())

	clock.Advance(time.Minute)
	assert.Len(t, kinds(*events, EventStarted), 1)
	assert.Len(t, kinds(*events, EventStepAdvanced), 3)
}

func TestSimulator_RestartAfterCompletion(t *testing.T) {
	sim, clock, _ := setupSimulator(t)
	sim.Load(racingExample())

	sim.Start()
	clock.Advance(time.Minute)
	require.True(t, sim.Completed())

	require.True(t, sim.Start())
	assert.Equal(t, State{Running: true}, sim.State())
	_, _, ok := sim.FinalAnswer()
	assert.False(t, ok, "answer hidden again while replaying")
}

// =============================================================================
// Reset and invalidation
// =============================================================================

func TestSimulator_ResetMidRunSuppressesStaleTransitions(t *testing.T) {
	for _, resetAt := range []time.Duration{0, 700 * time.Millisecond, 1500 * time.Millisecond, 4 * time.Second, 5 * time.Second} {
		t.Run(resetAt.String(), func(t *testing.T) {
			sim, clock, events := setupSimulator(t)
			sim.Load(racingExample())
			sim.Start()

			clock.Advance(resetAt)
			*events = nil
			sim.Reset()

			assert.Equal(t, State{}, sim.State())
			clock.Advance(time.Minute)

			assert.Empty(t, kinds(*events, EventStepAdvanced))
			assert.Empty(t, kinds(*events, EventCompleted))
			assert.Equal(t, State{}, sim.State())
		})
	}
}

// Stop may lose the race with a callback that is already queued on the
// loop; the generation check must still reject it.
func TestSimulator_StaleCallbackAfterStopIsIgnored(t *testing.T) {
	clock := eventloop.NewFake()
	leaky := &leakyScheduler{inner: clock}
	sim := New(leaky)
	sim.Load(racingExample())
	sim.Start()

	sim.Reset()
	leaky.fireAll()

	assert.Equal(t, State{}, sim.State())
}

func TestSimulator_ResetThenStartIgnoresOldRun(t *testing.T) {
	sim, clock, _ := setupSimulator(t)
	sim.Load(racingExample())

	sim.Start()
	clock.Advance(1000 * time.Millisecond)
	sim.Reset()
	sim.Start()

	// The first run would have advanced at 1.5s; the new one advances at 2.5s.
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, State{StepIndex: 0, Running: true}, sim.State())
	clock.Advance(1000 * time.Millisecond)
	assert.Equal(t, State{StepIndex: 1, Running: true}, sim.State())
}

func TestSimulator_LoadWhileRunningResets(t *testing.T) {
	sim, clock, events := setupSimulator(t)
	sim.Load(racingExample())
	sim.Start()
	clock.Advance(3 * time.Second)

	other := racingExample()
	other.ID = "other"
	*events = nil
	sim.Load(other)

	assert.Equal(t, State{}, sim.State())
	assert.Equal(t, "other", sim.Example().ID)
	require.Len(t, *events, 1)
	assert.Equal(t, EventReset, (*events)[0].event.Kind)

	clock.Advance(time.Minute)
	assert.Equal(t, State{}, sim.State(), "new example is not auto-started")
	assert.Len(t, *events, 1)
}

func TestSimulator_CloseInvalidatesAndDisables(t *testing.T) {
	sim, clock, events := setupSimulator(t)
	sim.Load(racingExample())
	sim.Start()
	clock.Advance(time.Second)

	*events = nil
	sim.Close()
	clock.Advance(time.Minute)

	assert.Empty(t, *events)
	assert.Equal(t, State{}, sim.State())
	assert.False(t, sim.Start())
}

func TestState_Helpers(t *testing.T) {
	s := State{StepIndex: 2, Running: true}
	assert.True(t, s.StepDone(0))
	assert.True(t, s.StepDone(1))
	assert.False(t, s.StepDone(2))
	assert.True(t, s.StepInFlight(2))
	assert.False(t, s.Completed(2))
	assert.True(t, State{StepIndex: 2}.Completed(2))
	assert.False(t, State{}.Completed(0))
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "step_advanced", EventStepAdvanced.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}

// leakyScheduler records callbacks and lets the test fire them even after
// Stop, modelling a callback that was already queued when Stop ran.
type leakyScheduler struct {
	inner     *eventloop.Fake
	callbacks []func()
}

func (l *leakyScheduler) AfterFunc(d time.Duration, f func()) eventloop.Timer {
	l.callbacks = append(l.callbacks, f)
	return l.inner.AfterFunc(d, f)
}

func (l *leakyScheduler) fireAll() {
	cbs := l.callbacks
	l.callbacks = nil
	for _, f := range cbs {
		f()
	}
}
