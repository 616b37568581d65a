package tui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/testutil"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

type recordingController struct {
	starts, resets int
}

func (c *recordingController) Start() { c.starts++ }
func (c *recordingController) Reset() { c.resets++ }

func racing(t *testing.T) *core.DemoExample {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	ex, err := cat.Example("racing")
	require.NoError(t, err)
	return ex
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// =============================================================================
// Model
// =============================================================================

func TestModel_Keys(t *testing.T) {
	ctrl := &recordingController{}
	m := NewModel(racing(t), ctrl, false, false)

	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	m.Update(key("r"))
	m.Update(key("x"))

	assert.Equal(t, 2, ctrl.starts)
	assert.Equal(t, 1, ctrl.resets)

	_, cmd = m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_AutoStart(t *testing.T) {
	ctrl := &recordingController{}
	m := NewModel(racing(t), ctrl, true, false)

	require.NotNil(t, m.Init())
	assert.Equal(t, 1, ctrl.starts)
}

func TestModel_ViewTracksProgress(t *testing.T) {
	ex := racing(t)
	m := NewModel(ex, &recordingController{}, false, false)

	view := m.View()
	assert.Contains(t, view, ex.Title)
	assert.Contains(t, view, "enter run")
	assert.NotContains(t, view, "Answer:")

	m.Update(EventMsg{Kind: demo.EventStepAdvanced, State: demo.State{StepIndex: 1, Running: true}})
	view = m.View()
	assert.Contains(t, view, "✓ 1. [SQL]")
	assert.Contains(t, view, ex.Steps[0].Result)
	assert.Contains(t, view, "running...")
	assert.NotContains(t, view, ex.Steps[1].Result)

	m.Update(EventMsg{Kind: demo.EventCompleted, State: demo.State{StepIndex: ex.StepCount()}})
	view = m.View()
	assert.Contains(t, view, "Answer: France")
	assert.Equal(t, demo.State{StepIndex: ex.StepCount()}, m.State())
}

func TestModel_ExitOnDone(t *testing.T) {
	ex := racing(t)
	m := NewModel(ex, &recordingController{}, true, true)

	_, cmd := m.Update(EventMsg{Kind: demo.EventStepAdvanced, State: demo.State{StepIndex: 1, Running: true}})
	assert.Nil(t, cmd)

	_, cmd = m.Update(EventMsg{Kind: demo.EventCompleted, State: demo.State{StepIndex: ex.StepCount()}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

// =============================================================================
// Play
// =============================================================================

func TestPlay_RunsToCompletion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := Play(ctx, racing(t), nil, &out, Options{
		Timing:     demo.Timing{StepDelay: 5 * time.Millisecond, TrailingDelay: 5 * time.Millisecond},
		AutoStart:  true,
		ExitOnDone: true,
		Logger:     testutil.NewTestLogger(t),
	})

	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
	assert.Contains(t, out.String(), "France")
}

func TestPlay_RejectsEmptyExample(t *testing.T) {
	err := Play(context.Background(), &core.DemoExample{ID: "empty"}, nil, &bytes.Buffer{}, Options{})
	assert.Error(t, err)
}

func TestQueueEvents_BlocksInsteadOfDropping(t *testing.T) {
	events := make(chan demo.Event, 1)
	done := make(chan struct{})
	queue := queueEvents(context.Background(), events, done)

	const burst = 200
	go func() {
		for i := range burst {
			queue(demo.Event{Kind: demo.EventStepAdvanced, State: demo.State{StepIndex: i}})
		}
	}()

	for i := range burst {
		select {
		case e := <-events:
			require.Equal(t, i, e.State.StepIndex, "events arrive in order")
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d never arrived", i)
		}
	}
}

func TestQueueEvents_StopsWhenDone(t *testing.T) {
	events := make(chan demo.Event)
	done := make(chan struct{})
	queue := queueEvents(context.Background(), events, done)

	returned := make(chan struct{})
	go func() {
		queue(demo.Event{Kind: demo.EventStarted})
		close(returned)
	}()
	close(done)

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("queue stayed blocked after done closed")
	}
}

func TestQueueEvents_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	queue := queueEvents(ctx, make(chan demo.Event), make(chan struct{}))
	cancel()

	returned := make(chan struct{})
	go func() {
		queue(demo.Event{Kind: demo.EventStarted})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("queue stayed blocked after cancel")
	}
}
