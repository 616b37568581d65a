package clipboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/eventloop"
)

func setupFeedback(t *testing.T, opts ...Option) (*Feedback, *eventloop.Fake, *[]string) {
	t.Helper()
	clock := eventloop.NewFake()
	var written []string
	f := New(clock, WriterFunc(func(text string) { written = append(written, text) }), opts...)
	return f, clock, &written
}

func TestFeedback_CopyThenRevert(t *testing.T) {
	f, clock, written := setupFeedback(t)
	assert.Equal(t, Idle, f.Status())

	f.Copy("bibtex", "@article{khoja2025weaver}")
	assert.Equal(t, []string{"@article{khoja2025weaver}"}, *written)
	assert.Equal(t, Copied, f.Status())
	assert.True(t, f.CopiedKey("bibtex"))

	clock.Advance(1999 * time.Millisecond)
	assert.Equal(t, Copied, f.Status())

	clock.Advance(time.Millisecond)
	assert.Equal(t, Idle, f.Status())
	assert.False(t, f.CopiedKey("bibtex"))
}

func TestFeedback_RecopyRestartsDelay(t *testing.T) {
	f, clock, _ := setupFeedback(t)
	var transitions []time.Duration
	f.OnChange(func(s Status, _ string) {
		if s == Idle {
			transitions = append(transitions, clock.Now())
		}
	})

	f.Copy("bibtex", "x")
	clock.AdvanceTo(1 * time.Second)
	f.Copy("bibtex", "x")

	clock.AdvanceTo(2 * time.Second)
	assert.Equal(t, Copied, f.Status(), "first call's timer must not revert")

	clock.AdvanceTo(2999 * time.Millisecond)
	assert.Equal(t, Copied, f.Status())

	clock.AdvanceTo(3 * time.Second)
	assert.Equal(t, Idle, f.Status())
	assert.Equal(t, []time.Duration{3 * time.Second}, transitions, "exactly one revert, at t=3s")
}

func TestFeedback_SharedGroupTracksLastKey(t *testing.T) {
	f, clock, written := setupFeedback(t)

	f.Copy("clone", "git clone https://github.com/rohitkhoja/weaver.git")
	clock.Advance(500 * time.Millisecond)
	f.Copy("install-deps", "pip install -r requirements.txt")

	assert.False(t, f.CopiedKey("clone"))
	assert.True(t, f.CopiedKey("install-deps"))
	assert.Equal(t, "install-deps", f.Key())
	assert.Len(t, *written, 2)

	clock.Advance(2 * time.Second)
	assert.Equal(t, Idle, f.Status())
}

func TestFeedback_CustomDelay(t *testing.T) {
	f, clock, _ := setupFeedback(t, WithDelay(100*time.Millisecond))
	f.Copy("k", "v")
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, Idle, f.Status())
}

func TestFeedback_CloseCancelsRevert(t *testing.T) {
	f, clock, _ := setupFeedback(t)
	var events int
	f.OnChange(func(Status, string) { events++ })

	f.Copy("k", "v")
	require.Equal(t, 1, events)
	f.Close()

	clock.Advance(time.Minute)
	assert.Equal(t, 1, events)
	assert.Equal(t, 0, clock.Pending())
}

func TestFeedback_NilWriter(t *testing.T) {
	clock := eventloop.NewFake()
	f := New(clock, nil)
	f.Copy("k", "v")
	assert.Equal(t, Copied, f.Status())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "copied", Copied.String())
}
