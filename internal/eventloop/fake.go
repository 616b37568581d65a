package eventloop

import (
	"sort"
	"time"
)

// Fake is a manually driven Scheduler for deterministic tests.
// It is not safe for concurrent use; drive it from the test goroutine.
type Fake struct {
	now    time.Duration
	seq    uint64
	timers []*fakeTimer
}

// NewFake returns a fake scheduler at time zero.
func NewFake() *Fake {
	return &Fake{}
}

type fakeTimer struct {
	at      time.Duration
	seq     uint64
	f       func()
	done    bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.stopped = true
	return true
}

// AfterFunc arms a timer relative to the fake clock.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{at: f.now + d, seq: f.seq, f: fn}
	f.timers = append(f.timers, t)
	return t
}

// Now returns the elapsed fake time.
func (f *Fake) Now() time.Duration {
	return f.now
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers armed by callbacks fire too if they fall inside the window.
func (f *Fake) Advance(d time.Duration) {
	target := f.now + d
	for {
		next := f.next(target)
		if next == nil {
			break
		}
		f.now = next.at
		next.done = true
		next.f()
	}
	f.now = target
	f.compact()
}

// AdvanceTo moves the clock to the absolute instant at.
func (f *Fake) AdvanceTo(at time.Duration) {
	if at > f.now {
		f.Advance(at - f.now)
	}
}

// Pending returns the number of armed timers.
func (f *Fake) Pending() int {
	n := 0
	for _, t := range f.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func (f *Fake) next(limit time.Duration) *fakeTimer {
	var due []*fakeTimer
	for _, t := range f.timers {
		if !t.done && t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	f.timers = live
}
