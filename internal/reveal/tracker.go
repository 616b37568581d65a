package reveal

import "log/slog"

// Viewport notifies when a section first becomes sufficiently visible.
type Viewport interface {
	// Observe calls enter once, the first time the section's visible ratio
	// reaches threshold. The returned cancel drops the subscription.
	Observe(id string, threshold float64, enter func()) (cancel func())
}

// Tracker is a Viewport fed by intersection reports from the host page.
// It remembers the last ratio per section so a section that is already
// visible fires as soon as it is observed.
// It is not safe for concurrent use; run it on an eventloop.Loop.
type Tracker struct {
	ratios map[string]float64
	subs   map[string][]*subscription
	logger *slog.Logger
}

type subscription struct {
	threshold float64
	enter     func()
	done      bool
}

// NewTracker returns an empty tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		ratios: make(map[string]float64),
		subs:   make(map[string][]*subscription),
		logger: logger,
	}
}

// Observe implements Viewport.
func (t *Tracker) Observe(id string, threshold float64, enter func()) func() {
	s := &subscription{threshold: threshold, enter: enter}
	if qualifies(t.ratios[id], threshold) {
		s.done = true
		enter()
		return func() {}
	}
	t.subs[id] = append(t.subs[id], s)
	return func() {
		s.done = true
		t.prune(id)
	}
}

// Report records the visible ratio of a section and fires the
// subscriptions it satisfies. It returns how many fired.
func (t *Tracker) Report(id string, ratio float64) int {
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	t.ratios[id] = ratio

	fired := 0
	for _, s := range t.subs[id] {
		if s.done || !qualifies(ratio, s.threshold) {
			continue
		}
		s.done = true
		fired++
		s.enter()
	}
	t.prune(id)
	if fired > 0 {
		t.logger.Debug("section entered viewport", "section", id, "ratio", ratio)
	}
	return fired
}

// Ratio returns the last reported ratio for a section.
func (t *Tracker) Ratio(id string) float64 {
	return t.ratios[id]
}

// Subscribed returns the number of live subscriptions for a section.
func (t *Tracker) Subscribed(id string) int {
	n := 0
	for _, s := range t.subs[id] {
		if !s.done {
			n++
		}
	}
	return n
}

func (t *Tracker) prune(id string) {
	live := t.subs[id][:0]
	for _, s := range t.subs[id] {
		if !s.done {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		delete(t.subs, id)
		return
	}
	t.subs[id] = live
}

func qualifies(ratio, threshold float64) bool {
	return ratio > 0 && ratio >= threshold
}
