// Package site composes the interactive components into one UI instance
// per visitor and keeps those instances in a registry.
package site

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/clipboard"
	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/reveal"
	"github.com/weaver-tableqa/weaversite/internal/selection"
)

// CitationKey is the copy feedback key of the BibTeX button.
const CitationKey = "bibtex"

// Config holds the timing knobs of a page.
type Config struct {
	Timing          demo.Timing
	CopyRevert      time.Duration
	RevealThreshold float64
	RevealStagger   time.Duration
}

// DefaultConfig returns the timings used on the public site.
func DefaultConfig() Config {
	return Config{
		Timing:          demo.DefaultTiming(),
		CopyRevert:      clipboard.DefaultRevert,
		RevealThreshold: reveal.DefaultThreshold,
		RevealStagger:   reveal.DefaultStagger,
	}
}

// EffectKind identifies a side effect the host page must perform.
type EffectKind int

// Effect kinds.
const (
	EffectCopy EffectKind = iota
	EffectScroll
)

// Effect is a host side effect queued by an action. Payload is the text to
// copy or the anchor to scroll to.
type Effect struct {
	Kind    EffectKind
	Payload string
}

// Page is the interactive state of the site for one visitor.
// It is not safe for concurrent use; an Instance serializes access.
type Page struct {
	cat    *catalog.Catalog
	logger *slog.Logger

	sim          *demo.Simulator
	demoTab      *selection.Selection
	archTab      *selection.Selection
	dataset      *selection.Selection
	model        *selection.Selection
	installTab   *selection.Selection
	installCopy  *clipboard.Feedback
	citationCopy *clipboard.Feedback
	tracker      *reveal.Tracker
	reveals      *reveal.Controller

	effects   []Effect
	version   uint64
	listeners []func()
}

// NewPage builds the page state from the catalog. Every timer is armed on
// sched.
func NewPage(cat *catalog.Catalog, sched eventloop.Scheduler, cfg Config, logger *slog.Logger) (*Page, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Page{cat: cat, logger: logger}

	var err error
	if p.demoTab, err = selection.New("demo", cat.ExampleIDs()); err != nil {
		return nil, err
	}
	if p.archTab, err = selection.New("architecture", cat.StepIDs()); err != nil {
		return nil, err
	}
	if p.dataset, err = selection.New("dataset", cat.DatasetIDs()); err != nil {
		return nil, err
	}
	if p.model, err = selection.New("model", cat.ModelIDs(p.dataset.Active())); err != nil {
		return nil, err
	}
	if p.installTab, err = selection.New("install", cat.InstallTabIDs()); err != nil {
		return nil, err
	}
	p.dataset.Cascade(p.model, cat.ModelIDs)

	p.sim = demo.New(sched, demo.WithTiming(cfg.Timing), demo.WithLogger(logger))
	ex, err := cat.Example(p.demoTab.Active())
	if err != nil {
		return nil, err
	}
	p.sim.Load(ex)

	writer := clipboard.WriterFunc(func(text string) {
		p.effects = append(p.effects, Effect{Kind: EffectCopy, Payload: text})
	})
	p.installCopy = clipboard.New(sched, writer, clipboard.WithDelay(cfg.CopyRevert), clipboard.WithLogger(logger))
	p.citationCopy = clipboard.New(sched, writer, clipboard.WithDelay(cfg.CopyRevert), clipboard.WithLogger(logger))

	p.tracker = reveal.NewTracker(logger)
	p.reveals = reveal.NewController(p.tracker, sched,
		reveal.WithThreshold(cfg.RevealThreshold),
		reveal.WithStagger(cfg.RevealStagger),
		reveal.WithLogger(logger),
	)
	for _, sec := range cat.Sections {
		p.reveals.Observe(sec)
	}

	p.sim.OnEvent(func(demo.Event) { p.changed() })
	for _, s := range []*selection.Selection{p.demoTab, p.archTab, p.dataset, p.model, p.installTab} {
		s.OnChange(func(string, string) { p.changed() })
	}
	p.installCopy.OnChange(func(clipboard.Status, string) { p.changed() })
	p.citationCopy.OnChange(func(clipboard.Status, string) { p.changed() })
	p.reveals.OnChange(func(string, reveal.State) { p.changed() })

	return p, nil
}

// OnChange registers a listener called after any state change.
func (p *Page) OnChange(fn func()) {
	p.listeners = append(p.listeners, fn)
}

// Version increases with every state change.
func (p *Page) Version() uint64 { return p.version }

// RunDemo starts the active demo. It reports whether a run started.
func (p *Page) RunDemo() bool {
	return p.sim.Start()
}

// ResetDemo stops the demo and clears its progress.
func (p *Page) ResetDemo() {
	p.sim.Reset()
}

// SelectDemo switches the demo example. Selecting any tab, including the
// active one, resets the simulation.
func (p *Page) SelectDemo(id string) error {
	ex, err := p.cat.Example(id)
	if err != nil {
		return err
	}
	p.demoTab.Select(id)
	p.sim.Load(ex)
	return nil
}

// SelectStep switches the architecture tab.
func (p *Page) SelectStep(id string) error {
	return selectKnown(p.archTab, id)
}

// SelectDataset switches the results dataset. The model falls back to the
// dataset's first model when the current one was not measured on it.
func (p *Page) SelectDataset(id string) error {
	return selectKnown(p.dataset, id)
}

// SelectModel switches the results model within the active dataset.
func (p *Page) SelectModel(id string) error {
	return selectKnown(p.model, id)
}

// SelectInstallTab switches the installation tab.
func (p *Page) SelectInstallTab(id string) error {
	return selectKnown(p.installTab, id)
}

// CopyInstallStep copies an installation snippet.
func (p *Page) CopyInstallStep(id string) error {
	step, err := p.cat.InstallStep(id)
	if err != nil {
		return err
	}
	p.installCopy.Copy(id, step.Code)
	return nil
}

// CopyCitation copies the BibTeX entry.
func (p *Page) CopyCitation() {
	p.citationCopy.Copy(CitationKey, p.cat.Citation.BibTeX)
}

// ReportVisibility feeds an intersection ratio for a section.
func (p *Page) ReportVisibility(section string, ratio float64) error {
	if _, err := p.cat.Section(section); err != nil {
		return err
	}
	p.tracker.Report(section, ratio)
	return nil
}

// ScrollTo queues a smooth scroll to a navigation anchor.
func (p *Page) ScrollTo(anchor string) error {
	if !p.cat.HasAnchor(anchor) {
		return fmt.Errorf("anchor %q: %w", anchor, catalog.ErrNotFound)
	}
	p.effects = append(p.effects, Effect{Kind: EffectScroll, Payload: anchor})
	return nil
}

// DrainEffects returns and clears the queued host side effects.
func (p *Page) DrainEffects() []Effect {
	out := p.effects
	p.effects = nil
	return out
}

// Close cancels every pending timer. The page must not be used afterwards.
func (p *Page) Close() {
	p.listeners = nil
	p.sim.Close()
	p.installCopy.Close()
	p.citationCopy.Close()
	p.reveals.Close()
}

func (p *Page) changed() {
	p.version++
	for _, fn := range p.listeners {
		fn()
	}
}

func selectKnown(s *selection.Selection, key string) error {
	if !s.Has(key) {
		return fmt.Errorf("%s %q: %w", s.Name(), key, catalog.ErrNotFound)
	}
	s.Select(key)
	return nil
}
