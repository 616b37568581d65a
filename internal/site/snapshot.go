package site

import (
	"cmp"
	"slices"

	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/reveal"
	"github.com/weaver-tableqa/weaversite/internal/selection"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// Snapshot is an immutable view of a page, safe to render off the loop.
type Snapshot struct {
	Version  uint64
	Site     core.SiteInfo
	Nav      []core.NavItem
	Sections []SectionView
	// RevealThreshold is the visible ratio a section needs to reveal
	RevealThreshold float64

	Demo         DemoView
	Architecture ArchitectureView
	Results      ResultsView
	Install      InstallView
	Citation     CitationView
}

// Section returns the view of a section, or a zero view for unknown IDs.
func (s Snapshot) Section(id string) SectionView {
	for _, sv := range s.Sections {
		if sv.ID == id {
			return sv
		}
	}
	return SectionView{Section: core.Section{ID: id}}
}

// SectionView pairs a section with its reveal progress.
type SectionView struct {
	core.Section
	Reveal reveal.State
}

// Tab is one selectable option.
type Tab struct {
	ID     string
	Label  string
	Active bool
}

// DemoView is the demo section.
type DemoView struct {
	Tabs      []Tab
	Example   core.DemoExample
	State     demo.State
	Steps     []StepView
	Completed bool
	Answer    string
	Reasoning string
}

// StepView is one scripted step with its progress.
type StepView struct {
	Number int
	core.ExecutionStep
	// Label is the badge text of the step kind
	Label    string
	Done     bool
	InFlight bool
}

// ArchitectureView is the architecture section.
type ArchitectureView struct {
	Tabs     []Tab
	Active   core.ArchitectureStep
	Pipeline []core.PipelineNode
}

// ResultsView is the results section for the active dataset and model.
type ResultsView struct {
	Datasets []Tab
	Models   []Tab
	Dataset  core.Dataset
	Model    core.ModelResults
	Bars     []Bar
}

// Bar is one accuracy bar. Width is a percentage of the best accuracy.
type Bar struct {
	Method   string
	Accuracy float64
	Width    float64
	Ours     bool
}

// InstallView is the installation section.
type InstallView struct {
	Tabs  []Tab
	Steps []InstallStepView
}

// InstallStepView is a copyable snippet with its feedback state.
type InstallStepView struct {
	core.InstallStep
	Copied bool
}

// CitationView is the citation section.
type CitationView struct {
	BibTeX  string
	Authors []core.Author
	Copied  bool
}

// Snapshot captures the current state.
func (p *Page) Snapshot() Snapshot {
	s := Snapshot{
		Version: p.version,
		Site:    p.cat.Site,
		Nav:     p.cat.Nav,

		RevealThreshold: p.reveals.Threshold(),
	}
	for _, sec := range p.cat.Sections {
		st, _ := p.reveals.State(sec.ID)
		s.Sections = append(s.Sections, SectionView{Section: sec, Reveal: st})
	}
	s.Demo = p.demoView()
	s.Architecture = p.architectureView()
	s.Results = p.resultsView()
	s.Install = p.installView()
	s.Citation = CitationView{
		BibTeX:  p.cat.Citation.BibTeX,
		Authors: p.cat.Citation.Authors,
		Copied:  p.citationCopy.CopiedKey(CitationKey),
	}
	return s
}

func (p *Page) demoView() DemoView {
	v := DemoView{State: p.sim.State()}
	for _, ex := range p.cat.Examples {
		v.Tabs = append(v.Tabs, Tab{ID: ex.ID, Label: ex.Title, Active: ex.ID == p.demoTab.Active()})
	}
	ex := p.sim.Example()
	if ex == nil {
		return v
	}
	v.Example = *ex
	for i, step := range ex.Steps {
		v.Steps = append(v.Steps, StepView{
			Number:        i + 1,
			ExecutionStep: step,
			Label:         KindLabel(step.Kind),
			Done:          v.State.StepDone(i),
			InFlight:      v.State.StepInFlight(i),
		})
	}
	v.Answer, v.Reasoning, v.Completed = p.sim.FinalAnswer()
	return v
}

func (p *Page) architectureView() ArchitectureView {
	v := ArchitectureView{Pipeline: p.cat.Pipeline}
	for _, st := range p.cat.Architecture {
		active := st.ID == p.archTab.Active()
		v.Tabs = append(v.Tabs, Tab{ID: st.ID, Label: st.Title, Active: active})
		if active {
			v.Active = st
		}
	}
	return v
}

func (p *Page) resultsView() ResultsView {
	var v ResultsView
	for _, d := range p.cat.Datasets {
		active := d.ID == p.dataset.Active()
		v.Datasets = append(v.Datasets, Tab{ID: d.ID, Label: d.Name, Active: active})
		if active {
			v.Dataset = d
		}
	}
	for _, m := range v.Dataset.Models {
		active := m.ID == p.model.Active()
		v.Models = append(v.Models, Tab{ID: m.ID, Label: m.ShortName, Active: active})
		if active {
			v.Model = m
		}
	}
	v.Bars = ResultBars(&v.Model)
	return v
}

func (p *Page) installView() InstallView {
	var v InstallView
	v.Tabs = tabsOf(p.installTab, func(id string) string {
		t, err := p.cat.InstallTab(id)
		if err != nil {
			return id
		}
		return t.Label
	})
	tab, err := p.cat.InstallTab(p.installTab.Active())
	if err != nil {
		return v
	}
	for _, st := range tab.Steps {
		v.Steps = append(v.Steps, InstallStepView{
			InstallStep: st,
			Copied:      p.installCopy.CopiedKey(st.ID),
		})
	}
	return v
}

// ResultBars orders a model's results by accuracy, best first, and scales
// each bar against the best.
func ResultBars(m *core.ModelResults) []Bar {
	best := m.Best()
	bars := make([]Bar, 0, len(m.Results))
	for _, r := range m.Results {
		b := Bar{Method: r.Method, Accuracy: r.Accuracy, Ours: r.Ours}
		if best > 0 {
			b.Width = r.Accuracy / best * 100
		}
		bars = append(bars, b)
	}
	slices.SortStableFunc(bars, func(a, b Bar) int {
		return cmp.Compare(b.Accuracy, a.Accuracy)
	})
	return bars
}

func tabsOf(s *selection.Selection, label func(string) string) []Tab {
	keys := s.Keys()
	tabs := make([]Tab, len(keys))
	for i, k := range keys {
		tabs[i] = Tab{ID: k, Label: label(k), Active: k == s.Active()}
	}
	return tabs
}

