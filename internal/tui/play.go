// Package tui replays demo examples in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// Controller drives a simulation. Calls must not block.
type Controller interface {
	Start()
	Reset()
}

// EventMsg carries a simulator event into the program.
type EventMsg demo.Event

// Options configure a replay.
type Options struct {
	Timing demo.Timing
	// AutoStart begins the run without waiting for a key press
	AutoStart bool
	// ExitOnDone quits once the final answer is shown
	ExitOnDone bool
	Logger     *slog.Logger
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	questionStyle = lipgloss.NewStyle().Italic(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(6)
	answerStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model of a replay.
type Model struct {
	example    *core.DemoExample
	state      demo.State
	control    Controller
	spinner    spinner.Model
	exitOnDone bool
	autoStart  bool
}

// NewModel creates a replay model for ex driven by control.
func NewModel(ex *core.DemoExample, control Controller, autoStart, exitOnDone bool) *Model {
	return &Model{
		example:    ex,
		control:    control,
		spinner:    spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		autoStart:  autoStart,
		exitOnDone: exitOnDone,
	}
}

// State returns the last simulation state the model saw.
func (m *Model) State() demo.State { return m.state }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.autoStart {
		m.control.Start()
	}
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter", " ", "r":
			m.control.Start()
		case "x", "backspace":
			m.control.Reset()
		}
	case EventMsg:
		m.state = msg.State
		if msg.Kind == demo.EventCompleted && m.exitOnDone {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	steps := m.example.StepCount()

	b.WriteString(titleStyle.Render(m.example.Title) + "\n")
	b.WriteString(questionStyle.Render("Q: "+m.example.Question) + "\n\n")

	for i, st := range m.example.Steps {
		label := fmt.Sprintf("%d. [%s] %s", i+1, site.KindLabel(st.Kind), st.Description)
		switch {
		case m.state.StepDone(i):
			b.WriteString(doneStyle.Render("✓ "+label) + "\n")
			if st.Result != "" {
				b.WriteString(resultStyle.Render("→ "+st.Result) + "\n")
			}
		case m.state.StepInFlight(i):
			b.WriteString(m.spinner.View() + " " + label + "\n")
		default:
			b.WriteString(pendingStyle.Render("· "+label) + "\n")
		}
	}

	if m.state.Completed(steps) {
		b.WriteString("\n" + answerStyle.Render("Answer: "+m.example.Answer+"\n"+m.example.Reasoning) + "\n")
	}

	switch {
	case m.state.Running:
		b.WriteString(helpStyle.Render("\nrunning... x reset · q quit") + "\n")
	default:
		b.WriteString(helpStyle.Render("\nenter run · x reset · q quit") + "\n")
	}
	return b.String()
}

// loopController forwards controls to a simulator on its event loop.
type loopController struct {
	loop *eventloop.Loop
	sim  *demo.Simulator
}

func (c loopController) Start() { _ = c.loop.Post(func() { c.sim.Start() }) }
func (c loopController) Reset() { _ = c.loop.Post(c.sim.Reset) }

// Play runs an interactive replay of ex until the user quits or ctx ends.
func Play(ctx context.Context, ex *core.DemoExample, in io.Reader, out io.Writer, opts Options) error {
	if ex == nil || ex.StepCount() == 0 {
		return errors.New("tui: example has no steps")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	loop := eventloop.New(logger)
	defer loop.Close()

	var sim *demo.Simulator
	if err := loop.Do(ctx, func() {
		sim = demo.New(loop, demo.WithTiming(opts.Timing), demo.WithLogger(logger))
		sim.Load(ex)
	}); err != nil {
		return err
	}

	m := NewModel(ex, loopController{loop: loop, sim: sim}, opts.AutoStart, opts.ExitOnDone)
	// A nil reader disables keyboard input
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	// Send blocks until the program reads the message, so events are
	// relayed off the loop in order
	events := make(chan demo.Event, 64)
	done := make(chan struct{})
	defer close(done)
	if err := loop.Do(ctx, func() {
		sim.OnEvent(queueEvents(ctx, events, done))
	}); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case e := <-events:
				p.Send(EventMsg(e))
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("replay: %w", err)
	}
	return nil
}

// queueEvents returns a simulator callback that hands events to the relay.
// It blocks while the queue is full, so no event is lost, and gives up once
// ctx ends or done closes.
func queueEvents(ctx context.Context, events chan<- demo.Event, done <-chan struct{}) func(demo.Event) {
	return func(e demo.Event) {
		select {
		case events <- e:
		case <-ctx.Done():
		case <-done:
		}
	}
}
