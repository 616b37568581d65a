package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/weaver-tableqa/weaversite/internal/cli/output"
	"github.com/weaver-tableqa/weaversite/internal/demo"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/tui"
	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// PlayOptions holds options for the play command.
type PlayOptions struct {
	Speed float64
	Exit  bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand() *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play [example]",
		Short: "Replay a demo example in the terminal",
		Long: `Replay a scripted demo walkthrough in the terminal with the site's timing.

On a terminal the replay is interactive. Otherwise a transcript with the
virtual timestamps of every step is printed.`,
		Example: `  # Replay the first example
  weaversite play

  # Replay at double speed and exit at the answer
  weaversite play racing --speed 2 --exit`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			cat, err := loadCatalog(getConfig(cmd.Context()))
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return cat.ExampleIDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, opts)
		},
	}

	cmd.Flags().String("catalog", "", "Catalog file replacing the built-in content")
	cmd.Flags().Float64Var(&opts.Speed, "speed", 1, "Playback speed multiplier")
	cmd.Flags().BoolVar(&opts.Exit, "exit", false, "Exit once the answer is shown")

	return cmd
}

func runPlay(cmd *cobra.Command, args []string, opts *PlayOptions) error {
	cfg := getConfig(cmd.Context())
	r := newRenderer(cmd, cfg)

	if opts.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", opts.Speed)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	id := cat.ExampleIDs()[0]
	if len(args) == 1 {
		id = args[0]
	}
	ex, err := cat.Example(id)
	if err != nil {
		return err
	}

	timing := scaleTiming(demo.Timing{
		StepDelay:     cfg.Timing.StepDelay,
		TrailingDelay: cfg.Timing.TrailingDelay,
	}, opts.Speed)

	switch r.EffectiveMode() {
	case output.ModeText:
		if r.IsTTY() {
			return tui.Play(cmd.Context(), ex, cmd.InOrStdin(), cmd.OutOrStdout(), tui.Options{
				Timing:     timing,
				AutoStart:  true,
				ExitOnDone: opts.Exit,
				Logger:     getLogger(cmd.Context()),
			})
		}
		return writeTranscript(cmd.Context(), r, ex, timing)
	case output.ModeJSON:
		lines, err := transcript(cmd.Context(), ex, timing)
		if err != nil {
			return err
		}
		return r.JSON(lines)
	default:
		return writeTranscript(cmd.Context(), r, ex, timing)
	}
}

func scaleTiming(t demo.Timing, speed float64) demo.Timing {
	return demo.Timing{
		StepDelay:     time.Duration(float64(t.StepDelay) / speed),
		TrailingDelay: time.Duration(float64(t.TrailingDelay) / speed),
	}
}

// TranscriptLine is one simulator event at its virtual time.
type TranscriptLine struct {
	At       time.Duration       `json:"-"`
	AtMillis int64               `json:"at_ms"`
	Event    string              `json:"event"`
	Step     int                 `json:"step,omitempty"`
	Detail   *core.ExecutionStep `json:"detail,omitempty"`
	Answer   string              `json:"answer,omitempty"`
}

// transcript runs the simulation on a virtual clock and records every event.
func transcript(ctx context.Context, ex *core.DemoExample, timing demo.Timing) ([]TranscriptLine, error) {
	clock := eventloop.NewFake()
	sim := demo.New(clock, demo.WithTiming(timing))
	sim.Load(ex)

	var lines []TranscriptLine
	sim.OnEvent(func(e demo.Event) {
		line := TranscriptLine{At: clock.Now(), AtMillis: clock.Now().Milliseconds(), Event: e.Kind.String()}
		switch e.Kind {
		case demo.EventStepAdvanced:
			line.Step = e.State.StepIndex
			line.Detail = &ex.Steps[e.State.StepIndex-1]
		case demo.EventCompleted:
			line.Answer = ex.Answer
		}
		lines = append(lines, line)
	})

	if !sim.Start() {
		return nil, fmt.Errorf("example %q has no steps", ex.ID)
	}
	for clock.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clock.Advance(timing.StepDelay + timing.TrailingDelay)
	}
	return lines, nil
}

func writeTranscript(ctx context.Context, r *output.Renderer, ex *core.DemoExample, timing demo.Timing) error {
	lines, err := transcript(ctx, ex, timing)
	if err != nil {
		return err
	}

	r.Println(output.FormatHeader(1, ex.Title))
	r.Println(output.FormatKeyValue("Question", ex.Question))
	r.Println()
	for _, l := range lines {
		switch l.Event {
		case demo.EventStepAdvanced.String():
			r.Printf("- `%s` step %d [%s] %s\n", l.At, l.Step, site.KindLabel(l.Detail.Kind), l.Detail.Description)
			if l.Detail.Result != "" {
				r.Printf("  - %s\n", l.Detail.Result)
			}
		case demo.EventCompleted.String():
			r.Println()
			r.Println(output.FormatKeyValue("Answer", l.Answer))
			r.Println(output.FormatKeyValue("Reasoning", ex.Reasoning))
		}
	}
	return nil
}
