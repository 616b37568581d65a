package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/cli/output"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Port < 0 || c.Port > 65535 {
		add("port %d out of range", c.Port)
	}
	if c.OutputFormat != "" && output.Mode(c.OutputFormat) == output.ModeAuto && !strings.EqualFold(c.OutputFormat, string(output.ModeAuto)) {
		add("unknown output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		add("%v", err)
	}
	if c.Reveal.Threshold < 0 || c.Reveal.Threshold > 1 {
		add("reveal.threshold %v must be within [0, 1]", c.Reveal.Threshold)
	}
	for name, d := range map[string]time.Duration{
		"timing.step_delay":     c.Timing.StepDelay,
		"timing.trailing_delay": c.Timing.TrailingDelay,
		"timing.copy_revert":    c.Timing.CopyRevert,
		"reveal.stagger":        c.Reveal.Stagger,
		"session.idle_timeout":  c.Session.IdleTimeout,
	} {
		if d < 0 {
			add("%s must not be negative", name)
		}
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
