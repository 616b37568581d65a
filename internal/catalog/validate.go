package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalid wraps every catalog validation failure.
var ErrInvalid = errors.New("invalid catalog")

// Validate checks the structural rules the interactive components rely on:
// unique IDs, non-empty tab sets and known step kinds.
func (c *Catalog) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if len(c.Examples) == 0 {
		add("no demo examples")
	}
	seen := map[string]bool{}
	for i, e := range c.Examples {
		if e.ID == "" {
			add("example #%d has no id", i+1)
			continue
		}
		if seen[e.ID] {
			add("duplicate example id %q", e.ID)
		}
		seen[e.ID] = true
		for j, s := range e.Steps {
			if !s.Kind.Valid() {
				add("example %q step %d: unknown kind %q", e.ID, j+1, s.Kind)
			}
		}
		for j, row := range e.Table.Rows {
			if len(row) != len(e.Table.Headers) {
				add("example %q row %d has %d cells, want %d", e.ID, j+1, len(row), len(e.Table.Headers))
			}
		}
	}

	if len(c.Architecture) == 0 {
		add("no architecture steps")
	}
	checkIDs(add, "architecture step", len(c.Architecture), func(i int) string { return c.Architecture[i].ID })

	if len(c.Datasets) == 0 {
		add("no datasets")
	}
	checkIDs(add, "dataset", len(c.Datasets), func(i int) string { return c.Datasets[i].ID })
	for _, d := range c.Datasets {
		if len(d.Models) == 0 {
			add("dataset %q has no models", d.ID)
		}
		checkIDs(add, "model in dataset "+d.ID, len(d.Models), func(i int) string { return d.Models[i].ID })
	}

	if len(c.Install) == 0 {
		add("no installation tabs")
	}
	checkIDs(add, "install tab", len(c.Install), func(i int) string { return c.Install[i].ID })
	steps := map[string]bool{}
	for _, t := range c.Install {
		for _, s := range t.Steps {
			if s.ID == "" {
				add("install tab %q has a step without id", t.ID)
				continue
			}
			if steps[s.ID] {
				add("duplicate install step id %q", s.ID)
			}
			steps[s.ID] = true
		}
	}

	checkIDs(add, "section", len(c.Sections), func(i int) string { return c.Sections[i].ID })
	for _, s := range c.Sections {
		if s.Children < 0 || s.StaggerMillis < 0 {
			add("section %q has negative children or stagger", s.ID)
		}
	}

	return errors.Join(errs...)
}

func checkIDs(add func(string, ...any), what string, n int, id func(int) string) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := id(i)
		switch {
		case v == "":
			add("%s #%d has no id", what, i+1)
		case seen[v]:
			add("duplicate %s id %q", what, v)
		}
		seen[v] = true
	}
}
