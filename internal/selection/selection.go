// Package selection implements tabbed "exactly one active option" state
// with cascading resets of dependent selections.
package selection

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoOptions is returned when a selection is built from an empty key set.
	ErrNoOptions = errors.New("selection has no options")
	// ErrDuplicateKey is returned when a key appears twice in a key set.
	ErrDuplicateKey = errors.New("duplicate selection key")
)

// KeysFunc maps a parent key to the valid key set of a dependent selection.
type KeysFunc func(parent string) []string

type dependent struct {
	sel     *Selection
	keysFor KeysFunc
}

// Selection holds one active key out of an ordered, non-empty key set.
// It is not safe for concurrent use.
type Selection struct {
	name       string
	keys       []string
	active     string
	dependents []dependent
	listeners  []func(from, to string)
}

// New creates a selection over keys with the first key active.
func New(name string, keys []string) (*Selection, error) {
	if err := validateKeys(keys); err != nil {
		return nil, fmt.Errorf("selection %q: %w", name, err)
	}
	return &Selection{
		name:   name,
		keys:   slices.Clone(keys),
		active: keys[0],
	}, nil
}

func validateKeys(keys []string) error {
	if len(keys) == 0 {
		return ErrNoOptions
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Name returns the selection's name.
func (s *Selection) Name() string { return s.name }

// Active returns the active key.
func (s *Selection) Active() string { return s.active }

// Keys returns a copy of the current key set.
func (s *Selection) Keys() []string { return slices.Clone(s.keys) }

// Index returns the position of the active key.
func (s *Selection) Index() int { return slices.Index(s.keys, s.active) }

// Has reports whether key belongs to the current key set.
func (s *Selection) Has(key string) bool { return slices.Contains(s.keys, key) }

// OnChange registers a listener called after the active key changes.
func (s *Selection) OnChange(fn func(from, to string)) {
	s.listeners = append(s.listeners, fn)
}

// Select makes key active. Unknown keys are ignored. It returns true if the
// active key changed.
func (s *Selection) Select(key string) bool {
	if key == s.active || !s.Has(key) {
		return false
	}
	s.setActive(key)
	return true
}

// Cascade registers dep as a dependent of s. Whenever s changes, dep's key
// set becomes keysFor(s.Active()) and dep falls back to the first key of
// that set if its active key is no longer valid. The rule is applied once
// immediately.
func (s *Selection) Cascade(dep *Selection, keysFor KeysFunc) {
	s.dependents = append(s.dependents, dependent{sel: dep, keysFor: keysFor})
	dep.restrict(keysFor(s.active))
}

func (s *Selection) setActive(key string) {
	from := s.active
	s.active = key
	for _, d := range s.dependents {
		d.sel.restrict(d.keysFor(key))
	}
	for _, fn := range s.listeners {
		fn(from, key)
	}
}

// restrict replaces the key set. An invalid set (empty or with duplicates)
// leaves the selection untouched.
func (s *Selection) restrict(keys []string) {
	if validateKeys(keys) != nil {
		return
	}
	s.keys = slices.Clone(keys)
	if !s.Has(s.active) {
		s.setActive(s.keys[0])
	}
}
