package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		wantErr error
	}{
		{name: "single key", keys: []string{"a"}},
		{name: "ordered keys", keys: []string{"quickstart", "configuration", "usage"}},
		{name: "empty", keys: nil, wantErr: ErrNoOptions},
		{name: "duplicate", keys: []string{"a", "b", "a"}, wantErr: ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New("tabs", tt.keys)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.keys[0], s.Active(), "defaults to first key")
			assert.Equal(t, 0, s.Index())
			assert.Equal(t, tt.keys, s.Keys())
		})
	}
}

func TestSelect(t *testing.T) {
	s, err := New("architecture", []string{"preprocessing", "planning", "execution", "extraction"})
	require.NoError(t, err)

	var changes [][2]string
	s.OnChange(func(from, to string) { changes = append(changes, [2]string{from, to}) })

	assert.True(t, s.Select("execution"))
	assert.Equal(t, "execution", s.Active())
	assert.Equal(t, 2, s.Index())

	assert.False(t, s.Select("execution"), "reselecting is not a change")
	assert.False(t, s.Select("deployment"), "unknown key is a no-op")
	assert.Equal(t, "execution", s.Active())

	assert.Equal(t, [][2]string{{"preprocessing", "execution"}}, changes)
}

func TestKeysIsACopy(t *testing.T) {
	s, err := New("tabs", []string{"a", "b"})
	require.NoError(t, err)

	keys := s.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, s.Keys())
}

// =============================================================================
// Cascading
// =============================================================================

var modelsByDataset = map[string][]string{
	"WikiTQ":  {"GPT-4o-mini", "GPT-4o", "Gemini", "DeepSeek"},
	"TabFact": {"GPT-4o-mini", "GPT-4o", "Gemini", "DeepSeek"},
	"FinQA":   {"GPT-4o", "GPT-4o-mini", "Gemini"},
}

func setupResults(t *testing.T) (*Selection, *Selection) {
	t.Helper()
	datasets, err := New("dataset", []string{"WikiTQ", "TabFact", "FinQA"})
	require.NoError(t, err)
	models, err := New("model", modelsByDataset["WikiTQ"])
	require.NoError(t, err)
	datasets.Cascade(models, func(parent string) []string { return modelsByDataset[parent] })
	return datasets, models
}

func TestCascade_FallsBackToFirstValidKey(t *testing.T) {
	datasets, models := setupResults(t)

	require.True(t, models.Select("DeepSeek"))
	require.True(t, datasets.Select("FinQA"))

	assert.Equal(t, "GPT-4o", models.Active(), "dangling DeepSeek resets to FinQA's first model")
	assert.Equal(t, modelsByDataset["FinQA"], models.Keys())
	assert.False(t, models.Select("DeepSeek"), "DeepSeek is not selectable for FinQA")
}

func TestCascade_KeepsStillValidKey(t *testing.T) {
	datasets, models := setupResults(t)

	require.True(t, models.Select("Gemini"))
	require.True(t, datasets.Select("FinQA"))
	assert.Equal(t, "Gemini", models.Active())

	require.True(t, datasets.Select("TabFact"))
	assert.Equal(t, "Gemini", models.Active())
	assert.True(t, models.Has("DeepSeek"))
}

func TestCascade_AppliedOnRegistration(t *testing.T) {
	parent, err := New("dataset", []string{"FinQA", "WikiTQ"})
	require.NoError(t, err)
	child, err := New("model", []string{"DeepSeek", "GPT-4o"})
	require.NoError(t, err)

	parent.Cascade(child, func(p string) []string { return modelsByDataset[p] })
	assert.Equal(t, "GPT-4o", child.Active())
}

func TestCascade_NotifiesDependentListeners(t *testing.T) {
	datasets, models := setupResults(t)
	require.True(t, models.Select("DeepSeek"))

	var got []string
	models.OnChange(func(_, to string) { got = append(got, to) })

	datasets.Select("FinQA")
	assert.Equal(t, []string{"GPT-4o"}, got)
}

func TestCascade_Chains(t *testing.T) {
	a, err := New("a", []string{"x", "y"})
	require.NoError(t, err)
	b, err := New("b", []string{"x1", "x2"})
	require.NoError(t, err)
	c, err := New("c", []string{"x1-a", "x1-b"})
	require.NoError(t, err)

	a.Cascade(b, func(p string) []string { return []string{p + "1", p + "2"} })
	b.Cascade(c, func(p string) []string { return []string{p + "-a", p + "-b"} })

	require.True(t, c.Select("x1-b"))
	require.True(t, a.Select("y"))

	assert.Equal(t, "y1", b.Active())
	assert.Equal(t, "y1-a", c.Active())
}

func TestCascade_EmptyKeySetLeavesDependentAlone(t *testing.T) {
	datasets, models := setupResults(t)
	require.True(t, models.Select("Gemini"))

	datasets.Cascade(models, func(string) []string { return nil })
	assert.Equal(t, "Gemini", models.Active())
}
