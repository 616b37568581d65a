package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/pkg/core"
)

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "SQL", KindLabel(core.StepStructured))
	assert.Equal(t, "LLM", KindLabel(core.StepSemantic))
}

func TestSnapshot_StepLabels(t *testing.T) {
	p, _ := setupPage(t, nil)

	steps := p.Snapshot().Demo.Steps
	require.NotEmpty(t, steps)
	for _, st := range steps {
		assert.Equal(t, KindLabel(st.Kind), st.Label)
	}
}
