package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepKind_Valid(t *testing.T) {
	assert.True(t, StepStructured.Valid())
	assert.True(t, StepSemantic.Valid())
	assert.False(t, StepKind("python").Valid())
}

func TestDemoExample_StepCount(t *testing.T) {
	var nilExample *DemoExample
	assert.Equal(t, 0, nilExample.StepCount())

	ex := &DemoExample{Steps: []ExecutionStep{{Kind: StepStructured}, {Kind: StepSemantic}}}
	assert.Equal(t, 2, ex.StepCount())
}

func TestDataset_ModelLookup(t *testing.T) {
	ds := Dataset{
		ID: "finqa",
		Models: []ModelResults{
			{ID: "gpt4mini", Results: []MethodResult{{Method: "Binder", Accuracy: 13.0}, {Method: "Weaver (Ours)", Accuracy: 49.3, Ours: true}}},
			{ID: "gpt4"},
		},
	}

	assert.Equal(t, []string{"gpt4mini", "gpt4"}, ds.ModelIDs())

	m, ok := ds.Model("gpt4mini")
	assert.True(t, ok)
	assert.InDelta(t, 49.3, m.Best(), 0.001)

	_, ok = ds.Model("deepseek")
	assert.False(t, ok)
}
