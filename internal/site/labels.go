package site

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/weaver-tableqa/weaversite/pkg/core"
)

// KindLabel is the badge text of a step kind ("SQL", "LLM").
func KindLabel(k core.StepKind) string {
	return cases.Upper(language.English).String(string(k))
}
