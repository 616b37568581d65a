package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/features"
)

func TestEffectScript(t *testing.T) {
	tests := []struct {
		name   string
		effect site.Effect
		want   string
	}{
		{
			name:   "copy",
			effect: site.Effect{Kind: site.EffectCopy, Payload: "pip install -e ."},
			want:   `navigator.clipboard.writeText("pip install -e .").catch(() => {})`,
		},
		{
			name:   "copy escapes quotes and newlines",
			effect: site.Effect{Kind: site.EffectCopy, Payload: "a \"b\"\n</script>"},
			want:   `navigator.clipboard.writeText("a \"b\"\n\u003c/script\u003e").catch(() => {})`,
		},
		{
			name:   "scroll",
			effect: site.Effect{Kind: site.EffectScroll, Payload: "results"},
			want:   `document.getElementById("results")?.scrollIntoView({behavior: 'smooth'})`,
		},
		{
			name:   "unknown",
			effect: site.Effect{Kind: site.EffectKind(99)},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectScript(tt.effect))
		})
	}
}

func TestApply_UnknownIDIsNoOp(t *testing.T) {
	f := features.SetupTestFixture(t, features.FastConfig())
	before := f.Snapshot()

	rec := httptest.NewRecorder()
	Apply(rec, f.Request(http.MethodPost, "/results/dataset/spider"), f.Registry, func(p *site.Page) error {
		return fmt.Errorf("dataset %q: %w", "spider", catalog.ErrNotFound)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="main"`)
	assert.NotContains(t, rec.Body.String(), "console.error")
	assert.Equal(t, before.Version, f.Snapshot().Version)
}
