// Package common holds the request plumbing shared by the UI features.
package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
	"github.com/weaver-tableqa/weaversite/internal/eventloop"
	"github.com/weaver-tableqa/weaversite/internal/site"
	"github.com/weaver-tableqa/weaversite/internal/ui/components"
	"github.com/weaver-tableqa/weaversite/internal/ui/visitor"
)

// Action mutates a visitor's page. Unknown IDs are reported with an error
// wrapping catalog.ErrNotFound and leave the page untouched.
type Action func(p *site.Page) error

// Instance returns the UI instance of the requesting visitor.
func Instance(reg *site.Registry, r *http.Request) (*site.Instance, error) {
	return reg.Get(visitor.FromContext(r.Context()))
}

// Do runs fn on the requesting visitor's page. An instance evicted between
// lookup and use is recreated once.
func Do(reg *site.Registry, r *http.Request, fn func(p *site.Page)) error {
	for range 2 {
		inst, err := Instance(reg, r)
		if err != nil {
			return err
		}
		err = inst.Do(r.Context(), fn)
		if !errors.Is(err, eventloop.ErrClosed) {
			return err
		}
	}
	return eventloop.ErrClosed
}

// Apply runs an action and answers with the re-rendered main element
// followed by any host effects the action queued. An unknown ID is a no-op:
// the visitor gets the unchanged main element back.
func Apply(w http.ResponseWriter, r *http.Request, reg *site.Registry, action Action) {
	var (
		actErr  error
		effects []site.Effect
		snap    site.Snapshot
	)
	err := Do(reg, r, func(p *site.Page) {
		actErr = action(p)
		effects = p.DrainEffects()
		snap = p.Snapshot()
	})
	if err != nil {
		http.Error(w, "visitor session unavailable", http.StatusServiceUnavailable)
		return
	}
	if errors.Is(actErr, catalog.ErrNotFound) {
		actErr = nil
	}

	sse := datastar.NewSSE(w, r)
	if actErr != nil {
		_ = sse.ConsoleError(actErr)
		return
	}
	if err := sse.PatchElementTempl(components.Main(snap)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	for _, e := range effects {
		if err := sse.ExecuteScript(EffectScript(e)); err != nil {
			_ = sse.ConsoleError(err)
			return
		}
	}
}

// EffectScript is the browser code performing a host effect. Clipboard
// failures are swallowed; copying is best effort.
func EffectScript(e site.Effect) string {
	lit, _ := json.Marshal(e.Payload)
	switch e.Kind {
	case site.EffectCopy:
		return "navigator.clipboard.writeText(" + string(lit) + ").catch(() => {})"
	case site.EffectScroll:
		return "document.getElementById(" + string(lit) + ")?.scrollIntoView({behavior: 'smooth'})"
	default:
		return ""
	}
}
