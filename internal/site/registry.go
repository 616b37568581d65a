package site

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/weaver-tableqa/weaversite/internal/catalog"
)

// DefaultIdleTimeout is how long an instance without requests or open
// update streams is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Registry owns the instances, keyed by visitor ID.
type Registry struct {
	cat    *catalog.Catalog
	cfg    Config
	idle   time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	instances map[string]*Instance
	closed    bool
}

// NewRegistry creates an empty registry.
func NewRegistry(cat *catalog.Catalog, cfg Config, idle time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		cat:       cat,
		cfg:       cfg,
		idle:      idle,
		logger:    logger,
		now:       time.Now,
		instances: make(map[string]*Instance),
	}
}

// Catalog returns the content the instances are built from.
func (r *Registry) Catalog() *catalog.Catalog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cat
}

// Reload swaps the catalog and drops every instance so that visitors are
// rebuilt from the new content on their next request.
func (r *Registry) Reload(cat *catalog.Catalog) {
	r.mu.Lock()
	r.cat = cat
	insts := r.drainLocked()
	r.mu.Unlock()

	for _, inst := range insts {
		inst.close()
	}
	r.logger.Info("catalog reloaded", "dropped", len(insts))
}

// Get returns the instance for a visitor, creating it on first use.
func (r *Registry) Get(id string) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if inst, ok := r.instances[id]; ok {
		inst.touch()
		return inst, nil
	}
	inst, err := newInstance(id, r.cat, r.cfg, r.logger, r.now)
	if err != nil {
		return nil, err
	}
	r.instances[id] = inst
	r.logger.Debug("created ui instance", "visitor", id, "instances", len(r.instances))
	return inst, nil
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// Sweep tears down instances idle for longer than the idle timeout and
// without open update streams. It returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	var stale []*Instance

	r.mu.Lock()
	for id, inst := range r.instances {
		if inst.notifier.Len() > 0 || inst.idleSince(now) < r.idle {
			continue
		}
		stale = append(stale, inst)
		delete(r.instances, id)
	}
	r.mu.Unlock()

	for _, inst := range stale {
		inst.close()
		r.logger.Debug("evicted idle ui instance", "visitor", inst.id)
	}
	return len(stale)
}

// Run sweeps periodically until ctx is cancelled, then closes the registry.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("evicted idle visitors", "count", n)
			}
		}
	}
}

// Close tears down every instance. Later Get calls fail.
func (r *Registry) Close() {
	r.mu.Lock()
	insts := r.drainLocked()
	r.closed = true
	r.mu.Unlock()

	for _, inst := range insts {
		inst.close()
	}
}

func (r *Registry) drainLocked() []*Instance {
	insts := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		insts = append(insts, inst)
	}
	r.instances = make(map[string]*Instance)
	return insts
}
