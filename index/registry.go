package index

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/xmlidx"
)

// Compile-time interface verification.
var _ xmlidx.Resolver = (*Registry)(nil)

// Registry maps index names to sources for one build pass. Names are
// matched case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]xmlidx.ContentSource
	names   map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]xmlidx.ContentSource),
		names:   make(map[string]string),
	}
}

// Register adds src under name. Returns ECONFLICT if the name is taken.
func (r *Registry) Register(name string, src xmlidx.ContentSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := strings.ToLower(name)
	if _, ok := r.sources[k]; ok {
		return xmlidx.Errorf(xmlidx.ECONFLICT, "index %q already registered", name)
	}
	r.sources[k] = src
	r.names[k] = name
	return nil
}

// Unregister removes name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := strings.ToLower(name)
	delete(r.sources, k)
	delete(r.names, k)
}

// Get returns the source registered under name.
func (r *Registry) Get(name string) (xmlidx.ContentSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src, ok := r.sources[strings.ToLower(name)]
	return src, ok
}

// Resolve looks key up in the named index.
func (r *Registry) Resolve(ctx context.Context, index, key string) (*xmlidx.Fragment, error) {
	src, ok := r.Get(index)
	if !ok {
		return nil, xmlidx.Errorf(xmlidx.ENOTFOUND, "unknown index %q", index)
	}
	return src.GetContent(ctx, key)
}

// Indexes returns the registered names, as registered, in sorted order.
func (r *Registry) Indexes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for _, n := range r.names {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
