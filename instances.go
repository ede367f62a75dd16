package jinhx

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// InstanceKey identifies a component instance: ids are unique per type.
type InstanceKey struct {
	Type string
	ID   string
}

func (k InstanceKey) String() string { return k.Type + "#" + k.ID }

// Instance is a registered component with its key.
type Instance struct {
	Key       InstanceKey
	Component Component
}

type instanceMap struct {
	mu      sync.Mutex
	entries map[InstanceKey]Component
	closed  bool
}

func newInstanceMap() *instanceMap {
	return &instanceMap{entries: make(map[InstanceKey]Component)}
}

// InstanceRegistry holds component instances by (type, id).
//
// Outside any scope, instances live in a process-lifetime map. Scope opens
// a fresh map bound to a context; everything resolved through that
// context, including nested renders, sees only that map. Scopes do not
// inherit: an inner scope shadows the outer one and the global map.
type InstanceRegistry struct {
	global *instanceMap
	logger *slog.Logger
}

type scopeKey struct{ reg *InstanceRegistry }

// NewInstanceRegistry creates an instance registry. A nil logger uses
// slog.Default().
func NewInstanceRegistry(logger *slog.Logger) *InstanceRegistry {
	return &InstanceRegistry{global: newInstanceMap(), logger: logger}
}

// DefaultInstances is the process-wide instance registry used by New and
// the default renderer.
var DefaultInstances = NewInstanceRegistry(nil)

func (reg *InstanceRegistry) log() *slog.Logger {
	if reg.logger != nil {
		return reg.logger
	}
	return slog.Default()
}

func (reg *InstanceRegistry) current(ctx context.Context) *instanceMap {
	if ctx != nil {
		if m, ok := ctx.Value(scopeKey{reg}).(*instanceMap); ok {
			return m
		}
	}
	return reg.global
}

// Scope returns a context carrying a fresh, empty instance map and a
// function that ends the scope. After end, the map is discarded and
// registrations through the returned context are dropped.
//
//	ctx, end := reg.Scope(r.Context())
//	defer end()
func (reg *InstanceRegistry) Scope(ctx context.Context) (context.Context, func()) {
	m := newInstanceMap()
	end := func() {
		m.mu.Lock()
		m.closed = true
		clear(m.entries)
		m.mu.Unlock()
	}
	return context.WithValue(ctx, scopeKey{reg}, m), end
}

// WithScope runs fn inside a new scope and ends it when fn returns, even
// on panic.
func (reg *InstanceRegistry) WithScope(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, end := reg.Scope(ctx)
	defer end()
	return fn(ctx)
}

// InScope reports whether ctx carries a scope of this registry.
func (reg *InstanceRegistry) InScope(ctx context.Context) bool {
	return reg.current(ctx) != reg.global
}

// Register stores c under (typ, id). Replacing a different instance logs
// a warning.
func (reg *InstanceRegistry) Register(ctx context.Context, typ, id string, c Component) {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		reg.log().Warn("jinhx: registration after scope ended", "type", typ, "id", id)
		return
	}
	key := InstanceKey{Type: typ, ID: id}
	if prev, ok := m.entries[key]; ok && prev != c {
		reg.log().Warn("jinhx: component instance overwritten", "type", typ, "id", id)
	}
	m.entries[key] = c
}

// Get returns the instance registered under (typ, id).
func (reg *InstanceRegistry) Get(ctx context.Context, typ, id string) (Component, bool) {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[InstanceKey{Type: typ, ID: id}]
	return c, ok
}

// LookupID returns every instance with the given id, ordered by type.
func (reg *InstanceRegistry) LookupID(ctx context.Context, id string) []Instance {
	m := reg.current(ctx)
	m.mu.Lock()
	var out []Instance
	for k, c := range m.entries {
		if k.ID == id {
			out = append(out, Instance{Key: k, Component: c})
		}
	}
	m.mu.Unlock()
	slices.SortFunc(out, func(a, b Instance) int {
		return strings.Compare(a.Key.Type, b.Key.Type)
	})
	return out
}

// Instances returns the visible instances by id. Ids shared by more than
// one type are omitted; use Entries to see them.
func (reg *InstanceRegistry) Instances(ctx context.Context) map[string]Component {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Component, len(m.entries))
	shared := make(map[string]bool)
	for k, c := range m.entries {
		if _, dup := out[k.ID]; dup || shared[k.ID] {
			delete(out, k.ID)
			shared[k.ID] = true
			continue
		}
		out[k.ID] = c
	}
	return out
}

// Entries returns a snapshot of the visible instances by key.
func (reg *InstanceRegistry) Entries(ctx context.Context) map[InstanceKey]Component {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.entries)
}

// Len returns the number of visible instances.
func (reg *InstanceRegistry) Len(ctx context.Context) int {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear removes every visible instance.
func (reg *InstanceRegistry) Clear(ctx context.Context) {
	m := reg.current(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}
