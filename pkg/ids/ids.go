// Package ids hands out element ids for widget instances.
//
// Every widget needs a trigger id and a content id to cross-link ARIA
// attributes and to find its trigger again after a remount. The Registry
// guarantees ids are unique among live instances and lets an instance give
// its ids back when it is destroyed.
package ids

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Pair is the id pair of one widget instance.
type Pair struct {
	Trigger string
	Content string
}

// Registry generates and tracks ids.
type Registry struct {
	mu     sync.Mutex
	live   map[string]struct{}
	prefix string
	gen    func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrefix prefixes every generated id, e.g. "melt".
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// WithGenerator replaces the random suffix source. Used in tests to force
// collisions and deterministic output.
func WithGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.gen = gen
	}
}

// NewRegistry creates a registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		live: make(map[string]struct{}),
		gen:  randomSuffix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// randomSuffix returns ten hex characters of a random UUID.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// Generate returns a new id that is not currently live.
func (r *Registry) Generate() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := r.gen()
		if r.prefix != "" {
			id = r.prefix + "-" + id
		}
		if _, taken := r.live[id]; taken {
			continue
		}
		r.live[id] = struct{}{}
		return id
	}
}

// Pair generates a trigger id and a content id.
func (r *Registry) Pair() Pair {
	return Pair{
		Trigger: r.Generate(),
		Content: r.Generate(),
	}
}

// Release returns ids to the registry. Unknown ids are ignored.
func (r *Registry) Release(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.live, id)
	}
}

// ReleasePair releases both ids of p.
func (r *Registry) ReleasePair(p Pair) {
	r.Release(p.Trigger, p.Content)
}

// Live returns the number of ids currently handed out.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Generate returns a new id from the default registry.
func Generate() string {
	return defaultRegistry.Generate()
}
