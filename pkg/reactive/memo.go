package reactive

import "sync"

// Memo is a cached derivation over an explicit list of dependencies.
// It recomputes eagerly when a dependency changes and only notifies its own
// subscribers when the computed value differs from the cached one.
type Memo[T any] struct {
	id      uint64
	subs    subscribers
	compute func() T
	value   T
	mu      sync.RWMutex
	unsubs  []Unsubscribe
	equal   func(T, T) bool
}

// NewMemo creates a memo and computes its initial value.
//
// Example:
//
//	state := NewMemo(func() string {
//	    if open.Get() {
//	        return "open"
//	    }
//	    return "closed"
//	}, open)
func NewMemo[T any](compute func() T, deps ...Observable) *Memo[T] {
	m := &Memo[T]{
		id:      nextID(),
		compute: compute,
		value:   compute(),
	}
	for _, dep := range deps {
		m.unsubs = append(m.unsubs, dep.Observe(m.recompute))
	}
	return m
}

// WithEquals configures a custom equality function and returns the memo.
func (m *Memo[T]) WithEquals(fn func(T, T) bool) *Memo[T] {
	m.equal = fn
	return m
}

func (m *Memo[T]) recompute() {
	next := m.compute()

	m.mu.Lock()
	var changed bool
	if m.equal != nil {
		changed = !m.equal(m.value, next)
	} else {
		changed = !defaultEquals(m.value, next)
	}
	if changed {
		m.value = next
	}
	m.mu.Unlock()

	if changed {
		m.subs.notify()
	}
}

// Get returns the cached value.
func (m *Memo[T]) Get() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Observe implements Observable.
func (m *Memo[T]) Observe(fn func()) Unsubscribe {
	return m.subs.add(fn)
}

// Subscribe implements Readable.
func (m *Memo[T]) Subscribe(fn func(T)) Unsubscribe {
	return m.subs.add(func() { fn(m.Get()) })
}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.id
}

// Dispose detaches the memo from its dependencies.
// The last computed value stays readable.
func (m *Memo[T]) Dispose() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}
