package reactive

import (
	"reflect"
	"sync"
)

// subscriber is a single registered callback.
type subscriber struct {
	id uint64
	fn func()
}

// subscribers provides type-erased subscriber management.
// It is embedded in Signal[T] and Memo[T] to share subscription logic.
type subscribers struct {
	subs []subscriber
	mu   sync.RWMutex
}

// add registers fn and returns a function that removes it again.
func (s *subscribers) add(fn func()) Unsubscribe {
	id := nextID()

	s.mu.Lock()
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return Unsubscribe(Once(func() { s.remove(id) }))
}

// remove drops the subscriber with the given id.
// Order is preserved so notification follows subscription order.
func (s *subscribers) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// count returns the number of live subscribers.
func (s *subscribers) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// notify calls every subscriber, or queues them while a batch is open.
// Uses copy-before-notify to avoid holding the lock during callbacks.
func (s *subscribers) notify() {
	s.mu.RLock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	if queuePending(subs) {
		return
	}
	for _, sub := range subs {
		sub.fn()
	}
}

// Signal is a writable reactive value container.
// Setting a value equal to the current one does not notify.
type Signal[T any] struct {
	id    uint64
	subs  subscribers
	value T
	mu    sync.RWMutex

	// equal decides whether a Set changes the value.
	// If nil, defaultEquals is used.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek is an alias of Get kept for readability at call sites that
// deliberately read without reacting.
func (s *Signal[T]) Peek() T {
	return s.Get()
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.subs.notify()
	}
}

// Update atomically reads and replaces the value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	old := s.value
	next := fn(old)
	changed := !s.equals(old, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.subs.notify()
	}
}

// Observe implements Observable.
func (s *Signal[T]) Observe(fn func()) Unsubscribe {
	return s.subs.add(fn)
}

// Subscribe implements Readable.
func (s *Signal[T]) Subscribe(fn func(T)) Unsubscribe {
	return s.subs.add(func() { fn(s.Get()) })
}

// Subscribers returns the number of live subscriptions.
func (s *Signal[T]) Subscribers() int {
	return s.subs.count()
}

// WithEquals configures a custom equality function and returns the signal.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals uses == for comparable dynamic types and falls back to
// reflect.DeepEqual otherwise. Pointers and interfaces holding pointers are
// therefore compared by identity, which is what element references need.
func defaultEquals[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == nil && bv == nil
	}
	ta, tb := reflect.TypeOf(av), reflect.TypeOf(bv)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return av == bv
	}
	return reflect.DeepEqual(av, bv)
}
