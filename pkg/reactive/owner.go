package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Effects, memos and plain cleanup functions
// registered with an Owner are released together, in reverse registration
// order, when the Owner is disposed.
type Owner struct {
	id       uint64
	cleanups []func()
	mu       sync.Mutex
	disposed atomic.Bool
}

// NewOwner creates an empty scope.
func NewOwner() *Owner {
	return &Owner{id: nextID()}
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 {
	return o.id
}

// OnCleanup registers fn to run when the Owner is disposed.
// If the Owner is already disposed, fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	if fn == nil {
		return
	}
	if o.disposed.Load() {
		fn()
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.cleanups = append(o.cleanups, fn)
}

// Effect creates an effect owned by this scope.
func (o *Owner) Effect(fn func() Cleanup, deps ...Observable) *Effect {
	e := CreateEffect(fn, deps...)
	o.OnCleanup(e.Dispose)
	return e
}

// IsDisposed returns true if this Owner has been disposed.
func (o *Owner) IsDisposed() bool {
	return o.disposed.Load()
}

// Dispose runs every registered cleanup in reverse order.
// Calling Dispose more than once is a no-op.
func (o *Owner) Dispose() {
	if o.disposed.Swap(true) {
		return
	}

	o.mu.Lock()
	cleanups := o.cleanups
	o.cleanups = nil
	o.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
