package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect represents a side effect that runs once on creation and again
// whenever one of its dependencies changes. The Cleanup returned by a run is
// called before the next run and when the effect is disposed.
//
// A dependency change that happens while the effect body is running does not
// re-enter the body; it marks the effect pending and the body runs again
// right after the current run returns.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup
	unsubs  []Unsubscribe

	mu      sync.Mutex
	running bool
	pending bool

	runs     atomic.Int64
	disposed atomic.Bool
}

// CreateEffect creates and immediately runs an effect over deps.
// If an Owner is supplied through OwnedBy the effect is disposed with it.
//
// Example:
//
//	e := CreateEffect(func() Cleanup {
//	    if !open.Get() {
//	        return nil
//	    }
//	    release := locks.Lock()
//	    return Cleanup(release)
//	}, open)
func CreateEffect(fn func() Cleanup, deps ...Observable) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	for _, dep := range deps {
		e.unsubs = append(e.unsubs, dep.Observe(e.MarkDirty))
	}
	e.MarkDirty()
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return int(e.runs.Load())
}

// MarkDirty schedules a run. Runs are synchronous unless the body is
// already executing, in which case one more run is queued.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	e.mu.Lock()
	if e.running {
		e.pending = true
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.run()
}

// run executes the body until no further runs are pending.
func (e *Effect) run() {
	for {
		e.mu.Lock()
		e.pending = false
		cleanup := e.cleanup
		e.cleanup = nil
		e.mu.Unlock()

		if cleanup != nil {
			cleanup()
		}

		if e.disposed.Load() {
			break
		}

		next := e.fn()
		e.runs.Add(1)

		e.mu.Lock()
		e.cleanup = next
		again := e.pending && !e.disposed.Load()
		e.mu.Unlock()

		if !again {
			break
		}
	}

	e.mu.Lock()
	e.running = false
	var late Cleanup
	if e.disposed.Load() {
		// Disposed from inside the body: the cleanup of that run is ours.
		late = e.cleanup
		e.cleanup = nil
	}
	e.mu.Unlock()

	if late != nil {
		late()
	}
}

// Dispose unsubscribes from all dependencies and runs the last cleanup.
// Calling Dispose more than once is a no-op.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	var cleanup Cleanup
	if !e.running {
		cleanup = e.cleanup
		e.cleanup = nil
	}
	e.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	if cleanup != nil {
		cleanup()
	}
}

// IsDisposed reports whether Dispose has been called.
func (e *Effect) IsDisposed() bool {
	return e.disposed.Load()
}
