// Package reactive provides the value cells that floatkit builders are made of.
//
// Unlike a tracking reactive runtime, every derivation here names its
// dependencies explicitly. This keeps subscription and cleanup ordering
// visible at the call site, which is what the disclosure controller relies on.
//
// # Core Types
//
// Signal[T] is a writable value cell:
//
//	open := NewSignal(false)
//	open.Set(true)
//	open.Update(func(v bool) bool { return !v })
//
// Memo[T] is a cached derivation over explicit dependencies:
//
//	visible := NewMemo(func() bool { return open.Get() && trigger.Get() != nil }, open, trigger)
//
// Effect re-runs a function whenever one of its dependencies changes. The
// Cleanup returned by the previous run is always called first:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("open:", open.Get())
//	    return func() { /* undo */ }
//	}, open)
//	defer e.Dispose()
//
// # Batching
//
// Batch defers notifications until the outermost batch returns; each
// subscriber is notified at most once per batch.
//
// # Disposal
//
// Disposer is a func with a safe no-op default (Noop). Once makes any
// disposer idempotent and Chain runs several in order.
package reactive
