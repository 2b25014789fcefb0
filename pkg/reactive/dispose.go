package reactive

import "sync"

// Cleanup is returned by effect functions. It is called before the effect
// re-runs and when the effect is disposed.
type Cleanup func()

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// Disposer releases a resource. A nil Disposer is never handed out by this
// package; Noop is used instead so callers can dispose unconditionally.
type Disposer func()

// Noop is the default Disposer.
func Noop() {}

// Once wraps fn so that only the first call has an effect.
// A nil fn yields Noop.
func Once(fn func()) Disposer {
	if fn == nil {
		return Noop
	}
	var once sync.Once
	return func() { once.Do(fn) }
}

// Chain returns a Disposer that calls each fn in order, exactly once.
// Nil entries are skipped.
func Chain(fns ...func()) Disposer {
	return Once(func() {
		for _, fn := range fns {
			if fn != nil {
				fn()
			}
		}
	})
}
