package reactive

// Observable is anything an Effect or Memo can depend on.
type Observable interface {
	// Observe registers fn to be called after every change.
	Observe(fn func()) Unsubscribe
}

// Readable is a value cell that can be read and subscribed to.
type Readable[T any] interface {
	Observable

	// Get returns the current value.
	Get() T

	// Subscribe registers fn to receive the new value after every change.
	// It is not called with the current value.
	Subscribe(fn func(T)) Unsubscribe
}

// Writable is a Readable that can be mutated.
type Writable[T any] interface {
	Readable[T]
	Set(value T)
	Update(fn func(T) T)
}
