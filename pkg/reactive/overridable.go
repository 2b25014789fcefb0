package reactive

// ChangeArgs is passed to a ChangeFn before a value is committed.
type ChangeArgs[T any] struct {
	Curr T
	Next T
}

// ChangeFn intercepts a pending change. The returned value is what actually
// gets committed, so returning args.Curr vetoes the change.
type ChangeFn[T any] func(args ChangeArgs[T]) T

// overridable forwards reads to an underlying store and routes every write
// through an optional ChangeFn.
type overridable[T any] struct {
	store    Writable[T]
	onChange ChangeFn[T]
}

// Overridable wraps store so that every Set and Update first passes through
// onChange. With a nil onChange the store is returned unchanged.
//
// The wrapped store may be owned by the caller (controlled usage) or created
// internally with a default value (uncontrolled usage); the consumer of the
// returned Writable cannot tell which.
func Overridable[T any](store Writable[T], onChange ChangeFn[T]) Writable[T] {
	if onChange == nil {
		return store
	}
	return &overridable[T]{store: store, onChange: onChange}
}

// ControlledOrDefault returns external if it is non-nil, otherwise a new
// internally owned signal holding def.
func ControlledOrDefault[T any](external Writable[T], def T) Writable[T] {
	if external != nil {
		return external
	}
	return NewSignal(def)
}

func (o *overridable[T]) Get() T {
	return o.store.Get()
}

func (o *overridable[T]) Observe(fn func()) Unsubscribe {
	return o.store.Observe(fn)
}

func (o *overridable[T]) Subscribe(fn func(T)) Unsubscribe {
	return o.store.Subscribe(fn)
}

func (o *overridable[T]) Set(value T) {
	o.store.Set(o.onChange(ChangeArgs[T]{Curr: o.store.Get(), Next: value}))
}

func (o *overridable[T]) Update(fn func(T) T) {
	curr := o.store.Get()
	o.store.Set(o.onChange(ChangeArgs[T]{Curr: curr, Next: fn(curr)}))
}
