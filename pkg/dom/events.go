package dom

// Event types used by floatkit.
const (
	EventClick        = "click"
	EventKeyDown      = "keydown"
	EventPointerDown  = "pointerdown"
	EventPointerEnter = "pointerenter"
	EventPointerLeave = "pointerleave"
	EventFocus        = "focus"
	EventBlur         = "blur"
)

// Key names, as reported by KeyboardEvent.key.
const (
	KeyEnter     = "Enter"
	KeySpace     = " "
	KeyEscape    = "Escape"
	KeyTab       = "Tab"
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
)

// Event is a dispatched DOM event.
type Event struct {
	// Type is the event type, e.g. "click".
	Type string

	// Key is the key name for keyboard events.
	Key string

	// Shift reports whether the shift modifier was held.
	Shift bool

	// Target is the element the event was dispatched to.
	Target Element

	// CurrentTarget is the element whose listener is running. Nil while
	// document-level listeners run.
	CurrentTarget Element

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from bubbling further.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// IsActivationKey reports whether key activates buttons (Enter or Space).
func IsActivationKey(key string) bool {
	return key == KeyEnter || key == KeySpace
}
