package disclosure

import "github.com/vango-dev/floatkit/pkg/dom"

// State is the lifecycle phase of a widget instance.
type State uint8

const (
	// StateClosed: open is false and nothing is installed.
	StateClosed State = iota
	// StateOpening: open is true but no popper is installed yet, either
	// because no trigger is bound or the install tick has not run.
	StateOpening
	// StateOpen: open is true and a popper is installed.
	StateOpen
	// StateClosing: open is false and focus restoration is pending or a
	// popper is still being torn down.
	StateClosing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

func computeState(open, installed, closing, headless bool) State {
	switch {
	case open && (installed || headless):
		return StateOpen
	case open:
		return StateOpening
	case closing || installed:
		return StateClosing
	default:
		return StateClosed
	}
}

// DeriveVisible combines the inputs that decide whether content renders.
// Content is visible when forced, or when it is open and anchored to a
// trigger. Requiring a trigger keeps a programmatic open that happens before
// any trigger is bound from positioning against nothing.
func DeriveVisible(open bool, trigger dom.Element, forceVisible bool) bool {
	return forceVisible || (open && !dom.IsNil(trigger))
}

// DataState is the value of the data-state attribute.
func DataState(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
