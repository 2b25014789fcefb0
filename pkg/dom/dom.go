package dom

// Rect is an element's border box in viewport coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Handler receives a dispatched event.
type Handler func(ev *Event)

// EventTarget is anything listeners can be attached to.
type EventTarget interface {
	// AddEventListener registers fn for events of type typ and returns a
	// function that removes it. The returned function is idempotent.
	AddEventListener(typ string, fn Handler) func()
}

// Element is a node in the host document.
type Element interface {
	EventTarget

	// ID returns the element's id attribute, or "".
	ID() string

	// Tag returns the lower-case tag name.
	Tag() string

	// Attr returns an attribute value and whether it is present.
	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	// Style returns an inline style property, or "".
	Style(prop string) string

	// SetStyle sets an inline style property. An empty value removes it.
	SetStyle(prop, value string)

	// Parent returns the parent element, or nil for detached roots.
	Parent() Element

	// Children returns the element children in document order.
	Children() []Element

	// AppendChild moves child to the end of this element's children.
	AppendChild(child Element)

	// InsertBefore moves child in front of ref. A nil ref, or one that is
	// not a child of this element, appends.
	InsertBefore(child, ref Element)

	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool

	// IsConnected reports whether the element is attached to its document.
	IsConnected() bool

	// Focus moves keyboard focus to the element.
	Focus()

	// Rect returns the element's layout box.
	Rect() Rect
}

// Document is the host document.
type Document interface {
	EventTarget

	// ElementByID returns the connected element with the given id, or nil.
	ElementByID(id string) Element

	// Body returns the body element.
	Body() Element

	// ActiveElement returns the element holding focus, or nil.
	ActiveElement() Element

	// Viewport returns the visible area of the document.
	Viewport() Rect
}

// IsNil reports whether el is nil, including a typed nil inside the interface.
func IsNil(el Element) bool {
	if el == nil {
		return true
	}
	if n, ok := el.(*Node); ok {
		return n == nil
	}
	return false
}

// Closest returns the nearest inclusive ancestor of el for which match
// returns true, or nil.
func Closest(el Element, match func(Element) bool) Element {
	for cur := el; !IsNil(cur); cur = cur.Parent() {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// HasAttr returns a matcher for Closest that checks attribute presence.
func HasAttr(name string) func(Element) bool {
	return func(el Element) bool {
		_, ok := el.Attr(name)
		return ok
	}
}
