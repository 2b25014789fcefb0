package popper

import (
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// Options is the behaviour bundle for one popper instance.
// A nil feature config disables that feature.
type Options struct {
	Floating      FloatingConfig
	FocusTrap     *FocusTrapConfig
	ClickOutside  *ClickOutsideConfig
	EscapeKeydown *EscapeKeydownConfig

	// Portal is the relocation destination, already resolved. Nil leaves the
	// content in place.
	Portal dom.Element
}

// Args are the inputs of Factory.Use.
type Args struct {
	Anchor  dom.Element
	Open    reactive.Writable[bool]
	Options Options
}

// Factory constructs popper instances. Use returns the instance's disposer;
// it is called exactly once by the disclosure controller before any
// replacement is constructed.
type Factory interface {
	Use(node dom.Element, args Args) reactive.Disposer
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(node dom.Element, args Args) reactive.Disposer

// Use implements Factory.
func (f FactoryFunc) Use(node dom.Element, args Args) reactive.Disposer {
	return f(node, args)
}
