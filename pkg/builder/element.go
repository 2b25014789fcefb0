package builder

import (
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// Action attaches behaviour to a node and returns its disposer.
type Action func(node dom.Element) reactive.Disposer

// Element is a builder element: a named attribute record and an optional
// action.
type Element[A Attrs] struct {
	name   string
	attrs  reactive.Readable[A]
	action Action
}

// New creates an element. A nil action only applies attributes.
func New[A Attrs](name string, attrs reactive.Readable[A], action Action) *Element[A] {
	return &Element[A]{name: name, attrs: attrs, action: action}
}

// Static returns a reactive record that never changes.
func Static[A Attrs](attrs A) reactive.Readable[A] {
	return reactive.NewSignal(attrs)
}

// Name returns the element name, e.g. "popover-trigger".
func (e *Element[A]) Name() string { return e.name }

// Attrs returns the current typed attribute record.
func (e *Element[A]) Attrs() A { return e.attrs.Get() }

// Record returns the reactive attribute record.
func (e *Element[A]) Record() reactive.Readable[A] { return e.attrs }

// Attributes returns the current rendered attributes, marker first.
func (e *Element[A]) Attributes() Set {
	set := e.attrs.Get().Attributes()
	out := Set{Style: set.Style}
	out.Add(MarkerAttr(e.name), "")
	out.Attrs = append(out.Attrs, set.Attrs...)
	return out
}

// Use applies the attributes to node, re-applies them on every change and
// runs the action. The returned disposer runs the action's disposer and
// then stops attribute updates. It is idempotent.
func (e *Element[A]) Use(node dom.Element) reactive.Disposer {
	if dom.IsNil(node) {
		return reactive.Noop
	}

	b := &binding{node: node}
	b.apply(e.Attributes())
	unsub := e.attrs.Observe(func() { b.apply(e.Attributes()) })

	release := reactive.Noop
	if e.action != nil {
		if d := e.action(node); d != nil {
			release = d
		}
	}
	return reactive.Chain(release, unsub)
}

// binding remembers what was applied to one node so stale attributes and
// style properties can be removed.
type binding struct {
	node  dom.Element
	attrs map[string]struct{}
	style map[string]struct{}
}

func (b *binding) apply(set Set) {
	attrs := make(map[string]struct{}, len(set.Attrs))
	for _, a := range set.Attrs {
		attrs[a.Name] = struct{}{}
		if cur, ok := b.node.Attr(a.Name); !ok || cur != a.Value {
			b.node.SetAttr(a.Name, a.Value)
		}
	}
	for name := range b.attrs {
		if _, ok := attrs[name]; !ok {
			b.node.RemoveAttr(name)
		}
	}
	b.attrs = attrs

	style := make(map[string]struct{}, len(set.Style))
	for _, d := range set.Style {
		if d.Value == "" {
			continue
		}
		style[d.Prop] = struct{}{}
		b.node.SetStyle(d.Prop, d.Value)
	}
	for prop := range b.style {
		if _, ok := style[prop]; !ok {
			b.node.SetStyle(prop, "")
		}
	}
	b.style = style
}
