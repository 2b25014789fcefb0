package popper

import "github.com/vango-dev/floatkit/pkg/dom"

// focusables returns the tabbable descendants of root in document order.
func focusables(root dom.Element) []dom.Element {
	var out []dom.Element
	var walk func(el dom.Element)
	walk = func(el dom.Element) {
		for _, c := range el.Children() {
			if dom.IsFocusable(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// trapFocus moves focus into node and keeps Tab / Shift+Tab cycling within
// it. The returned function removes the trap; focus is left where it is.
func trapFocus(doc dom.Document, node dom.Element, cfg *FocusTrapConfig) func() {
	initial := cfg.InitialFocus
	if dom.IsNil(initial) {
		if items := focusables(node); len(items) > 0 {
			initial = items[0]
		} else {
			initial = node
		}
	}
	initial.Focus()

	return node.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Key != dom.KeyTab {
			return
		}
		ev.PreventDefault()

		items := focusables(node)
		if len(items) == 0 {
			node.Focus()
			return
		}

		idx := -1
		active := doc.ActiveElement()
		for i, item := range items {
			if item == active {
				idx = i
				break
			}
		}

		var next int
		switch {
		case idx < 0 && ev.Shift:
			next = len(items) - 1
		case idx < 0:
			next = 0
		case ev.Shift:
			next = (idx - 1 + len(items)) % len(items)
		default:
			next = (idx + 1) % len(items)
		}
		items[next].Focus()
	})
}
