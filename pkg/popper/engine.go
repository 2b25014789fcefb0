package popper

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// Engine is the default Factory.
type Engine struct {
	doc    dom.Document
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine for doc.
func New(doc dom.Document, opts ...EngineOption) *Engine {
	e := &Engine{
		doc:    doc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Factory = (*Engine)(nil)

// Use implements Factory. Features are installed in the order portal,
// position, escape, outside click, focus trap, and torn down in reverse.
func (e *Engine) Use(node dom.Element, args Args) reactive.Disposer {
	if e.doc == nil || dom.IsNil(node) || dom.IsNil(args.Anchor) {
		return reactive.Noop
	}
	opts := args.Options
	var undo []func()

	if dest := opts.Portal; !dom.IsNil(dest) {
		undo = append(undo, relocate(node, dest))
	}

	e.place(node, args.Anchor, opts.Floating)

	if esc := opts.EscapeKeydown; esc != nil {
		handler := orClose(esc.Handler, args.Open)
		undo = append(undo, e.doc.AddEventListener(dom.EventKeyDown, func(ev *dom.Event) {
			if ev.Key != dom.KeyEscape || ev.DefaultPrevented() {
				return
			}
			handler(ev)
		}))
	}

	if outside := opts.ClickOutside; outside != nil {
		handler := orClose(outside.Handler, args.Open)
		anchor := args.Anchor
		undo = append(undo, e.doc.AddEventListener(dom.EventPointerDown, func(ev *dom.Event) {
			if dom.IsNil(ev.Target) || node.Contains(ev.Target) || anchor.Contains(ev.Target) {
				return
			}
			if outside.Ignore != nil && outside.Ignore(ev.Target) {
				return
			}
			handler(ev)
		}))
	}

	if trap := opts.FocusTrap; trap != nil {
		undo = append(undo, trapFocus(e.doc, node, trap))
	}

	return reactive.Once(func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	})
}

// place writes the computed position onto node.
func (e *Engine) place(node, anchor dom.Element, cfg FloatingConfig) {
	cfg = cfg.Defaults()
	pos := Compute(anchor.Rect(), node.Rect(), e.doc.Viewport(), cfg)

	node.SetStyle("position", string(cfg.Strategy))
	node.SetStyle("left", px(pos.X))
	node.SetStyle("top", px(pos.Y))
	if pos.Width > 0 {
		node.SetStyle("width", px(pos.Width))
	}
	node.SetAttr("data-side", string(pos.Placement.Side()))
	if align := pos.Placement.Align(); align != AlignCenter {
		node.SetAttr("data-align", string(align))
	} else {
		node.RemoveAttr("data-align")
	}

	e.logger.Debug("popper placed",
		slog.String("placement", string(pos.Placement)),
		slog.Float64("x", pos.X),
		slog.Float64("y", pos.Y))
}

// relocate moves node into dest and returns a function that moves it back
// to its original place, if it is still inside dest.
func relocate(node, dest dom.Element) func() {
	origin := node.Parent()
	if dom.IsNil(origin) || origin == dest || node.Contains(dest) {
		return func() {}
	}
	next := nextSibling(origin, node)
	dest.AppendChild(node)
	return func() {
		if node.Parent() == dest {
			origin.InsertBefore(node, next)
		}
	}
}

// nextSibling returns the child of parent following node, or nil.
func nextSibling(parent, node dom.Element) dom.Element {
	children := parent.Children()
	for i, c := range children {
		if c == node && i+1 < len(children) {
			return children[i+1]
		}
	}
	return nil
}

func orClose(h Handler, open reactive.Writable[bool]) Handler {
	if h != nil {
		return h
	}
	return func(*dom.Event) {
		if open != nil {
			open.Set(false)
		}
	}
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}
