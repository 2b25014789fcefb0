// Package popover builds an accessible popover: a trigger button that
// toggles a floating dialog-like content panel.
package popover

import (
	"github.com/vango-dev/floatkit/pkg/builder"
	"github.com/vango-dev/floatkit/pkg/disclosure"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// Popover is the result of New.
type Popover struct {
	Elements Elements
	States   States
	Options  Options

	ctrl *disclosure.Controller
}

// Elements are the builder elements of a popover.
type Elements struct {
	Trigger *builder.Element[TriggerAttrs]
	Content *builder.Element[ContentAttrs]
	Arrow   *builder.Element[ArrowAttrs]
	Close   *builder.Element[CloseAttrs]
}

// States exposes the popover's state containers.
type States struct {
	Open reactive.Writable[bool]
}

// Options are the runtime-changeable settings.
type Options struct {
	disclosure.Options
	ArrowSize *reactive.Signal[int]
}

// New creates a popover. Call Destroy when it unmounts.
func New(opts ...Option) *Popover {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := disclosure.New(cfg.disclosure)
	p := &Popover{
		ctrl: c,
		States: States{
			Open: c.Open(),
		},
		Options: Options{
			Options:   c.Options(),
			ArrowSize: reactive.NewSignal(cfg.arrowSize),
		},
	}

	p.Elements = Elements{
		Trigger: builder.New(name("trigger"), p.triggerAttrs(), p.triggerAction),
		Content: builder.New(name("content"), p.contentAttrs(), c.MountContent),
		Arrow:   builder.New(name("arrow"), p.arrowAttrs(), nil),
		Close:   builder.New(name("close"), builder.Static(CloseAttrs{Type: "button"}), p.closeAction),
	}
	return p
}

func name(part string) string {
	return "popover-" + part
}

// Controller returns the underlying disclosure controller.
func (p *Popover) Controller() *disclosure.Controller { return p.ctrl }

// IDs returns the trigger and content ids.
func (p *Popover) IDs() ids.Pair { return p.ctrl.IDs() }

// Destroy releases the popover and everything mounted from it.
func (p *Popover) Destroy() { p.ctrl.Destroy() }

func (p *Popover) memo(m interface{ Dispose() }) {
	p.ctrl.OnDestroy(m.Dispose)
}

func (p *Popover) triggerAttrs() reactive.Readable[TriggerAttrs] {
	c := p.ctrl
	m := reactive.NewMemo(func() TriggerAttrs {
		open := c.Open().Get()
		return TriggerAttrs{
			Role:         "button",
			AriaHasPopup: "dialog",
			AriaExpanded: open,
			DataState:    disclosure.DataState(open),
			AriaControls: c.IDs().Content,
			ID:           c.IDs().Trigger,
		}
	}, c.Open())
	p.memo(m)
	return m
}

func (p *Popover) contentAttrs() reactive.Readable[ContentAttrs] {
	c := p.ctrl
	headless := c.Document() == nil
	m := reactive.NewMemo(func() ContentAttrs {
		visible := c.Visible().Get()
		display := ""
		if !visible {
			display = "none"
		}
		return ContentAttrs{
			Hidden:     !visible || headless,
			TabIndex:   -1,
			Display:    display,
			ID:         c.IDs().Content,
			DataState:  disclosure.DataState(visible),
			DataPortal: p.Options.Portal.Get().Explicit(),
		}
	}, c.Visible(), p.Options.Portal)
	p.memo(m)
	return m
}

func (p *Popover) arrowAttrs() reactive.Readable[ArrowAttrs] {
	size := p.Options.ArrowSize
	m := reactive.NewMemo(func() ArrowAttrs {
		return ArrowAttrs{DataArrow: true, Size: size.Get()}
	}, size)
	p.memo(m)
	return m
}

func (p *Popover) triggerAction(node dom.Element) reactive.Disposer {
	c := p.ctrl
	return reactive.Chain(
		node.AddEventListener(dom.EventClick, func(*dom.Event) {
			c.Activate(node)
		}),
		node.AddEventListener(dom.EventKeyDown, func(e *dom.Event) {
			if !dom.IsActivationKey(e.Key) {
				return
			}
			e.PreventDefault()
			c.Activate(node)
		}),
	)
}

func (p *Popover) closeAction(node dom.Element) reactive.Disposer {
	c := p.ctrl
	return reactive.Chain(
		node.AddEventListener(dom.EventClick, func(*dom.Event) {
			c.Close()
		}),
		node.AddEventListener(dom.EventKeyDown, func(e *dom.Event) {
			if !dom.IsActivationKey(e.Key) {
				return
			}
			e.PreventDefault()
			c.Toggle()
		}),
	)
}
