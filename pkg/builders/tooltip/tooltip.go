// Package tooltip builds a tooltip: content describing a trigger, shown
// after the pointer rests on the trigger or immediately when it receives
// keyboard focus.
package tooltip

import (
	"sync"
	"time"

	"github.com/vango-dev/floatkit/pkg/builder"
	"github.com/vango-dev/floatkit/pkg/builders/popover"
	"github.com/vango-dev/floatkit/pkg/disclosure"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
)

// Tooltip is the result of New.
type Tooltip struct {
	Elements Elements
	States   States
	Options  Options

	ctrl  *disclosure.Controller
	clock schedule.Clock

	mu      sync.Mutex
	pending schedule.Timer
	pressed bool
}

// Elements are the builder elements of a tooltip.
type Elements struct {
	Trigger *builder.Element[TriggerAttrs]
	Content *builder.Element[ContentAttrs]
	Arrow   *builder.Element[popover.ArrowAttrs]
}

// States exposes the tooltip's state containers.
type States struct {
	Open reactive.Writable[bool]
}

// Options are the runtime-changeable settings.
type Options struct {
	disclosure.Options
	ArrowSize          *reactive.Signal[int]
	OpenDelay          *reactive.Signal[time.Duration]
	CloseDelay         *reactive.Signal[time.Duration]
	CloseOnPointerDown *reactive.Signal[bool]
}

// New creates a tooltip. Call Destroy when it unmounts.
func New(opts ...Option) *Tooltip {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	clock := cfg.clock
	if clock == nil {
		q, ok := cfg.disclosure.Host.Scheduler.(*schedule.Queue)
		if !ok {
			q = schedule.Default()
		}
		clock = schedule.RealClock{Queue: q}
	}

	c := disclosure.New(cfg.disclosure)
	t := &Tooltip{
		ctrl:  c,
		clock: clock,
		States: States{
			Open: c.Open(),
		},
		Options: Options{
			Options:            c.Options(),
			ArrowSize:          reactive.NewSignal(cfg.arrowSize),
			OpenDelay:          reactive.NewSignal(cfg.openDelay),
			CloseDelay:         reactive.NewSignal(cfg.closeDelay),
			CloseOnPointerDown: reactive.NewSignal(cfg.closeOnPointerDown),
		},
	}
	c.OnDestroy(t.cancel)

	t.Elements = Elements{
		Trigger: builder.New("tooltip-trigger", t.triggerAttrs(), t.triggerAction),
		Content: builder.New("tooltip-content", t.contentAttrs(), t.contentAction),
		Arrow:   builder.New("tooltip-arrow", t.arrowAttrs(), nil),
	}
	return t
}

// Controller returns the underlying disclosure controller.
func (t *Tooltip) Controller() *disclosure.Controller { return t.ctrl }

// IDs returns the trigger and content ids.
func (t *Tooltip) IDs() ids.Pair { return t.ctrl.IDs() }

// Destroy cancels pending delays and releases the tooltip.
func (t *Tooltip) Destroy() { t.ctrl.Destroy() }

// after replaces any pending delayed call with fn after d. A non-positive
// delay runs fn immediately.
func (t *Tooltip) after(d time.Duration, fn func()) {
	t.cancel()
	if d <= 0 {
		fn()
		return
	}
	timer := t.clock.AfterFunc(d, fn)

	t.mu.Lock()
	t.pending = timer
	t.mu.Unlock()
}

func (t *Tooltip) cancel() {
	t.mu.Lock()
	pending := t.pending
	t.pending = nil
	t.mu.Unlock()

	if pending != nil {
		pending.Stop()
	}
}

func (t *Tooltip) show(trigger dom.Element) {
	t.ctrl.Show(trigger)
}

func (t *Tooltip) setPressed(v bool) {
	t.mu.Lock()
	t.pressed = v
	t.mu.Unlock()
}

func (t *Tooltip) isPressed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pressed
}

func (t *Tooltip) hide() {
	t.ctrl.Close()
}

func (t *Tooltip) triggerAttrs() reactive.Readable[TriggerAttrs] {
	c := t.ctrl
	m := reactive.NewMemo(func() TriggerAttrs {
		return TriggerAttrs{
			AriaDescribedBy: c.IDs().Content,
			ID:              c.IDs().Trigger,
			DataState:       disclosure.DataState(c.Open().Get()),
		}
	}, c.Open())
	c.OnDestroy(m.Dispose)
	return m
}

func (t *Tooltip) contentAttrs() reactive.Readable[ContentAttrs] {
	c := t.ctrl
	headless := c.Document() == nil
	portal := t.Options.Portal
	m := reactive.NewMemo(func() ContentAttrs {
		visible := c.Visible().Get()
		display := ""
		if !visible {
			display = "none"
		}
		return ContentAttrs{
			Role:       "tooltip",
			Hidden:     !visible || headless,
			Display:    display,
			ID:         c.IDs().Content,
			DataState:  disclosure.DataState(visible),
			DataPortal: portal.Get().Explicit(),
		}
	}, c.Visible(), portal)
	c.OnDestroy(m.Dispose)
	return m
}

func (t *Tooltip) arrowAttrs() reactive.Readable[popover.ArrowAttrs] {
	size := t.Options.ArrowSize
	m := reactive.NewMemo(func() popover.ArrowAttrs {
		return popover.ArrowAttrs{DataArrow: true, Size: size.Get()}
	}, size)
	t.ctrl.OnDestroy(m.Dispose)
	return m
}

// triggerAction opens on hover after the open delay and on focus at once.
// Leaving closes after the close delay; blur, activation keys and pointer
// presses close at once. Focus gained from a closing press does not reopen
// until the press ends in a click.
func (t *Tooltip) triggerAction(node dom.Element) reactive.Disposer {
	o := t.Options
	return reactive.Chain(
		node.AddEventListener(dom.EventPointerEnter, func(*dom.Event) {
			t.after(o.OpenDelay.Get(), func() { t.show(node) })
		}),
		node.AddEventListener(dom.EventPointerLeave, func(*dom.Event) {
			t.after(o.CloseDelay.Get(), t.hide)
		}),
		node.AddEventListener(dom.EventFocus, func(*dom.Event) {
			t.cancel()
			if t.isPressed() {
				return
			}
			t.show(node)
		}),
		node.AddEventListener(dom.EventBlur, func(*dom.Event) {
			t.setPressed(false)
			t.cancel()
			t.hide()
		}),
		node.AddEventListener(dom.EventPointerDown, func(*dom.Event) {
			if !o.CloseOnPointerDown.Get() {
				return
			}
			t.setPressed(true)
			t.cancel()
			t.hide()
		}),
		node.AddEventListener(dom.EventClick, func(*dom.Event) {
			t.setPressed(false)
		}),
		node.AddEventListener(dom.EventKeyDown, func(e *dom.Event) {
			if !dom.IsActivationKey(e.Key) || !t.ctrl.Open().Get() {
				return
			}
			t.cancel()
			t.hide()
		}),
		t.cancel,
	)
}

// contentAction mounts the floating behaviour and keeps the tooltip open
// while the pointer is over the content.
func (t *Tooltip) contentAction(node dom.Element) reactive.Disposer {
	return reactive.Chain(
		node.AddEventListener(dom.EventPointerEnter, func(*dom.Event) {
			t.cancel()
		}),
		node.AddEventListener(dom.EventPointerLeave, func(*dom.Event) {
			t.after(t.Options.CloseDelay.Get(), t.hide)
		}),
		t.ctrl.MountContent(node),
	)
}
