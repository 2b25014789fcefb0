package disclosure

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// Stats counts popper lifecycle events of one controller.
type Stats struct {
	PoppersCreated  int
	PoppersDisposed int
}

// Live returns the number of installed poppers.
func (s Stats) Live() int {
	return s.PoppersCreated - s.PoppersDisposed
}

// Controller is the Floating Disclosure Controller of one widget instance.
type Controller struct {
	name   string
	host   Host
	ids    ids.Pair
	logger *slog.Logger

	open          reactive.Writable[bool]
	activeTrigger *reactive.Signal[dom.Element]
	visible       *reactive.Memo[bool]
	options       Options
	owner         *reactive.Owner
	noRestore     bool

	mu        sync.Mutex
	state     State
	closing   int
	stats     Stats
	destroyed bool
}

// New creates a controller. Call Destroy when the widget unmounts.
func New(cfg Config) *Controller {
	host := cfg.Host.withDefaults()
	pair := host.IDs.Pair()

	c := &Controller{
		name:      cfg.Name,
		host:      host,
		ids:       pair,
		logger:    host.Logger.With(slog.String("widget", cfg.Name), slog.String("content", pair.Content)),
		options:   newOptions(cfg),
		owner:     reactive.NewOwner(),
		noRestore: cfg.DisableFocusRestore,
	}

	c.open = reactive.Overridable(reactive.ControlledOrDefault(cfg.Open, cfg.DefaultOpen), cfg.OnOpenChange)
	c.activeTrigger = reactive.NewSignal[dom.Element](nil).WithEquals(sameElement)

	c.visible = reactive.NewMemo(func() bool {
		return DeriveVisible(c.open.Get(), c.activeTrigger.Get(), c.options.ForceVisible.Get())
	}, c.open, c.activeTrigger, c.options.ForceVisible)
	c.owner.OnCleanup(c.visible.Dispose)

	if host.Document != nil {
		c.owner.Effect(c.scrollEffect, c.open, c.activeTrigger, c.options.PreventScroll)
	}

	c.owner.OnCleanup(c.open.Observe(c.refreshState))
	c.refreshState()

	return c
}

func sameElement(a, b dom.Element) bool {
	if dom.IsNil(a) || dom.IsNil(b) {
		return dom.IsNil(a) && dom.IsNil(b)
	}
	return a == b
}

// Name returns the widget kind.
func (c *Controller) Name() string { return c.name }

// IDs returns the trigger/content id pair.
func (c *Controller) IDs() ids.Pair { return c.ids }

// Open returns the open state container.
func (c *Controller) Open() reactive.Writable[bool] { return c.open }

// ActiveTrigger returns the anchor tracker.
func (c *Controller) ActiveTrigger() *reactive.Signal[dom.Element] { return c.activeTrigger }

// Visible returns the derived visibility.
func (c *Controller) Visible() reactive.Readable[bool] { return c.visible }

// Options returns the runtime-changeable options.
func (c *Controller) Options() Options { return c.options }

// Document returns the host document, or nil when there is no DOM.
func (c *Controller) Document() dom.Document { return c.host.Document }

// Logger returns the controller's logger.
func (c *Controller) Logger() *slog.Logger { return c.logger }

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns popper lifecycle counts.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Toggle flips the open state.
func (c *Controller) Toggle() {
	c.open.Update(func(open bool) bool { return !open })
}

// Activate binds trigger as the active trigger and toggles the open state.
// If the widget is already open through a different trigger, the anchor is
// rebound and the widget stays open.
func (c *Controller) Activate(trigger dom.Element) {
	prev := c.activeTrigger.Get()
	rebind := c.open.Get() && !dom.IsNil(prev) && !sameElement(prev, trigger)

	c.activeTrigger.Set(trigger)
	if rebind {
		c.logger.Debug("anchor rebound", slog.String("trigger", trigger.ID()))
		return
	}
	c.Toggle()
}

// Show binds trigger as the active trigger and opens the widget.
func (c *Controller) Show(trigger dom.Element) {
	c.activeTrigger.Set(trigger)
	c.open.Set(true)
}

// Close is the close routine shared by Escape, outside clicks and close
// elements. It commits open=false, then after the next render returns focus
// to the trigger if the trigger is still in the document.
func (c *Controller) Close() {
	trigger := c.focusTarget()
	restore := !dom.IsNil(trigger)
	if restore {
		c.setClosing(1)
	}

	c.open.Set(false)
	if !restore {
		return
	}
	if c.open.Get() {
		// Vetoed by OnOpenChange.
		c.setClosing(-1)
		return
	}

	c.host.Scheduler.Tick(func() {
		defer c.setClosing(-1)
		if c.isDestroyed() || c.open.Get() || !trigger.IsConnected() {
			return
		}
		trigger.Focus()
	})
}

// focusTarget returns the element focus returns to on close: the bound
// trigger if it is still connected, otherwise the element carrying the
// trigger id.
func (c *Controller) focusTarget() dom.Element {
	doc := c.host.Document
	if doc == nil || c.noRestore {
		return nil
	}
	if t := c.activeTrigger.Get(); !dom.IsNil(t) && t.IsConnected() {
		return t
	}
	return doc.ElementByID(c.ids.Trigger)
}

// IsOwnTrigger reports whether el sits inside an element wired as a trigger
// of this controller.
func (c *Controller) IsOwnTrigger(el dom.Element) bool {
	return dom.Closest(el, func(e dom.Element) bool {
		for _, attr := range []string{"aria-controls", "aria-describedby"} {
			if v, ok := e.Attr(attr); ok && v == c.ids.Content {
				return true
			}
		}
		return false
	}) != nil
}

// scrollEffect holds a scroll lock while the widget is open, anchored and
// PreventScroll is set. Every lock taken in a run is released by that run's
// cleanup. An open widget without a trigger gets the trigger found by id
// bound on the next tick.
func (c *Controller) scrollEffect() reactive.Cleanup {
	open := c.open.Get()
	anchor := c.activeTrigger.Get()
	prevent := c.options.PreventScroll.Get()

	var release []func()
	if open {
		if dom.IsNil(anchor) {
			c.host.Scheduler.Tick(c.bindTriggerByID)
		} else if prevent {
			release = append(release, c.host.ScrollLocks.Lock())
		}
	}
	return reactive.Cleanup(reactive.Chain(release...))
}

func (c *Controller) bindTriggerByID() {
	if c.isDestroyed() || !c.open.Get() || !dom.IsNil(c.activeTrigger.Get()) {
		return
	}
	el := c.host.Document.ElementByID(c.ids.Trigger)
	if dom.IsNil(el) {
		return
	}
	c.logger.Debug("trigger bound from document", slog.String("trigger", el.ID()))
	c.activeTrigger.Set(el)
}

// Destroy tears the controller down: content mounts first, then the scroll
// lock and derivations. Ids are returned to the registry.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()

	c.owner.Dispose()
	c.host.IDs.ReleasePair(c.ids)
	c.logger.Debug("destroyed")
}

// OnDestroy registers fn to run when the controller is destroyed. Builders
// use it to release derivations they create on top of the controller.
func (c *Controller) OnDestroy(fn func()) {
	c.owner.OnCleanup(fn)
}

func (c *Controller) isDestroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

func (c *Controller) setClosing(delta int) {
	c.mu.Lock()
	c.closing += delta
	c.mu.Unlock()
	c.refreshState()
}

// refreshState recomputes the lifecycle phase and records transitions.
func (c *Controller) refreshState() {
	open := c.open.Get()

	c.mu.Lock()
	next := computeState(open, c.stats.Live() > 0, c.closing > 0, c.host.Document == nil)
	prev := c.state
	c.state = next
	c.mu.Unlock()

	if prev == next {
		return
	}
	c.logger.Debug("transition", slog.String("from", prev.String()), slog.String("to", next.String()))
	c.host.Metrics.Transition(c.name, next.String())
}

// popperOptions translates the option flags into a popper configuration.
func (c *Controller) popperOptions(node dom.Element, s snapshot) popper.Options {
	opts := popper.Options{
		Floating: s.floating,
		Portal:   popper.Destination(c.host.Document, node, s.portal),
	}
	if !s.disableFocusTrap {
		opts.FocusTrap = &popper.FocusTrapConfig{}
	}
	if s.closeOnOutsideClick {
		opts.ClickOutside = &popper.ClickOutsideConfig{
			Handler: func(*dom.Event) { c.Close() },
			Ignore:  c.IsOwnTrigger,
		}
	}
	if s.closeOnEscape {
		opts.EscapeKeydown = &popper.EscapeKeydownConfig{
			Handler: func(*dom.Event) { c.Close() },
		}
	}
	return opts
}
