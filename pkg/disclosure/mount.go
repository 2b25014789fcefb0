package disclosure

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
)

// snapshot is the tuple a popper instance is built from.
type snapshot struct {
	anchor              dom.Element
	floating            popper.FloatingConfig
	disableFocusTrap    bool
	closeOnEscape       bool
	closeOnOutsideClick bool
	portal              popper.Portal
}

// contentMount is the effect scheduler of one mounted content node.
// It owns at most one popper handle at a time.
type contentMount struct {
	c    *Controller
	node dom.Element

	mu      sync.Mutex
	gen     uint64
	torn    bool
	release reactive.Disposer
}

// MountContent binds the floating behaviour to a rendered content node.
//
// Whenever visibility, the active trigger or any popper option changes, the
// installed popper is disposed first. If the widget is visible and anchored,
// a new popper is constructed on the next tick, provided that by then the
// run is still the latest, the node is connected and visibility and anchor
// are unchanged. The returned disposer removes the popper and then the
// subscription; pending ticks become no-ops.
func (c *Controller) MountContent(node dom.Element) reactive.Disposer {
	m := &contentMount{c: c, node: node, release: reactive.Noop}
	o := c.options

	effect := reactive.CreateEffect(m.run,
		c.visible,
		c.activeTrigger,
		o.Positioning,
		o.DisableFocusTrap,
		o.CloseOnEscape,
		o.CloseOnOutsideClick,
		o.Portal,
	)

	teardown := reactive.Once(func() {
		m.disposePopper()
		effect.Dispose()
		m.mu.Lock()
		m.torn = true
		m.mu.Unlock()
	})
	c.owner.OnCleanup(teardown)
	return teardown
}

func (m *contentMount) run() reactive.Cleanup {
	m.disposePopper()

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	c := m.c
	if !c.visible.Get() || c.host.Document == nil {
		return nil
	}
	anchor := c.activeTrigger.Get()
	if dom.IsNil(anchor) {
		return nil
	}

	o := c.options
	s := snapshot{
		anchor:              anchor,
		floating:            o.Positioning.Get(),
		disableFocusTrap:    o.DisableFocusTrap.Get(),
		closeOnEscape:       o.CloseOnEscape.Get(),
		closeOnOutsideClick: o.CloseOnOutsideClick.Get(),
		portal:              o.Portal.Get(),
	}
	c.host.Scheduler.Tick(func() { m.install(gen, s) })
	return nil
}

// install constructs the popper for run gen unless that run went stale.
func (m *contentMount) install(gen uint64, s snapshot) {
	m.mu.Lock()
	stale := m.torn || gen != m.gen
	m.mu.Unlock()

	c := m.c
	if stale || c.isDestroyed() {
		return
	}
	if !c.visible.Get() || !sameElement(c.activeTrigger.Get(), s.anchor) || !m.node.IsConnected() {
		return
	}

	m.disposePopper()
	handle := c.host.Poppers.Use(m.node, popper.Args{
		Anchor:  s.anchor,
		Open:    c.open,
		Options: c.popperOptions(m.node, s),
	})
	c.popperCreated()

	m.mu.Lock()
	m.release = reactive.Once(func() {
		if handle != nil {
			handle()
		}
		c.popperDisposed()
	})
	m.mu.Unlock()
}

// disposePopper runs the current popper disposer, if any, and resets it.
func (m *contentMount) disposePopper() {
	m.mu.Lock()
	release := m.release
	m.release = reactive.Noop
	m.mu.Unlock()

	release()
}

func (c *Controller) popperCreated() {
	c.mu.Lock()
	c.stats.PoppersCreated++
	c.mu.Unlock()

	c.host.Metrics.PopperCreated(c.name)
	c.logger.Debug("popper installed")
	c.refreshState()
}

func (c *Controller) popperDisposed() {
	c.mu.Lock()
	c.stats.PoppersDisposed++
	c.mu.Unlock()

	c.host.Metrics.PopperDisposed(c.name)
	c.logger.Debug("popper disposed", slog.Int("created", c.Stats().PoppersCreated))
	c.refreshState()
}
