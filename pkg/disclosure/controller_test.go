package disclosure

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
)

// fakePoppers records every popper instance. Its disposers are not
// idempotent so double disposal shows up in the counts.
type fakePoppers struct {
	created  int
	disposed int
	maxLive  int
	args     []popper.Args
}

func (f *fakePoppers) Use(node dom.Element, args popper.Args) reactive.Disposer {
	f.created++
	if live := f.created - f.disposed; live > f.maxLive {
		f.maxLive = live
	}
	f.args = append(f.args, args)
	return func() { f.disposed++ }
}

func (f *fakePoppers) live() int { return f.created - f.disposed }

func (f *fakePoppers) last() popper.Args { return f.args[len(f.args)-1] }

type fakeLocks struct {
	acquired int
	released int
}

func (l *fakeLocks) Lock() reactive.Disposer {
	l.acquired++
	return reactive.Once(func() { l.released++ })
}

type harness struct {
	tree    *dom.Tree
	queue   *schedule.Queue
	poppers *fakePoppers
	locks   *fakeLocks
	c       *Controller
	trigger *dom.Node
	content *dom.Node
	unmount reactive.Disposer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	h := &harness{
		tree:    dom.NewTree(),
		queue:   schedule.NewQueue(),
		poppers: &fakePoppers{},
		locks:   &fakeLocks{},
	}
	cfg := DefaultConfig("popover")
	cfg.Host = Host{
		Document:    h.tree,
		Scheduler:   h.queue,
		Poppers:     h.poppers,
		ScrollLocks: h.locks,
		IDs:         ids.NewRegistry(),
		Logger:      discardLogger(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	h.c = New(cfg)

	h.trigger = h.newTrigger()
	h.content = h.tree.CreateWithID("div", h.c.IDs().Content)
	h.tree.BodyNode().Append(h.content)
	h.unmount = h.c.MountContent(h.content)

	t.Cleanup(h.c.Destroy)
	return h
}

func (h *harness) newTrigger() *dom.Node {
	trigger := h.tree.Create("button")
	if h.tree.ElementByID(h.c.IDs().Trigger) == nil {
		trigger.SetAttr("id", h.c.IDs().Trigger)
	}
	trigger.SetAttr("aria-controls", h.c.IDs().Content)
	trigger.AddEventListener(dom.EventClick, func(*dom.Event) { h.c.Activate(trigger) })
	h.tree.BodyNode().Append(trigger)
	return trigger
}

func TestDeriveVisible(t *testing.T) {
	tree := dom.NewTree()
	el := tree.Create("button")
	var typedNil *dom.Node

	tests := []struct {
		name    string
		open    bool
		trigger dom.Element
		force   bool
		want    bool
	}{
		{"closed", false, nil, false, false},
		{"open without trigger", true, nil, false, false},
		{"open with typed nil trigger", true, typedNil, false, false},
		{"open with trigger", true, el, false, true},
		{"closed with trigger", false, el, false, false},
		{"forced", false, nil, true, true},
		{"forced and open", true, el, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveVisible(tt.open, tt.trigger, tt.force))
		})
	}
}

func TestActivateOpensAndInstallsPopper(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, StateClosed, h.c.State())

	h.tree.Click(h.trigger)
	assert.True(t, h.c.Open().Get())
	assert.Equal(t, dom.Element(h.trigger), h.c.ActiveTrigger().Get())
	assert.True(t, h.c.Visible().Get())
	assert.Equal(t, StateOpening, h.c.State())
	assert.Equal(t, 0, h.poppers.created, "popper waits for the next tick")

	h.queue.Flush()
	assert.Equal(t, 1, h.poppers.created)
	assert.Equal(t, StateOpen, h.c.State())
	assert.Equal(t, dom.Element(h.trigger), h.poppers.last().Anchor)
}

func TestPopperOptionsFollowFlags(t *testing.T) {
	h := newHarness(t, nil)
	h.tree.Click(h.trigger)
	h.queue.Flush()

	opts := h.poppers.last().Options
	assert.NotNil(t, opts.FocusTrap)
	assert.NotNil(t, opts.ClickOutside)
	assert.NotNil(t, opts.EscapeKeydown)
	assert.Equal(t, h.tree.Body(), opts.Portal)
	assert.Equal(t, popper.Placement("bottom"), opts.Floating.Placement)

	o := h.c.Options()
	reactive.Batch(func() {
		o.DisableFocusTrap.Set(true)
		o.CloseOnEscape.Set(false)
		o.CloseOnOutsideClick.Set(false)
		o.Portal.Set(popper.PortalDisabled())
	})
	h.queue.Flush()

	require.Equal(t, 2, h.poppers.created)
	assert.Equal(t, 1, h.poppers.disposed)
	opts = h.poppers.last().Options
	assert.Nil(t, opts.FocusTrap)
	assert.Nil(t, opts.ClickOutside)
	assert.Nil(t, opts.EscapeKeydown)
	assert.Nil(t, opts.Portal)
}

func TestEscapeAndOutsideHandlersUseCloseRoutine(t *testing.T) {
	for _, which := range []string{"escape", "outside"} {
		t.Run(which, func(t *testing.T) {
			h := newHarness(t, nil)
			h.tree.Click(h.trigger)
			h.queue.Flush()
			h.content.Focus()

			opts := h.poppers.last().Options
			if which == "escape" {
				opts.EscapeKeydown.Handler(&dom.Event{Type: dom.EventKeyDown, Key: dom.KeyEscape})
			} else {
				opts.ClickOutside.Handler(&dom.Event{Type: dom.EventPointerDown})
			}

			assert.False(t, h.c.Open().Get())
			assert.Equal(t, StateClosing, h.c.State())
			assert.Equal(t, dom.Element(h.content), h.tree.ActiveElement(), "focus moves only after the next render")

			h.queue.Flush()
			assert.Equal(t, dom.Element(h.trigger), h.tree.ActiveElement())
			assert.Equal(t, StateClosed, h.c.State())
		})
	}
}

func TestOutsideClickIgnoresOwnTriggers(t *testing.T) {
	h := newHarness(t, nil)
	other := h.tree.Create("span")
	h.trigger.Append(other)

	assert.True(t, h.c.IsOwnTrigger(other))
	assert.True(t, h.c.IsOwnTrigger(h.trigger))
	assert.False(t, h.c.IsOwnTrigger(h.content))
}

func TestCloseSkipsFocusWhenTriggerGone(t *testing.T) {
	h := newHarness(t, nil)
	h.tree.Click(h.trigger)
	h.queue.Flush()
	h.content.Focus()

	h.c.Close()
	h.trigger.Remove()
	h.queue.Flush()

	assert.Equal(t, dom.Element(h.content), h.tree.ActiveElement())
	assert.Equal(t, StateClosed, h.c.State())
}

func TestForceVisibleWithoutTriggerInstallsNothing(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.ForceVisible = true })

	assert.False(t, h.c.Open().Get())
	assert.True(t, h.c.Visible().Get())
	h.queue.Flush()
	assert.Equal(t, 0, h.poppers.created)
}

func TestProgrammaticOpenBindsTriggerAfterTick(t *testing.T) {
	h := newHarness(t, nil)

	h.c.Open().Set(true)
	assert.False(t, h.c.Visible().Get(), "no trigger bound yet")
	assert.Nil(t, h.c.ActiveTrigger().Get())
	assert.Equal(t, StateOpening, h.c.State())

	h.queue.Flush()
	assert.Equal(t, dom.Element(h.trigger), h.c.ActiveTrigger().Get())
	assert.True(t, h.c.Visible().Get())
	assert.Equal(t, 1, h.poppers.created)
}

func TestProgrammaticOpenWithoutTriggerStaysHidden(t *testing.T) {
	h := newHarness(t, nil)
	h.trigger.Remove()

	h.c.Open().Set(true)
	h.queue.Flush()
	assert.False(t, h.c.Visible().Get())
	assert.Equal(t, 0, h.poppers.created)
}

func TestStaleTickIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.tree.Click(h.trigger)
	h.tree.Click(h.trigger)
	require.False(t, h.c.Open().Get())

	h.queue.Flush()
	assert.Equal(t, 0, h.poppers.created)
}

func TestRoundTripNeverLeaksPoppers(t *testing.T) {
	h := newHarness(t, nil)
	check := func(open bool) {
		t.Helper()
		if open {
			assert.Equal(t, h.poppers.created-1, h.poppers.disposed)
		} else {
			assert.Equal(t, h.poppers.created, h.poppers.disposed)
		}
	}

	for i := 0; i < 3; i++ {
		h.tree.Click(h.trigger)
		h.queue.Flush()
		check(true)

		h.c.Options().Positioning.Set(popper.FloatingConfig{Placement: "top", Gutter: float64(i + 1)})
		h.queue.Flush()
		check(true)

		h.tree.Click(h.trigger)
		h.queue.Flush()
		check(false)
	}
	assert.Equal(t, 6, h.poppers.created)
	assert.Equal(t, 1, h.poppers.maxLive)
	assert.Equal(t, Stats{PoppersCreated: 6, PoppersDisposed: 6}, h.c.Stats())
}

func TestActivatingDifferentTriggerRebinds(t *testing.T) {
	h := newHarness(t, nil)
	second := h.newTrigger()

	h.tree.Click(h.trigger)
	h.queue.Flush()

	h.tree.Click(second)
	assert.True(t, h.c.Open().Get(), "rebinding keeps the widget open")
	assert.Equal(t, dom.Element(second), h.c.ActiveTrigger().Get())

	h.queue.Flush()
	assert.Equal(t, 2, h.poppers.created)
	assert.Equal(t, 1, h.poppers.live())
	assert.Equal(t, dom.Element(second), h.poppers.last().Anchor)

	h.tree.Click(second)
	assert.False(t, h.c.Open().Get(), "same trigger toggles")

	h.tree.Click(h.trigger)
	h.queue.Flush()
	h.trigger.Remove()

	h.tree.Click(second)
	assert.True(t, h.c.Open().Get(), "rebinding away from a detached trigger keeps the widget open")
	assert.Equal(t, dom.Element(second), h.c.ActiveTrigger().Get())

	h.queue.Flush()
	assert.Equal(t, 1, h.poppers.live())
	assert.Equal(t, dom.Element(second), h.poppers.last().Anchor)
}

func TestSingleActiveTrigger(t *testing.T) {
	h := newHarness(t, nil)
	triggers := []*dom.Node{h.trigger, h.newTrigger(), h.newTrigger()}

	for _, i := range []int{0, 2, 1, 1, 0, 2} {
		h.tree.Click(triggers[i])
		assert.Equal(t, dom.Element(triggers[i]), h.c.ActiveTrigger().Get())
		h.queue.Flush()
		assert.LessOrEqual(t, h.poppers.live(), 1)
	}
}

func TestPreventScroll(t *testing.T) {
	h := newHarness(t, func(cfg *Config) { cfg.PreventScroll = true })

	h.tree.Click(h.trigger)
	assert.Equal(t, 1, h.locks.acquired)

	h.tree.Click(h.trigger)
	assert.Equal(t, 1, h.locks.released)

	h.c.Options().PreventScroll.Set(false)
	h.tree.Click(h.trigger)
	assert.Equal(t, 1, h.locks.acquired)
}

func TestDestroyReleasesEverything(t *testing.T) {
	registry := ids.NewRegistry()
	h := newHarness(t, func(cfg *Config) {
		cfg.PreventScroll = true
		cfg.Host.IDs = registry
	})
	h.tree.Click(h.trigger)
	h.queue.Flush()
	require.Equal(t, 1, h.poppers.live())

	h.c.Close()
	h.c.Open().Set(true)
	h.c.Destroy()
	h.c.Destroy()

	assert.Equal(t, 0, h.poppers.live())
	assert.Equal(t, h.locks.acquired, h.locks.released)
	assert.Equal(t, 0, registry.Live())

	h.queue.Flush()
	assert.Equal(t, 0, h.poppers.live(), "pending ticks are no-ops after destroy")
}

func TestUnmountContentDisposesPopperFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.tree.Click(h.trigger)
	h.queue.Flush()

	h.unmount()
	h.unmount()
	assert.Equal(t, 1, h.poppers.disposed)

	h.tree.Click(h.trigger)
	h.tree.Click(h.trigger)
	h.queue.Flush()
	assert.Equal(t, 1, h.poppers.created, "unmounted content is not reinstalled")
}

func TestContentMustBeConnected(t *testing.T) {
	h := newHarness(t, nil)
	h.content.Remove()

	h.tree.Click(h.trigger)
	h.queue.Flush()
	assert.Equal(t, 0, h.poppers.created)
}

func TestControlledOpenWithVeto(t *testing.T) {
	external := reactive.NewSignal(false)
	allowClose := false
	h := newHarness(t, func(cfg *Config) {
		cfg.Open = external
		cfg.OnOpenChange = func(args reactive.ChangeArgs[bool]) bool {
			if !args.Next && !allowClose {
				return args.Curr
			}
			return args.Next
		}
	})

	h.tree.Click(h.trigger)
	assert.True(t, external.Get())
	h.queue.Flush()

	h.c.Close()
	assert.True(t, external.Get(), "close vetoed")
	assert.Equal(t, StateOpen, h.c.State())

	allowClose = true
	h.c.Close()
	assert.False(t, external.Get())

	external.Set(true)
	assert.True(t, h.c.Visible().Get(), "external writes are observed")
}

func TestHeadlessControllerSkipsDOMWork(t *testing.T) {
	q := schedule.NewQueue()
	c := New(Config{
		Name:          "popover",
		PreventScroll: true,
		Host:          Host{Scheduler: q, IDs: ids.NewRegistry(), Logger: discardLogger()},
	})
	defer c.Destroy()

	trigger := dom.NewTree().Create("button")
	c.Activate(trigger)
	assert.True(t, c.Visible().Get())
	assert.Equal(t, StateOpen, c.State())

	c.Close()
	assert.Equal(t, 0, q.Flush())
	assert.Equal(t, StateClosed, c.State())
}
