package popover

import (
	"log/slog"

	"github.com/vango-dev/floatkit/pkg/disclosure"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
	"github.com/vango-dev/floatkit/pkg/scrolllock"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// DefaultArrowSize is the default arrow edge length in pixels.
const DefaultArrowSize = 8

// Option configures a Popover.
type Option func(*config)

type config struct {
	disclosure disclosure.Config
	arrowSize  int
}

func defaultConfig() config {
	return config{
		disclosure: disclosure.DefaultConfig("popover"),
		arrowSize:  DefaultArrowSize,
	}
}

// WithPositioning sets the floating placement configuration.
func WithPositioning(cfg popper.FloatingConfig) Option {
	return func(c *config) {
		c.disclosure.Positioning = cfg
	}
}

// WithArrowSize sets the arrow size in pixels.
func WithArrowSize(px int) Option {
	return func(c *config) {
		c.arrowSize = px
	}
}

// WithDefaultOpen sets the initial open state of an uncontrolled popover.
func WithDefaultOpen(open bool) Option {
	return func(c *config) {
		c.disclosure.DefaultOpen = open
	}
}

// WithOpen makes the popover controlled by an external open state.
func WithOpen(open reactive.Writable[bool]) Option {
	return func(c *config) {
		c.disclosure.Open = open
	}
}

// WithOnOpenChange intercepts open state changes. The returned value is
// committed.
func WithOnOpenChange(fn reactive.ChangeFn[bool]) Option {
	return func(c *config) {
		c.disclosure.OnOpenChange = fn
	}
}

// WithDisableFocusTrap turns off the focus trap.
func WithDisableFocusTrap(disable bool) Option {
	return func(c *config) {
		c.disclosure.DisableFocusTrap = disable
	}
}

// WithCloseOnEscape sets whether Escape closes the popover.
func WithCloseOnEscape(enabled bool) Option {
	return func(c *config) {
		c.disclosure.CloseOnEscape = enabled
	}
}

// WithCloseOnOutsideClick sets whether a press outside closes the popover.
func WithCloseOnOutsideClick(enabled bool) Option {
	return func(c *config) {
		c.disclosure.CloseOnOutsideClick = enabled
	}
}

// WithPreventScroll locks page scrolling while the popover is open.
func WithPreventScroll(enabled bool) Option {
	return func(c *config) {
		c.disclosure.PreventScroll = enabled
	}
}

// WithPortal sets where the content is relocated to.
func WithPortal(p popper.Portal) Option {
	return func(c *config) {
		c.disclosure.Portal = p
	}
}

// WithForceVisible keeps the content rendered regardless of the open state.
func WithForceVisible(force bool) Option {
	return func(c *config) {
		c.disclosure.ForceVisible = force
	}
}

// WithDocument sets the host document. Without one the popover runs
// headless.
//
// Unless WithScrollLocker is also given, scroll locks go through
// scrolllock.For(doc); call scrolllock.Forget(doc) when the document is
// discarded.
func WithDocument(doc dom.Document) Option {
	return func(c *config) {
		c.disclosure.Host.Document = doc
	}
}

// WithScheduler sets the queue used for after-render continuations.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *config) {
		c.disclosure.Host.Scheduler = s
	}
}

// WithPopper replaces the popper engine.
func WithPopper(f popper.Factory) Option {
	return func(c *config) {
		c.disclosure.Host.Poppers = f
	}
}

// WithScrollLocker replaces the document scroll lock manager.
func WithScrollLocker(l scrolllock.Locker) Option {
	return func(c *config) {
		c.disclosure.Host.ScrollLocks = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.disclosure.Host.Logger = logger
	}
}

// WithMetrics enables metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *config) {
		c.disclosure.Host.Metrics = m
	}
}

// WithIDs sets the id registry.
func WithIDs(r *ids.Registry) Option {
	return func(c *config) {
		c.disclosure.Host.IDs = r
	}
}
