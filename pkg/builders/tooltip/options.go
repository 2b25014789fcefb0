package tooltip

import (
	"log/slog"
	"time"

	"github.com/vango-dev/floatkit/pkg/disclosure"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
	"github.com/vango-dev/floatkit/pkg/scrolllock"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// Defaults.
const (
	DefaultArrowSize  = 8
	DefaultOpenDelay  = 1000 * time.Millisecond
	DefaultCloseDelay = 500 * time.Millisecond
)

// Option configures a Tooltip.
type Option func(*config)

type config struct {
	disclosure         disclosure.Config
	arrowSize          int
	openDelay          time.Duration
	closeDelay         time.Duration
	closeOnPointerDown bool
	clock              schedule.Clock
}

func defaultConfig() config {
	d := disclosure.DefaultConfig("tooltip")
	d.Positioning = popper.FloatingConfig{Placement: "top"}
	d.DisableFocusTrap = true
	d.CloseOnOutsideClick = false
	d.DisableFocusRestore = true
	return config{
		disclosure:         d,
		arrowSize:          DefaultArrowSize,
		openDelay:          DefaultOpenDelay,
		closeDelay:         DefaultCloseDelay,
		closeOnPointerDown: true,
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

// WithOpenDelay sets how long the pointer must rest on the trigger before
// the tooltip opens.
func WithOpenDelay(d time.Duration) Option {
	return func(c *config) {
		c.openDelay = d
	}
}

// WithCloseDelay sets how long the tooltip stays open after the pointer
// leaves.
func WithCloseDelay(d time.Duration) Option {
	return func(c *config) {
		c.closeDelay = d
	}
}

// WithCloseOnPointerDown sets whether pressing the trigger closes the
// tooltip.
func WithCloseOnPointerDown(enabled bool) Option {
	return func(c *config) {
		c.closeOnPointerDown = enabled
	}
}

// WithDefaultOpen sets the initial open state of an uncontrolled tooltip.
func WithDefaultOpen(open bool) Option {
	return func(c *config) {
		c.disclosure.DefaultOpen = open
	}
}

// WithOpen makes the tooltip controlled by an external open state.
func WithOpen(open reactive.Writable[bool]) Option {
	return func(c *config) {
		c.disclosure.Open = open
	}
}

// WithOnOpenChange intercepts open state changes.
func WithOnOpenChange(fn reactive.ChangeFn[bool]) Option {
	return func(c *config) {
		c.disclosure.OnOpenChange = fn
	}
}

// WithCloseOnEscape sets whether Escape closes the tooltip.
func WithCloseOnEscape(enabled bool) Option {
	return func(c *config) {
		c.disclosure.CloseOnEscape = enabled
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

// WithClock sets the clock used for open and close delays. The default
// posts expired delays into the scheduler queue.
func WithClock(clock schedule.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithDocument sets the host document.
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
