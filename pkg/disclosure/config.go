package disclosure

import (
	"log/slog"

	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
	"github.com/vango-dev/floatkit/pkg/scrolllock"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// Host is the environment a controller runs in. A nil Document means there
// is no DOM platform: poppers, scroll locks and focus moves are skipped.
//
// With a Document and no ScrollLocks, the controller uses the shared
// manager from scrolllock.For, which stays registered until the host calls
// scrolllock.Forget for that document.
type Host struct {
	Document    dom.Document
	Scheduler   schedule.Scheduler
	Poppers     popper.Factory
	ScrollLocks scrolllock.Locker
	IDs         *ids.Registry
	Logger      *slog.Logger
	Metrics     *telemetry.Metrics
}

// withDefaults fills unset collaborators.
func (h Host) withDefaults() Host {
	if h.Logger == nil {
		h.Logger = slog.Default()
	}
	if h.Scheduler == nil {
		h.Scheduler = schedule.Default()
	}
	if h.IDs == nil {
		h.IDs = ids.Default()
	}
	if h.Document != nil {
		if h.Poppers == nil {
			h.Poppers = popper.New(h.Document, popper.WithLogger(h.Logger))
		}
		if h.ScrollLocks == nil {
			h.ScrollLocks = scrolllock.For(h.Document,
				scrolllock.WithLogger(h.Logger),
				scrolllock.WithMetrics(h.Metrics))
		}
	}
	return h
}

// Config is the construction-time configuration of a Controller.
type Config struct {
	// Name identifies the widget kind in logs and metrics, e.g. "popover".
	Name string

	Positioning popper.FloatingConfig

	// DefaultOpen is the initial value of the internally owned open state.
	// Ignored when Open is set.
	DefaultOpen bool

	// Open, if set, is the externally owned open state.
	Open reactive.Writable[bool]

	// OnOpenChange intercepts every change of the open state.
	OnOpenChange reactive.ChangeFn[bool]

	DisableFocusTrap    bool
	CloseOnEscape       bool
	CloseOnOutsideClick bool
	PreventScroll       bool
	Portal              popper.Portal
	ForceVisible        bool

	// DisableFocusRestore makes Close leave focus where it is. Widgets that
	// open on focus set it so closing does not reopen them.
	DisableFocusRestore bool

	Host Host
}

// DefaultConfig returns the defaults shared by all builders.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		Positioning:         popper.FloatingConfig{Placement: "bottom"},
		CloseOnEscape:       true,
		CloseOnOutsideClick: true,
		Portal:              popper.PortalAuto(),
	}
}

// Options are the runtime-changeable settings of a Controller. Setting any
// of them re-runs the affected derivations.
type Options struct {
	Positioning         *reactive.Signal[popper.FloatingConfig]
	DisableFocusTrap    *reactive.Signal[bool]
	CloseOnEscape       *reactive.Signal[bool]
	CloseOnOutsideClick *reactive.Signal[bool]
	PreventScroll       *reactive.Signal[bool]
	Portal              *reactive.Signal[popper.Portal]
	ForceVisible        *reactive.Signal[bool]
}

func newOptions(cfg Config) Options {
	return Options{
		Positioning:         reactive.NewSignal(cfg.Positioning),
		DisableFocusTrap:    reactive.NewSignal(cfg.DisableFocusTrap),
		CloseOnEscape:       reactive.NewSignal(cfg.CloseOnEscape),
		CloseOnOutsideClick: reactive.NewSignal(cfg.CloseOnOutsideClick),
		PreventScroll:       reactive.NewSignal(cfg.PreventScroll),
		Portal:              reactive.NewSignal(cfg.Portal),
		ForceVisible:        reactive.NewSignal(cfg.ForceVisible),
	}
}
