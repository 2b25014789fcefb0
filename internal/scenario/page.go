package scenario

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/pkg/builders/popover"
	"github.com/vango-dev/floatkit/pkg/builders/tooltip"
	"github.com/vango-dev/floatkit/pkg/disclosure"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/ids"
	"github.com/vango-dev/floatkit/pkg/popper"
	"github.com/vango-dev/floatkit/pkg/reactive"
	"github.com/vango-dev/floatkit/pkg/schedule"
	"github.com/vango-dev/floatkit/pkg/scrolllock"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// page is the document, scheduler and widgets of one session.
type page struct {
	tree    *dom.Tree
	queue   *schedule.Queue
	clock   *schedule.FakeClock
	locks   *scrolllock.Manager
	poppers *popper.Engine
	ids     *ids.Registry

	widgets  map[string]*widget
	order    []string
	nodes    map[string]*dom.Node
	names    map[*dom.Node]string
	bindings map[string]reactive.Disposer
}

// widget adapts a popover or tooltip to the runner.
type widget struct {
	name    string
	kind    string
	ctrl    *disclosure.Controller
	options disclosure.Options
	arrow   *reactive.Signal[int]
	tip     *tooltip.Tooltip
	use     func(part string, node dom.Element) reactive.Disposer
	destroy func()
}

func buildPage(sc *config.Scenario, logger *slog.Logger, metrics *telemetry.Metrics) (*page, error) {
	tree := dom.NewTree()
	if sc.Viewport != nil {
		tree.SetViewport(rect(*sc.Viewport))
	}

	var seq atomic.Int64
	p := &page{
		tree:  tree,
		queue: schedule.NewQueue(),
		clock: schedule.NewFakeClock(),
		locks: scrolllock.NewManager(tree,
			scrolllock.WithLogger(logger),
			scrolllock.WithMetrics(metrics)),
		poppers: popper.New(tree, popper.WithLogger(logger)),
		ids: ids.NewRegistry(ids.WithPrefix("fk"), ids.WithGenerator(func() string {
			return strconv.FormatInt(seq.Add(1), 10)
		})),
		widgets:  make(map[string]*widget, len(sc.Widgets)),
		nodes:    make(map[string]*dom.Node, len(sc.Elements)),
		names:    make(map[*dom.Node]string, len(sc.Elements)),
		bindings: make(map[string]reactive.Disposer),
	}

	for _, decl := range sc.Widgets {
		w, err := p.newWidget(decl, logger, metrics)
		if err != nil {
			p.destroy()
			return nil, err
		}
		p.widgets[decl.Name] = w
		p.order = append(p.order, decl.Name)
	}

	for _, decl := range sc.Elements {
		n := tree.Create(decl.TagOrDefault())
		if decl.Part != config.PartTrigger && decl.Part != config.PartContent {
			n.SetAttr("id", decl.Name)
		}
		for name, value := range decl.Attrs {
			n.SetAttr(name, value)
		}
		if decl.Rect != nil {
			n.SetRect(rect(*decl.Rect))
		}
		parent := tree.BodyNode()
		if decl.Parent != "" {
			parent = p.nodes[decl.Parent]
		}
		parent.Append(n)
		p.nodes[decl.Name] = n
		p.names[n] = decl.Name
	}

	for _, decl := range sc.Elements {
		if decl.Widget == "" {
			continue
		}
		p.bindings[decl.Name] = p.widgets[decl.Widget].use(decl.Part, p.nodes[decl.Name])
	}
	return p, nil
}

func rect(r config.Rect) dom.Rect {
	return dom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func (p *page) newWidget(decl config.Widget, logger *slog.Logger, metrics *telemetry.Metrics) (*widget, error) {
	portal, err := config.ParsePortal(decl.Portal)
	if err != nil {
		return nil, err
	}
	logger = logger.With(slog.String("name", decl.Name))

	switch decl.Kind {
	case config.KindPopover:
		opts := []popover.Option{
			popover.WithDocument(p.tree),
			popover.WithScheduler(p.queue),
			popover.WithPopper(p.poppers),
			popover.WithScrollLocker(p.locks),
			popover.WithIDs(p.ids),
			popover.WithLogger(logger),
			popover.WithMetrics(metrics),
			popover.WithDefaultOpen(decl.DefaultOpen),
			popover.WithPortal(portal),
			popover.WithForceVisible(decl.ForceVisible),
		}
		if decl.Positioning != nil {
			opts = append(opts, popover.WithPositioning(*decl.Positioning))
		}
		if decl.ArrowSize != nil {
			opts = append(opts, popover.WithArrowSize(*decl.ArrowSize))
		}
		if decl.DisableFocusTrap != nil {
			opts = append(opts, popover.WithDisableFocusTrap(*decl.DisableFocusTrap))
		}
		if decl.CloseOnEscape != nil {
			opts = append(opts, popover.WithCloseOnEscape(*decl.CloseOnEscape))
		}
		if decl.CloseOnOutsideClick != nil {
			opts = append(opts, popover.WithCloseOnOutsideClick(*decl.CloseOnOutsideClick))
		}
		if decl.PreventScroll != nil {
			opts = append(opts, popover.WithPreventScroll(*decl.PreventScroll))
		}

		pop := popover.New(opts...)
		return &widget{
			name:    decl.Name,
			kind:    decl.Kind,
			ctrl:    pop.Controller(),
			options: pop.Options.Options,
			arrow:   pop.Options.ArrowSize,
			use: func(part string, node dom.Element) reactive.Disposer {
				switch part {
				case config.PartTrigger:
					return pop.Elements.Trigger.Use(node)
				case config.PartContent:
					return pop.Elements.Content.Use(node)
				case config.PartArrow:
					return pop.Elements.Arrow.Use(node)
				default:
					return pop.Elements.Close.Use(node)
				}
			},
			destroy: pop.Destroy,
		}, nil

	case config.KindTooltip:
		opts := []tooltip.Option{
			tooltip.WithDocument(p.tree),
			tooltip.WithScheduler(p.queue),
			tooltip.WithPopper(p.poppers),
			tooltip.WithScrollLocker(p.locks),
			tooltip.WithClock(p.clock),
			tooltip.WithIDs(p.ids),
			tooltip.WithLogger(logger),
			tooltip.WithMetrics(metrics),
			tooltip.WithDefaultOpen(decl.DefaultOpen),
			tooltip.WithPortal(portal),
			tooltip.WithForceVisible(decl.ForceVisible),
		}
		if decl.Positioning != nil {
			opts = append(opts, tooltip.WithPositioning(*decl.Positioning))
		}
		if decl.ArrowSize != nil {
			opts = append(opts, tooltip.WithArrowSize(*decl.ArrowSize))
		}
		if decl.CloseOnEscape != nil {
			opts = append(opts, tooltip.WithCloseOnEscape(*decl.CloseOnEscape))
		}
		if decl.OpenDelay != nil {
			opts = append(opts, tooltip.WithOpenDelay(*decl.OpenDelay))
		}
		if decl.CloseDelay != nil {
			opts = append(opts, tooltip.WithCloseDelay(*decl.CloseDelay))
		}
		if decl.CloseOnPointerDown != nil {
			opts = append(opts, tooltip.WithCloseOnPointerDown(*decl.CloseOnPointerDown))
		}

		tip := tooltip.New(opts...)
		return &widget{
			name:    decl.Name,
			kind:    decl.Kind,
			ctrl:    tip.Controller(),
			options: tip.Options.Options,
			arrow:   tip.Options.ArrowSize,
			tip:     tip,
			use: func(part string, node dom.Element) reactive.Disposer {
				switch part {
				case config.PartTrigger:
					return tip.Elements.Trigger.Use(node)
				case config.PartContent:
					return tip.Elements.Content.Use(node)
				default:
					return tip.Elements.Arrow.Use(node)
				}
			},
			destroy: tip.Destroy,
		}, nil
	}
	return nil, fmt.Errorf("unknown widget kind %q", decl.Kind)
}

// unbind disposes the builder binding of an element, if any.
func (p *page) unbind(name string) {
	if dispose, ok := p.bindings[name]; ok {
		delete(p.bindings, name)
		dispose()
	}
}

// destroy unmounts every element and destroys the widgets.
func (p *page) destroy() {
	for name := range p.bindings {
		p.unbind(name)
	}
	for i := len(p.order) - 1; i >= 0; i-- {
		p.widgets[p.order[i]].destroy()
	}
	p.queue.Flush()
}

// nameOf returns the scenario name of el, or "" for unnamed elements.
func (p *page) nameOf(el dom.Element) string {
	n, ok := el.(*dom.Node)
	if !ok {
		return ""
	}
	return p.names[n]
}
