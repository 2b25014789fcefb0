package scenario

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/pkg/dom"
	"github.com/vango-dev/floatkit/pkg/popper"
)

// ErrFinished is returned by Session.Step when every step has run.
var ErrFinished = stderrors.New("scenario finished")

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int      `json:"index"`
	Action   string   `json:"action"`
	Line     int      `json:"line,omitempty"`
	Note     string   `json:"note,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// Passed reports whether the step's expectations held.
func (r StepResult) Passed() bool {
	return len(r.Failures) == 0
}

// Session is a scenario being executed step by step. It is safe for
// concurrent use; steps are serialized.
type Session struct {
	mu       sync.Mutex
	scenario *config.Scenario
	page     *page
	next     int
	closed   bool

	logger  *slog.Logger
	tracer  trace.Tracer
	runner  *Runner
	results []StepResult
	current *config.Step
}

// Scenario returns the scenario the session runs.
func (s *Session) Scenario() *config.Scenario {
	return s.scenario
}

// Done reports whether every step has run.
func (s *Session) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next >= len(s.scenario.Steps)
}

// Results returns the results of the steps run so far.
func (s *Session) Results() []StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StepResult(nil), s.results...)
}

// Step runs the next step. Failed expectations are reported in the result,
// not as an error; errors mean the step could not be executed.
func (s *Session) Step(ctx context.Context) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return StepResult{}, errors.New("F303").WithDetail("The session has been closed")
	}
	if s.next >= len(s.scenario.Steps) {
		return StepResult{}, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	index := s.next
	step := s.scenario.Steps[index]
	s.next++
	s.current = &step
	defer func() { s.current = nil }()

	result := StepResult{
		Index:  index,
		Action: step.Action(),
		Line:   step.Pos.Line,
		Note:   step.Note,
	}

	_, span := s.tracer.Start(ctx, "scenario.step", trace.WithAttributes(
		attribute.String("scenario", s.scenario.Name),
		attribute.Int("step", index),
		attribute.String("action", result.Action),
	))
	defer span.End()

	if err := s.apply(step); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	if step.Expect != nil {
		result.Failures = s.check(step.Expect)
		if !result.Passed() {
			span.SetStatus(codes.Error, "expectation failed")
		}
	}

	s.logger.Debug("step",
		slog.Int("index", index),
		slog.String("action", result.Action),
		slog.Bool("passed", result.Passed()))
	s.results = append(s.results, result)
	return result, nil
}

// Reset rebuilds the page and rewinds to the first step.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("F303").WithDetail("The session has been closed")
	}
	s.page.destroy()
	p, err := buildPage(s.scenario, s.logger, s.runner.metrics)
	if err != nil {
		return err
	}
	s.page = p
	s.next = 0
	s.results = nil
	return nil
}

// Close destroys the widgets. Further steps fail.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.page.destroy()
}

// stepError builds an error located at the running step, if any.
func (s *Session) stepError(code string, format string, args ...any) *errors.Error {
	err := errors.New(code).WithDetailf(format, args...)
	if st := s.current; st != nil && st.Pos.Line > 0 && s.scenario.Path() != "" {
		err.WithLocation(s.scenario.Path(), st.Pos.Line, st.Pos.Column)
	}
	return err
}

func (s *Session) apply(step config.Step) error {
	p := s.page
	switch step.Action() {
	case "click":
		p.tree.Click(p.nodes[step.Click])
	case "key":
		target := s.keyTarget(step.On)
		p.tree.Dispatch(target, &dom.Event{Type: dom.EventKeyDown, Key: keyName(step.Key), Shift: step.Shift})
	case "enter":
		p.tree.PointerEnter(p.nodes[step.Enter])
	case "leave":
		p.tree.PointerLeave(p.nodes[step.Leave])
	case "focus":
		p.nodes[step.Focus].Focus()
	case "flush":
		p.queue.Flush()
	case "advance":
		p.clock.Advance(step.Advance)
	case "open":
		p.widgets[step.Open].ctrl.Open().Set(true)
	case "close":
		p.widgets[step.Close].ctrl.Close()
	case "remove":
		p.nodes[step.Remove].Remove()
		p.unbind(step.Remove)
	case "set":
		return s.set(step.Set)
	case "expect":
	default:
		return s.stepError("F205", "Step %d must have exactly one action", s.next)
	}
	return nil
}

func (s *Session) keyTarget(name string) *dom.Node {
	if name != "" {
		return s.page.nodes[name]
	}
	if n, ok := s.page.tree.ActiveElement().(*dom.Node); ok {
		return n
	}
	return s.page.tree.BodyNode()
}

// keyName maps readable key names onto KeyboardEvent.key values.
func keyName(key string) string {
	switch key {
	case "Space", "space":
		return dom.KeySpace
	case "Esc":
		return dom.KeyEscape
	}
	return key
}

func (s *Session) set(opt *config.SetOption) error {
	w := s.page.widgets[opt.Widget]
	o := w.options

	decode := func(v any) error {
		if err := opt.Value.Decode(v); err != nil {
			return s.stepError("F205", "Option %s of %q: %v", opt.Option, opt.Widget, err)
		}
		return nil
	}
	setBool := func(set func(bool)) error {
		var v bool
		if err := decode(&v); err != nil {
			return err
		}
		set(v)
		return nil
	}
	setDelay := func(set func(time.Duration)) error {
		var v time.Duration
		if err := decode(&v); err != nil {
			return err
		}
		if v < 0 {
			return s.stepError("F105", "Option %s of %q is negative", opt.Option, opt.Widget)
		}
		set(v)
		return nil
	}

	switch opt.Option {
	case "positioning":
		var cfg popper.FloatingConfig
		if err := decode(&cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return s.stepError("F104", "Option positioning of %q: %v", opt.Widget, err)
		}
		o.Positioning.Set(cfg)
	case "arrowSize":
		var v int
		if err := decode(&v); err != nil {
			return err
		}
		w.arrow.Set(v)
	case "disableFocusTrap":
		return setBool(o.DisableFocusTrap.Set)
	case "closeOnEscape":
		return setBool(o.CloseOnEscape.Set)
	case "closeOnOutsideClick":
		return setBool(o.CloseOnOutsideClick.Set)
	case "preventScroll":
		return setBool(o.PreventScroll.Set)
	case "forceVisible":
		return setBool(o.ForceVisible.Set)
	case "portal":
		var v string
		if err := decode(&v); err != nil {
			return err
		}
		portal, err := config.ParsePortal(v)
		if err != nil {
			return s.stepError("F105", "Option portal of %q: %v", opt.Widget, err)
		}
		o.Portal.Set(portal)
	case "openDelay", "closeDelay", "closeOnPointerDown":
		if w.tip == nil {
			return s.stepError("F108", "Popover %q has no option %s", opt.Widget, opt.Option)
		}
		switch opt.Option {
		case "openDelay":
			return setDelay(w.tip.Options.OpenDelay.Set)
		case "closeDelay":
			return setDelay(w.tip.Options.CloseDelay.Set)
		default:
			return setBool(w.tip.Options.CloseOnPointerDown.Set)
		}
	default:
		return s.stepError("F205", "Unknown option %q", opt.Option)
	}
	return nil
}

// SetOption changes a runtime option of a widget outside of the scripted
// steps. value is encoded to YAML and decoded like a set step's value.
func (s *Session) SetOption(widget, option string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("F303").WithDetail("The session has been closed")
	}
	if _, ok := s.page.widgets[widget]; !ok {
		return errors.New("F201").WithDetailf("Unknown widget %q", widget)
	}
	if !config.SettableOption(option) {
		return errors.New("F205").WithDetailf("Unknown option %q", option)
	}

	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return errors.New("F205").Wrap(fmt.Errorf("encode option value: %w", err))
	}
	return s.set(&config.SetOption{Widget: widget, Option: option, Value: node})
}
