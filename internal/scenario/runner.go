package scenario

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// Runner executes scenarios.
type Runner struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger handed to every widget.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics reports widget lifecycle events to m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTracer replaces the global floatkit tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.Default(),
		tracer: telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewSession builds the scenario's page and widgets. Close the session
// when done.
func (r *Runner) NewSession(sc *config.Scenario) (*Session, error) {
	logger := r.logger.With(slog.String("scenario", sc.Name))
	p, err := buildPage(sc, logger, r.metrics)
	if err != nil {
		return nil, errors.New("F205").Wrap(err)
	}
	return &Session{
		scenario: sc,
		page:     p,
		logger:   logger,
		tracer:   r.tracer,
		runner:   r,
	}, nil
}

// Report is the outcome of a scenario run.
type Report struct {
	Scenario string        `json:"scenario"`
	Path     string        `json:"path,omitempty"`
	Passed   bool          `json:"passed"`
	Steps    []StepResult  `json:"steps"`
	Snapshot Snapshot      `json:"snapshot"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`

	err error
}

// Err returns nil for a passing run, the execution error if a step could
// not run, or an F203 error describing the first failed expectation.
func (r *Report) Err() error {
	if r.err != nil {
		return r.err
	}
	for _, step := range r.Steps {
		if step.Passed() {
			continue
		}
		err := errors.New("F203").
			WithDetailf("Step %d (%s): %s", step.Index+1, step.Action, strings.Join(step.Failures, "; "))
		if step.Line > 0 && r.Path != "" {
			err.WithLocation(r.Path, step.Line, 0)
		}
		return err
	}
	return nil
}

// Run executes every step of sc. It stops at the first step whose
// expectations fail or that cannot be executed. The returned error is only
// non-nil when the page could not be built; inspect Report.Passed and
// Report.Err for the outcome.
func (r *Runner) Run(ctx context.Context, sc *config.Scenario) (*Report, error) {
	ctx, span := r.tracer.Start(ctx, "scenario.run", trace.WithAttributes(
		attribute.String("scenario", sc.Name),
		attribute.Int("steps", len(sc.Steps)),
	))
	defer span.End()

	start := time.Now()
	session, err := r.NewSession(sc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer session.Close()

	report := &Report{
		Scenario: sc.Name,
		Path:     sc.Path(),
		Passed:   true,
	}
	for {
		result, err := session.Step(ctx)
		if stderrors.Is(err, ErrFinished) {
			break
		}
		if err != nil {
			report.Steps = append(report.Steps, result)
			report.Passed = false
			report.err = err
			report.Error = err.Error()
			break
		}
		report.Steps = append(report.Steps, result)
		if !result.Passed() {
			report.Passed = false
			break
		}
	}

	report.Snapshot = session.Snapshot()
	report.Duration = time.Since(start)
	if !report.Passed {
		if report.err == nil {
			report.Error = report.Err().Error()
		}
		span.SetStatus(codes.Error, report.Error)
	}

	r.logger.Info("scenario finished",
		slog.String("scenario", sc.Name),
		slog.Bool("passed", report.Passed),
		slog.Int("steps", len(report.Steps)),
		slog.Duration("duration", report.Duration))
	return report, nil
}

// RunFile loads and runs the scenario at path.
func (r *Runner) RunFile(ctx context.Context, path string) (*Report, error) {
	sc, err := config.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, sc)
}
