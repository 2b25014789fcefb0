package devserver

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/internal/scenario"
	"github.com/vango-dev/floatkit/pkg/telemetry"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Options configures the dev server.
type Options struct {
	// Config is the project configuration. Nil uses config.New().
	Config *config.Config

	// Logger receives request and session logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Registry collects the server and widget metrics. Nil creates a
	// private registry.
	Registry *prometheus.Registry

	// ShutdownTimeout bounds graceful shutdown.
	// Default: DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Server is the scenario inspector.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   trace.Tracer
	runner   *scenario.Runner
	sessions *sessionStore
	upgrader websocket.Upgrader
	router   chi.Router
	metrics  *serverMetrics
	timeout  time.Duration
}

// New creates a server. Metrics are registered on the options' registry.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	timeout := opts.ShutdownTimeout
	if timeout == 0 {
		timeout = DefaultShutdownTimeout
	}

	widgets := telemetry.NewMetrics(telemetry.WithRegistry(registry))

	s := &Server{
		config:   cfg,
		logger:   logger.With(slog.String("component", "devserver")),
		registry: registry,
		tracer:   telemetry.Tracer(),
		runner: scenario.New(
			scenario.WithLogger(logger),
			scenario.WithMetrics(widgets),
		),
		sessions: newSessionStore(),
		timeout:  timeout,
	}
	s.metrics = newServerMetrics(registry, s.sessions.Len)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.Dev.AllowedOrigins),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.traceRequests)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/scenarios", s.handleListScenarios)
		r.Post("/scenarios/{name}/run", s.handleRunScenario)

		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})

	r.Get("/ws/sessions/{id}", s.handleLive)

	if s.config.Dev.Metrics {
		r.Method(http.MethodGet, s.config.Dev.MetricsPath,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of open live sessions.
func (s *Server) Sessions() int {
	return s.sessions.Len()
}

// Run listens on the configured dev address and serves until ctx is
// cancelled, then shuts down gracefully and closes every live session.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.DevAddress())
	if err != nil {
		return errors.New("F301").
			WithDetailf("Cannot listen on %s", s.config.DevAddress()).
			WithSuggestion("Pick another port with --port").
			Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dev server listening", slog.String("address", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.sessions.CloseAll()
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("F301").Wrap(err)
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.sessions.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
			return err
		}
		s.logger.Info("dev server stopped")
		return nil
	}
}
