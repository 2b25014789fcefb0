package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
)

// ErrorBody is the JSON form of a coded error.
type ErrorBody struct {
	Code       string    `json:"code,omitempty"`
	Category   string    `json:"category,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Cause      string    `json:"cause,omitempty"`
}

// Location is a position in a scenario file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

func errorBody(err error) ErrorBody {
	fe := errors.FromError(err, "")
	body := ErrorBody{
		Code:       fe.Code,
		Category:   string(fe.Category),
		Message:    fe.Message,
		Detail:     fe.Detail,
		Suggestion: fe.Suggestion,
	}
	if fe.Wrapped != nil {
		body.Cause = fe.Wrapped.Error()
	}
	if body.Message == "" {
		body.Message = err.Error()
	}
	if fe.Location != nil {
		body.Location = &Location{File: fe.Location.File, Line: fe.Location.Line, Column: fe.Location.Column}
	}
	return body
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]ErrorBody{"error": errorBody(err)})
}

func (s *Server) span(r *http.Request, name string, attrs ...attribute.KeyValue) (*http.Request, trace.Span) {
	ctx, span := s.tracer.Start(r.Context(), name, trace.WithAttributes(attrs...))
	return r.WithContext(ctx), span
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// ScenarioInfo describes a scenario file.
type ScenarioInfo struct {
	Name  string     `json:"name"`
	Title string     `json:"title,omitempty"`
	Path  string     `json:"path"`
	Steps int        `json:"steps"`
	Error *ErrorBody `json:"error,omitempty"`
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	files, err := s.config.ScenarioFiles()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	infos := make([]ScenarioInfo, 0, len(files))
	for _, path := range files {
		info := ScenarioInfo{Name: config.ScenarioName(path), Path: path}
		sc, err := config.LoadScenario(path)
		if err != nil {
			body := errorBody(err)
			info.Error = &body
		} else {
			info.Title = sc.Name
			info.Steps = len(sc.Steps)
		}
		infos = append(infos, info)
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	r, span := s.span(r, "devserver.run", attribute.String("scenario", name))
	defer span.End()

	sc, status, err := s.loadScenario(name)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, status, err)
		return
	}

	report, err := s.runner.Run(r.Context(), sc)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !report.Passed {
		span.SetStatus(codes.Error, report.Error)
		s.writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

type createSessionRequest struct {
	Scenario string `json:"scenario"`
}

// SessionInfo describes a live session.
type SessionInfo struct {
	ID       string    `json:"id"`
	Scenario string    `json:"scenario"`
	Created  time.Time `json:"created"`
	Socket   string    `json:"socket"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scenario == "" {
		s.writeError(w, http.StatusBadRequest,
			errors.New("F302").WithDetail(`The body must be {"scenario": "<name>"}`))
		return
	}

	sc, status, err := s.loadScenario(req.Scenario)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	sess, err := s.runner.NewSession(sc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	live := s.sessions.Add(req.Scenario, sess)
	s.logger.Info("session created", slog.String("session", live.id), slog.String("scenario", req.Scenario))
	s.writeJSON(w, http.StatusCreated, SessionInfo{
		ID:       live.id,
		Scenario: live.name,
		Created:  live.created,
		Socket:   "/ws/sessions/" + live.id,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	live, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, live.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Remove(id) {
		s.writeError(w, http.StatusNotFound, errors.New("F303").WithDetailf("No session %q", id))
		return
	}
	s.logger.Info("session closed", slog.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the {id} URL parameter, writing a 404 if it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*liveSession, bool) {
	id := chi.URLParam(r, "id")
	live, ok := s.sessions.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("F303").WithDetailf("No session %q", id))
	}
	return live, ok
}

// loadScenario finds and parses the scenario called name. The returned
// status is the HTTP status to report on error.
func (s *Server) loadScenario(name string) (*config.Scenario, int, error) {
	files, err := s.config.ScenarioFiles()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	for _, path := range files {
		if config.ScenarioName(path) != name {
			continue
		}
		sc, err := config.LoadScenario(path)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return sc, http.StatusOK, nil
	}
	return nil, http.StatusNotFound, errors.New("F101").
		WithDetailf("No scenario %q in %s", name, s.config.ScenariosPath())
}
