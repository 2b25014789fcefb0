package devserver

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/internal/scenario"
)

// Live session message types.
const (
	MsgStep     = "step"
	MsgSnapshot = "snapshot"
	MsgReset    = "reset"
	MsgSet      = "set"
	MsgError    = "error"
	MsgDone     = "done"
)

const (
	writeWait = 10 * time.Second
	readLimit = 64 * 1024
)

// ClientMessage is sent by the inspector.
type ClientMessage struct {
	Type   string `json:"type"`
	Widget string `json:"widget,omitempty"`
	Option string `json:"option,omitempty"`
	Value  any    `json:"value,omitempty"`
}

// ServerMessage is sent to the inspector.
type ServerMessage struct {
	Type     string               `json:"type"`
	Result   *scenario.StepResult `json:"result,omitempty"`
	Snapshot *scenario.Snapshot   `json:"snapshot,omitempty"`
	Error    *ErrorBody           `json:"error,omitempty"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	live, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit)

	logger := s.logger.With(slog.String("session", live.id))
	logger.Debug("inspector connected")

	send := func(msg ServerMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("write failed", slog.Any("error", err))
			return false
		}
		return true
	}
	snapshot := func(typ string) ServerMessage {
		snap := live.Snapshot()
		return ServerMessage{Type: typ, Snapshot: &snap}
	}
	fail := func(err error) ServerMessage {
		body := errorBody(err)
		return ServerMessage{Type: MsgError, Error: &body}
	}

	if !send(snapshot(MsgSnapshot)) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("inspector disconnected", slog.Any("error", err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if !send(fail(errors.New("F302").Wrap(err))) {
				return
			}
			continue
		}

		var reply ServerMessage
		switch msg.Type {
		case MsgStep:
			reply = s.step(r, live)
		case MsgSnapshot:
			reply = snapshot(MsgSnapshot)
		case MsgReset:
			if err := live.Reset(); err != nil {
				reply = fail(err)
			} else {
				reply = snapshot(MsgSnapshot)
			}
		case MsgSet:
			if err := live.SetOption(msg.Widget, msg.Option, msg.Value); err != nil {
				reply = fail(err)
			} else {
				reply = snapshot(MsgSnapshot)
			}
		default:
			reply = fail(errors.New("F302").WithDetailf("Unknown message type %q", msg.Type))
		}
		if !send(reply) {
			return
		}
	}
}

// step runs the next step of live and describes the outcome.
func (s *Server) step(r *http.Request, live *liveSession) ServerMessage {
	r, span := s.span(r, "devserver.step", attribute.String("session", live.id))
	defer span.End()

	result, err := live.Step(r.Context())
	snap := live.Snapshot()
	switch {
	case stderrors.Is(err, scenario.ErrFinished):
		return ServerMessage{Type: MsgDone, Snapshot: &snap}
	case err != nil:
		body := errorBody(err)
		return ServerMessage{Type: MsgError, Result: &result, Snapshot: &snap, Error: &body}
	}
	return ServerMessage{Type: MsgStep, Result: &result, Snapshot: &snap}
}
