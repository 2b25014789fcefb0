package devserver

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/scenario"
)

const menuScenario = `name: menu
widgets: [{name: menu, kind: popover}]
elements:
  - {name: open, widget: menu, part: trigger}
  - {name: panel, widget: menu, part: content}
steps:
  - click: open
  - flush: true
  - expect: {open: {menu: true}, state: {menu: open}}
`

const failingScenario = `name: failing
widgets: [{name: menu, kind: popover}]
elements:
  - {name: open, widget: menu, part: trigger}
steps:
  - expect: {open: {menu: true}}
`

func newTestServer(t *testing.T, files map[string]string) (*Server, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := config.New()
	cfg.Scenarios = dir
	srv := New(Options{Config: cfg})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestListScenarios(t *testing.T) {
	_, ts := newTestServer(t, map[string]string{
		"menu.yaml":  menuScenario,
		"broken.yml": "name: broken\n",
		"notes.txt":  "ignored",
	})

	resp, err := http.Get(ts.URL + "/api/scenarios")
	require.NoError(t, err)
	infos := decode[[]ScenarioInfo](t, resp)

	require.Len(t, infos, 2)
	assert.Equal(t, "broken", infos[0].Name)
	require.NotNil(t, infos[0].Error)
	assert.Equal(t, "F204", infos[0].Error.Code)

	assert.Equal(t, "menu", infos[1].Name)
	assert.Equal(t, "menu", infos[1].Title)
	assert.Equal(t, 3, infos[1].Steps)
	assert.Nil(t, infos[1].Error)
}

func TestRunScenario(t *testing.T) {
	_, ts := newTestServer(t, map[string]string{
		"menu.yaml":    menuScenario,
		"failing.yaml": failingScenario,
		"broken.yaml":  "widgets: [\n",
	})

	run := func(name string) *http.Response {
		resp, err := http.Post(ts.URL+"/api/scenarios/"+name+"/run", "application/json", nil)
		require.NoError(t, err)
		return resp
	}

	resp := run("menu")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[scenario.Report](t, resp)
	assert.True(t, report.Passed)
	assert.Len(t, report.Steps, 3)
	assert.Equal(t, "open", report.Snapshot.Widgets["menu"].State)

	resp = run("failing")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	report = decode[scenario.Report](t, resp)
	assert.False(t, report.Passed)
	assert.Equal(t, []string{"menu: open = false, want true"}, report.Steps[0].Failures)

	resp = run("broken")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]ErrorBody](t, resp)
	assert.Equal(t, "F102", body["error"].Code)

	resp = run("missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body = decode[map[string]ErrorBody](t, resp)
	assert.Equal(t, "F101", body["error"].Code)
}

func TestLiveSession(t *testing.T) {
	srv, ts := newTestServer(t, map[string]string{"menu.yaml": menuScenario})

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{"scenario":"menu"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	info := decode[SessionInfo](t, resp)
	require.NotEmpty(t, info.ID)
	assert.Equal(t, 1, srv.Sessions())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + info.Socket
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() ServerMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}
	send := func(v any) ServerMessage {
		t.Helper()
		require.NoError(t, conn.WriteJSON(v))
		return read()
	}

	msg := read()
	assert.Equal(t, MsgSnapshot, msg.Type)
	require.NotNil(t, msg.Snapshot)
	assert.Equal(t, 0, msg.Snapshot.Next)

	msg = send(ClientMessage{Type: MsgStep})
	assert.Equal(t, MsgStep, msg.Type)
	require.NotNil(t, msg.Result)
	assert.Equal(t, "click", msg.Result.Action)
	assert.True(t, msg.Snapshot.Widgets["menu"].Open)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = read()
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "F302", msg.Error.Code)

	msg = send(ClientMessage{Type: "teleport"})
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "F302", msg.Error.Code)

	msg = send(ClientMessage{Type: MsgSet, Widget: "menu", Option: "nope", Value: true})
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "F205", msg.Error.Code)

	msg = send(ClientMessage{Type: MsgReset})
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.False(t, msg.Snapshot.Widgets["menu"].Open)

	msg = send(ClientMessage{Type: MsgSet, Widget: "menu", Option: "forceVisible", Value: true})
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.True(t, msg.Snapshot.Widgets["menu"].Visible)

	for i := 0; i < 3; i++ {
		msg = send(ClientMessage{Type: MsgStep})
		require.Equal(t, MsgStep, msg.Type)
		assert.Empty(t, msg.Result.Failures)
	}
	msg = send(ClientMessage{Type: MsgStep})
	assert.Equal(t, MsgDone, msg.Type)

	resp, err = http.Get(ts.URL + "/api/sessions/" + info.ID)
	require.NoError(t, err)
	snap := decode[scenario.Snapshot](t, resp)
	assert.Equal(t, 3, snap.Next)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+info.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, srv.Sessions())

	msg = send(ClientMessage{Type: MsgStep})
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "F303", msg.Error.Code)

	resp, err = http.Get(ts.URL + "/api/sessions/" + info.ID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateSessionErrors(t *testing.T) {
	_, ts := newTestServer(t, map[string]string{"menu.yaml": menuScenario})

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]ErrorBody](t, resp)
	assert.Equal(t, "F302", body["error"].Code)

	resp, err = http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(`{"scenario":"ghost"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/ghost", nil)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + config.DefaultMetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(data), `floatkit_devserver_requests_total{route="/healthz",status="200"} 1`)
	assert.Contains(t, string(data), `floatkit_devserver_request_duration_seconds_count{route="/healthz"} 1`)
	assert.Contains(t, string(data), "floatkit_devserver_live_sessions 0")
	assert.Contains(t, string(data), "floatkit_scroll_locks_held")
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Dev.Metrics = false
	ts := httptest.NewServer(New(Options{Config: cfg}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + config.DefaultMetricsPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://tools.example"})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:7070", true},
		{"http://tools.example", true},
		{"http://evil.example", false},
		{"::bad", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://localhost:7070/ws/sessions/x", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, check(r), "origin %q", tt.origin)
	}

	r := httptest.NewRequest(http.MethodGet, "http://localhost:7070/", nil)
	r.Header.Set("Origin", "http://anything")
	assert.True(t, originChecker([]string{"*"})(r))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := New(Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
