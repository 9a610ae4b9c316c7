package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, save func(config.Settings) error) *Server {
	t.Helper()
	return New(Options{
		Settings:     config.DefaultSettings(),
		Logger:       log.New(io.Discard),
		Seed:         7,
		SaveSettings: save,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeFrame(t *testing.T, data []byte) Frame {
	t.Helper()
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("cannot decode frame %s: %v", data, err)
	}
	if f.State == nil {
		t.Fatalf("frame %s has no state", data)
	}
	return f
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, expected status ok", rec.Body.String())
	}
}

func TestStateOpensOnStartScreen(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}

	f := decodeFrame(t, rec.Body.Bytes())
	if !f.State.IsStartScreen || f.State.Stage != 1 {
		t.Errorf("state = %+v, expected stage 1 on the start screen", f.State)
	}
	if f.State.Ball.ScreenW != 1920 || f.State.Ball.ScreenH != 1080 {
		t.Errorf("screen = %vx%v, expected the logical 1920x1080", f.State.Ball.ScreenW, f.State.Ball.ScreenH)
	}
}

func TestCommandStartAndPause(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/command", `{"type":"start"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	if f := decodeFrame(t, rec.Body.Bytes()); f.State.IsStartScreen || !f.State.IsTransitioning {
		t.Fatalf("after start: %+v, expected the countdown", f.State)
	}

	for range 31 {
		if _, err := s.Step(0.1); err != nil {
			t.Fatalf("Step() failed: %v", err)
		}
	}
	if got := s.Snapshot(); got.IsTransitioning {
		t.Fatal("countdown should be over after 3.1 s")
	}

	rec = do(t, s, http.MethodPost, "/api/v1/command", `{"type":"toggle_pause"}`)
	if f := decodeFrame(t, rec.Body.Bytes()); !f.State.Paused {
		t.Error("toggle_pause should pause")
	}
}

func TestCommandTickClampsDt(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/command", `{"type":"start"}`)

	rec := do(t, s, http.MethodPost, "/api/v1/command", `{"type":"tick","dt":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("tick status = %d: %s", rec.Code, rec.Body.String())
	}
	f := decodeFrame(t, rec.Body.Bytes())
	want := motion.TransitionSeconds - 0.1
	if math.Abs(f.State.TransitionTimer-want) > 1e-9 {
		t.Errorf("TransitionTimer = %v, expected %v after a clamped tick", f.State.TransitionTimer, want)
	}
}

func TestCommandNavigation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/command", `{"type":"next_stage"}`)
	f := decodeFrame(t, rec.Body.Bytes())
	if f.State.Stage != 2 {
		t.Fatalf("Stage = %d, expected 2", f.State.Stage)
	}
	if !f.Update.Has(motion.StageChanged{From: 1, To: 2}) {
		t.Errorf("events = %v, expected StageChanged 1 -> 2", f.Update.Events)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/command", `{"type":"go_to_stage","stage":5}`)
	if f := decodeFrame(t, rec.Body.Bytes()); f.State.Stage != 5 {
		t.Errorf("Stage = %d, expected 5", f.State.Stage)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/command", `{"type":"next_stage"}`)
	f = decodeFrame(t, rec.Body.Bytes())
	if f.State.Stage != 5 || len(f.Update.Events) != 0 {
		t.Errorf("next at the final stage: stage %d events %v, expected a no-op", f.State.Stage, f.Update.Events)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/command", `{"type":"prev_stage"}`)
	if f := decodeFrame(t, rec.Body.Bytes()); f.State.Stage != 4 {
		t.Errorf("Stage = %d, expected 4", f.State.Stage)
	}
}

func TestCommandResetAndResize(t *testing.T) {
	s := newTestServer(t, nil)
	do(t, s, http.MethodPost, "/api/v1/command", `{"type":"go_to_stage","stage":3}`)

	rec := do(t, s, http.MethodPost, "/api/v1/command", `{"type":"resize","w":800,"h":600}`)
	f := decodeFrame(t, rec.Body.Bytes())
	if f.State.Ball.ScreenW != 800 || f.State.Ball.ScreenH != 600 {
		t.Errorf("screen = %vx%v, expected 800x600", f.State.Ball.ScreenW, f.State.Ball.ScreenH)
	}
	if f.State.Stage != 3 {
		t.Errorf("resize changed the stage to %d", f.State.Stage)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/command", `{"type":"reset"}`)
	f = decodeFrame(t, rec.Body.Bytes())
	if f.State.Stage != 1 || !f.State.IsTransitioning {
		t.Errorf("after reset: stage %d transitioning %v", f.State.Stage, f.State.IsTransitioning)
	}
	if f.State.Ball.ScreenW != 800 {
		t.Errorf("reset without a size should keep 800 wide, got %v", f.State.Ball.ScreenW)
	}
}

func TestCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"type":`},
		{"missing type", `{"w":10}`},
		{"unknown type", `{"type":"jump"}`},
		{"zero resize", `{"type":"resize","w":0,"h":600}`},
		{"negative reset", `{"type":"reset","w":-1,"h":600}`},
		{"stage out of range", `{"type":"go_to_stage","stage":9}`},
		{"negative dt", `{"type":"tick","dt":-1}`},
	}

	s := newTestServer(t, nil)
	before := s.Snapshot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/command", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("body = %s, expected an error", rec.Body.String())
			}
		})
	}
	if after := s.Snapshot(); after.Stage != before.Stage || after.Ball != before.Ball {
		t.Error("rejected commands should not change the state")
	}
}

func TestStages(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/stages", "")

	var body struct {
		Stages []struct {
			Stage  int     `json:"stage"`
			Speed  float64 `json:"speed"`
			Policy string  `json:"policy"`
		} `json:"stages"`
		DurationMS int `json:"duration_ms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot decode stages: %v", err)
	}
	if len(body.Stages) != motion.FinalStage || body.DurationMS != motion.StageDurationMS {
		t.Fatalf("got %d stages of %d ms", len(body.Stages), body.DurationMS)
	}
	if body.Stages[2].Speed != 1625 || body.Stages[4].Policy != "Orbit" {
		t.Errorf("stages = %+v", body.Stages)
	}
}

func TestLanguage(t *testing.T) {
	var saved []config.Settings
	s := newTestServer(t, func(st config.Settings) error {
		saved = append(saved, st)
		return nil
	})

	rec := do(t, s, http.MethodGet, "/api/v1/language", "")
	if !strings.Contains(rec.Body.String(), `"language":"en"`) {
		t.Errorf("body = %s, expected en", rec.Body.String())
	}

	rec = do(t, s, http.MethodPut, "/api/v1/language", `{"language":"zh-Hans"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(saved) != 1 || saved[0].Language != "zh-Hans" {
		t.Errorf("saved = %+v, expected one save with zh-Hans", saved)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/language", `{"language":"fr"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400 for an unsupported language", rec.Code)
	}
	if len(saved) != 1 {
		t.Error("a rejected language should not be saved")
	}
}

func TestTheme(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/v1/theme", "")
	if !strings.Contains(rec.Body.String(), `"ball":"bright_cyan"`) {
		t.Errorf("body = %s, expected the default ball color", rec.Body.String())
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("cannot decode message %s: %v", data, err)
	}
	return msg
}

func TestWebSocket(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	defer conn.Close()

	msg := readMessage(t, conn)
	if msg.Type != TypeUpdate {
		t.Fatalf("first message type = %q, expected %q", msg.Type, TypeUpdate)
	}
	if f := decodeFrame(t, msg.Data); !f.State.IsStartScreen {
		t.Error("greeting should carry the start screen state")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"command","data":{"type":"start"}}`)); err != nil {
		t.Fatalf("WriteMessage() failed: %v", err)
	}
	msg = readMessage(t, conn)
	if f := decodeFrame(t, msg.Data); msg.Type != TypeUpdate || f.State.IsStartScreen {
		t.Errorf("after start: type %q state %+v", msg.Type, f.State)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"command","data":{"type":"jump"}}`)); err != nil {
		t.Fatalf("WriteMessage() failed: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("unknown command reply type = %q, expected %q", msg.Type, TypeError)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("WriteMessage() failed: %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Errorf("malformed message reply type = %q, expected %q", msg.Type, TypeError)
	}

	// Ticks driven over HTTP reach socket clients too.
	body := bytes.NewBufferString(`{"type":"tick","dt":0.05}`)
	resp, err := http.Post(srv.URL+"/api/v1/command", "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	msg = readMessage(t, conn)
	if f := decodeFrame(t, msg.Data); f.State.TransitionTimer >= motion.TransitionSeconds {
		t.Errorf("TransitionTimer = %v, expected the countdown to move", f.State.TransitionTimer)
	}
}
