package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

// Message types.
const (
	TypeUpdate  = "update"  // Server -> UI: a Frame
	TypeCommand = "command" // UI -> server: a Command
	TypeError   = "error"   // Server -> UI: an errorBody
)

// Command types accepted by POST /api/v1/command and "command" messages.
const (
	CmdStart       = "start"
	CmdTogglePause = "toggle_pause"
	CmdReset       = "reset"
	CmdResize      = "resize"
	CmdNextStage   = "next_stage"
	CmdPrevStage   = "prev_stage"
	CmdGoToStage   = "go_to_stage"
	CmdTick        = "tick"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errInvalidSize    = errors.New("width and height must be positive")
	errInvalidStage   = errors.New("stage out of range")
	errInvalidDt      = errors.New("dt must be a finite non-negative number")
)

// Command is a UI request. W and H are used by reset and resize, Stage by
// go_to_stage and Dt by tick.
type Command struct {
	Type  string  `json:"type" binding:"required"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Stage int     `json:"stage"`
	Dt    float64 `json:"dt"`
}

type errorBody struct {
	Error string `json:"error"`
}

type languageBody struct {
	Language string `json:"language" binding:"required"`
}

// routes builds the gin engine.
func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.GET("/state", s.getState)
		v1.POST("/command", s.postCommand)
		v1.GET("/stages", s.getStages)
		v1.GET("/theme", s.getTheme)
		v1.GET("/language", s.getLanguage)
		v1.PUT("/language", s.putLanguage)
		v1.GET("/ws", s.websocket)
	}
	return router
}

// requestLogger logs each request through the server's logger.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "eyemotion-bridge",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"clients": s.hub.Len(),
	})
}

func (s *Server) getState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, Frame{State: s.state})
}

func (s *Server) postCommand(c *gin.Context) {
	var cmd Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid command: " + err.Error()})
		return
	}

	frame, err := s.Apply(cmd)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, frame)
}

func (s *Server) getStages(c *gin.Context) {
	stages := motion.Stages()
	out := make([]gin.H, 0, len(stages))
	for _, st := range stages {
		out = append(out, gin.H{
			"stage":   st.Stage,
			"speed":   st.Speed,
			"policy":  st.Policy.String(),
			"summary": st.Summary,
		})
	}
	c.JSON(http.StatusOK, gin.H{"stages": out, "duration_ms": motion.StageDurationMS})
}

func (s *Server) getTheme(c *gin.Context) {
	s.mu.Lock()
	theme := s.settings.Theme
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"ball":   theme.Ball,
		"text":   theme.Text,
		"accent": theme.Accent,
		"frame":  theme.Frame,
	})
}

func (s *Server) getLanguage(c *gin.Context) {
	s.mu.Lock()
	lang := s.settings.Language
	s.mu.Unlock()

	langs := make([]gin.H, 0, len(i18n.Languages()))
	for _, l := range i18n.Languages() {
		langs = append(langs, gin.H{"code": l.Code, "name": l.Name})
	}
	c.JSON(http.StatusOK, gin.H{"language": lang, "languages": langs})
}

func (s *Server) putLanguage(c *gin.Context) {
	var body languageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid body: " + err.Error()})
		return
	}
	if !i18n.Supported(body.Language) {
		c.JSON(http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unsupported language %q", body.Language)})
		return
	}

	s.mu.Lock()
	s.settings.Language = body.Language
	settings := s.settings
	s.mu.Unlock()

	if s.save != nil {
		if err := s.save(settings); err != nil {
			s.logger.Error("could not save settings", "error", err)
			c.JSON(http.StatusInternalServerError, errorBody{Error: "could not save settings"})
			return
		}
	}
	s.logger.Info("language changed", "language", body.Language)
	c.JSON(http.StatusOK, gin.H{"language": body.Language})
}

func (s *Server) websocket(c *gin.Context) {
	if err := s.hub.serve(c.Writer, c.Request); err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
	}
}

// handleMessage applies commands sent over the socket. The resulting frame
// reaches the sender through the broadcast.
func (s *Server) handleMessage(c *Client, msg Message) {
	if msg.Type != TypeCommand {
		c.Send(TypeError, errorBody{Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		return
	}

	var cmd Command
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		c.Send(TypeError, errorBody{Error: "invalid command: " + err.Error()})
		return
	}
	if _, err := s.Apply(cmd); err != nil {
		c.Send(TypeError, errorBody{Error: err.Error()})
	}
}

// Apply runs one command against the simulation and broadcasts the result.
func (s *Server) Apply(cmd Command) (Frame, error) {
	if cmd.Type == CmdTick {
		if math.IsNaN(cmd.Dt) || math.IsInf(cmd.Dt, 0) || cmd.Dt < 0 {
			return Frame{}, errInvalidDt
		}
		upd, err := s.Step(cmd.Dt)
		if err != nil {
			return Frame{}, err
		}
		snap := s.Snapshot()
		return Frame{State: &snap, Update: upd}, nil
	}

	s.mu.Lock()
	events, err := s.applyLocked(cmd)
	if err != nil {
		s.mu.Unlock()
		return Frame{}, err
	}
	upd := motion.Update{Events: events}
	data := s.encodeFrame(upd)
	snap := *s.state
	s.mu.Unlock()

	s.logger.Debug("command applied", "type", cmd.Type)
	s.logEvents(events)
	if data != nil {
		s.hub.Broadcast(data)
	}
	return Frame{State: &snap, Update: upd}, nil
}

// applyLocked must be called with s.mu held.
func (s *Server) applyLocked(cmd Command) ([]motion.Event, error) {
	g := s.state
	switch cmd.Type {
	case CmdStart:
		g.Start()
	case CmdTogglePause:
		g.TogglePause()
	case CmdReset:
		w, h := cmd.W, cmd.H
		if w == 0 && h == 0 {
			w, h = g.Ball.ScreenW, g.Ball.ScreenH
		}
		if !validSize(w, h) {
			return nil, errInvalidSize
		}
		g.Reset(w, h)
	case CmdResize:
		if !validSize(cmd.W, cmd.H) {
			return nil, errInvalidSize
		}
		g.Resize(cmd.W, cmd.H)
	case CmdNextStage:
		return g.AdvanceStage(), nil
	case CmdPrevStage:
		return g.RetreatStage(), nil
	case CmdGoToStage:
		if !motion.ValidStage(cmd.Stage) {
			return nil, errInvalidStage
		}
		return g.GoToStage(cmd.Stage), nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownCommand, cmd.Type)
	}
	return nil, nil
}

func validSize(w, h float64) bool {
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}
