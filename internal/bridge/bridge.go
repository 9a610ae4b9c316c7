// Package bridge exposes one simulation to an external UI shell over HTTP
// and a WebSocket. The shell sends commands and receives a state frame after
// every change; the simulation itself never touches the network.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

// Options configure a bridge server.
type Options struct {
	Settings config.Settings
	Logger   *log.Logger // Defaults to stderr
	Seed     int64       // 0 seeds from the clock

	// SaveSettings persists settings changed through the API, e.g. the
	// language. May be nil.
	SaveSettings func(config.Settings) error
}

// Frame is the payload of an "update" message: the full state after a
// change and whatever the change emitted.
type Frame struct {
	State  *motion.GameState `json:"state"`
	Update motion.Update     `json:"update"`
}

// Server owns the simulation and serves it to UI shells.
type Server struct {
	mu       sync.Mutex // Guards state and settings
	state    *motion.GameState
	settings config.Settings
	runtime  core.RuntimeConfig
	save     func(config.Settings) error

	hub     *Hub
	engine  *gin.Engine
	logger  *log.Logger
	started time.Time
}

// New creates a bridge server. The simulation opens on the start screen at
// the configured logical resolution.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "eyemotion-bridge",
		})
	}

	rc := opts.Settings.Runtime(0, 0)
	rc.Seed = opts.Seed
	if opts.Settings.Bridge.StreamHz > 0 {
		rc.TickRate = opts.Settings.Bridge.StreamHz
	}

	w, h := opts.Settings.Display.LogicalWidth, opts.Settings.Display.LogicalHeight
	state := motion.NewGameState(w, h, motion.NewRand(rc.Seed))
	state.SetStartScreen(true)

	s := &Server{
		state:    state,
		settings: opts.Settings,
		runtime:  rc,
		save:     opts.SaveSettings,
		hub:      NewHub(opts.Logger),
		logger:   opts.Logger,
		started:  time.Now(),
	}
	s.hub.onConnect = s.greet
	s.hub.onMessage = s.handleMessage
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API and the socket.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address and drives the simulation at the
// stream rate until ctx is done. A stream_hz of 0 leaves ticking to the
// shell's "tick" commands.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.settings.Bridge.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)
	if s.settings.Bridge.StreamHz > 0 {
		go s.stream(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("starting bridge", "address", srv.Addr, "stream_hz", s.settings.Bridge.StreamHz)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("bridge: %w", err)
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// stream ticks the simulation with the measured frame time.
func (s *Server) stream(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.runtime.TickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Step(dt)
		}
	}
}

// Step advances the simulation by dt seconds, clamped to max_dt, and
// broadcasts the result. A physics error keeps the last good state.
func (s *Server) Step(dt float64) (motion.Update, error) {
	s.mu.Lock()
	upd, err := s.state.Tick(s.runtime.ClampDt(dt))
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("physics error, keeping last good state", "error", err)
		return motion.Update{}, err
	}
	frame := s.encodeFrame(upd)
	s.mu.Unlock()

	s.logEvents(upd.Events)
	if frame != nil {
		s.hub.Broadcast(frame)
	}
	return upd, nil
}

// Snapshot returns a copy of the current state.
func (s *Server) Snapshot() motion.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// encodeFrame must be called with s.mu held.
func (s *Server) encodeFrame(upd motion.Update) []byte {
	data, err := encode(TypeUpdate, Frame{State: s.state, Update: upd})
	if err != nil {
		s.logger.Error("cannot encode frame", "error", err)
		return nil
	}
	return data
}

// greet sends a new client the current state.
func (s *Server) greet(c *Client) {
	s.mu.Lock()
	frame := Frame{State: s.state}
	data, err := encode(TypeUpdate, frame)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("cannot encode frame", "error", err)
		return
	}
	c.sendRaw(data)
}

func (s *Server) logEvents(events []motion.Event) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case motion.StageChanged:
			s.logger.Info("stage changed", "from", ev.From, "to", ev.To)
		case motion.GameOver:
			s.logger.Info("game over")
		}
	}
}
