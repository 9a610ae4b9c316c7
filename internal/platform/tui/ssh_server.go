package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

// SSHServer serves the training menu over SSH. Every connection runs its own
// session with its own simulation; only the training log is shared.
type SSHServer struct {
	settings config.Settings
	server   *ssh.Server
	store    *storage.Store
	logger   *log.Logger
}

// NewSSHServer creates a server from settings. A nil logger logs to stderr.
func NewSSHServer(settings config.Settings, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "eyemotion-ssh",
		})
	}

	store, err := storage.Open(settings.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open training log", "error", err)
		store = nil
	}

	srv := &SSHServer{
		settings: settings,
		store:    store,
		logger:   logger,
	}

	hostKeyPath, err := resolveHostKey(settings.SSH.HostKeyPath)
	if err != nil {
		srv.closeStore()
		return nil, err
	}

	server, err := wish.NewServer(
		wish.WithAddress(settings.SSH.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(settings.SSH.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKey returns the host key path, defaulting to ~/.eyemotion/host_key,
// and makes sure its directory exists. Wish generates the key on first use.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		dir := config.UserDir()
		if dir == "" {
			return "", errors.New("cannot get home directory for the host key")
		}
		path = filepath.Join(dir, "host_key")
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	rc := s.settings.Runtime(pty.Window.Width, pty.Window.Height)
	rc.Seed = time.Now().UnixNano()

	model := NewSessionModel(s.settings, rc, s.store, s.logger, sess.User())
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.settings.SSH.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		s.closeStore()
		return err
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("could not close training log", "error", err)
		}
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.settings.SSH.Address
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenStats
)

// SessionModel manages the full flow of one connection: menu -> training or
// stats -> menu.
type SessionModel struct {
	settings config.Settings
	runtime  core.RuntimeConfig
	store    *storage.Store
	logger   *log.Logger
	user     string
	screen   sessionScreen
	menu     MenuModel
	game     Model
	stats    StatsModel
	quitting bool
}

// NewSessionModel creates a session for user.
func NewSessionModel(settings config.Settings, rc core.RuntimeConfig, store *storage.Store, logger *log.Logger, user string) SessionModel {
	return SessionModel{
		settings: settings,
		runtime:  rc,
		store:    store,
		logger:   logger,
		user:     user,
		menu:     NewMenuModel(settings, rc.ScreenW, rc.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenStats:
		return m.updateStats(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu drops the menu's own quit command when it only made a choice.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}
	m.settings = m.menu.Settings()

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsStats():
		m.stats = NewStatsModel(m.store, m.user, i18n.MustNew(m.settings.Language), m.runtime.ScreenW, m.runtime.ScreenH)
		m.screen = screenStats
		return m, m.stats.Init()

	case m.menu.Selected() != nil:
		rc := m.runtime
		rc.Stage = m.menu.Selected().Stage
		rc.Seed = time.Now().UnixNano()
		m.game = NewModel(Options{
			Settings:        m.settings,
			Runtime:         rc,
			Store:           m.store,
			Logger:          m.logger,
			User:            m.user,
			ShowStartScreen: true,
			Embedded:        true,
		})
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.stats.Update(msg)
	if stats, ok := next.(StatsModel); ok {
		m.stats = stats
	}

	switch {
	case m.stats.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.stats.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu returns to a fresh menu. The finished game's pending tick is
// dropped by whichever model receives it.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.settings, m.runtime.ScreenW, m.runtime.ScreenH)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenStats:
		return m.stats.View()
	default:
		return m.menu.View()
	}
}
