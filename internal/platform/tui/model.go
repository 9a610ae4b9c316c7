package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/motion"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

// LocalUser is the training log owner for sessions played in the local terminal.
const LocalUser = "local"

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Options configure a training screen.
type Options struct {
	Settings config.Settings
	Runtime  core.RuntimeConfig
	Store    *storage.Store // May be nil; sessions are then not recorded
	Logger   *log.Logger    // May be nil
	User     string         // Training log owner, LocalUser when empty

	// ShowStartScreen opens on the title screen instead of the first countdown.
	ShowStartScreen bool

	// Embedded leaves Back to the parent model instead of quitting the program.
	Embedded bool
}

// sessionLog tracks the session being played for the training log.
type sessionLog struct {
	started time.Time
	played  time.Duration
	highest int
	saved   bool
}

func newSessionLog(stage int) sessionLog {
	return sessionLog{started: time.Now(), highest: stage}
}

// Model is the Bubble Tea model for one training session.
type Model struct {
	opts     Options
	state    *motion.GameState
	screen   *core.Screen
	viewport core.Viewport
	scene    Scene
	catalog  *i18n.Catalog
	keys     GameKeyMap
	help     help.Model
	input    core.InputFrame
	loop     int64
	lastTick time.Time
	session  sessionLog

	bell       bool // Ring the terminal bell on bounces
	ring       bool // A bounce happened this frame
	quitting   bool
	backToMenu bool
}

// NewModel creates a training screen sized from opts.Runtime.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.User == "" {
		opts.User = LocalUser
	}

	cat, err := i18n.New(opts.Settings.Language)
	if err != nil {
		opts.Logger.Warn("unsupported language, using default", "language", opts.Settings.Language, "error", err)
	}

	var theme Theme
	theme.Ball, theme.Text, theme.Accent, theme.Frame = opts.Settings.Theme.Colors()

	cols, rows := opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-1, 0)
	lw, lh := opts.Settings.Display.LogicalSize(cols, rows)

	state := motion.NewGameState(lw, lh, motion.NewRand(opts.Runtime.Seed))
	state.SetStartScreen(opts.ShowStartScreen)
	state.GoToStage(opts.Runtime.Stage)

	h := help.New()
	h.Width = opts.Runtime.ScreenW

	return Model{
		opts:     opts,
		state:    state,
		screen:   core.NewScreen(cols, rows),
		viewport: core.NewViewport(cols, rows, lw, lh),
		scene:    Scene{Theme: theme, Catalog: cat},
		catalog:  cat,
		keys:     DefaultGameKeyMap(cat),
		help:     h,
		session:  newSessionLog(state.Stage),
		loop:     nextLoop(),
		bell:     opts.Settings.Sound.BellOnBounce,
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey queues actions for the next tick. Quit and Back act at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.finishSession(false)
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.finishSession(false)
		m.backToMenu = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit

	default:
		m.input.Push(action)
	}

	return m, nil
}

// handleResize refits the screen and the simulation to the terminal. The
// bottom row is reserved for the help bar.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height

	cols, rows := msg.Width, max(msg.Height-1, 0)
	m.screen.Resize(cols, rows)

	lw, lh := m.opts.Settings.Display.LogicalSize(cols, rows)
	m.viewport = core.NewViewport(cols, rows, lw, lh)
	m.state.Resize(lw, lh)
	m.help.Width = msg.Width

	return m, nil
}

// handleTick measures the real frame time and advances the simulation.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var dt float64
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	m.step(m.opts.Runtime.ClampDt(dt))
	return m, tickCmd(m.opts.Runtime.TickRate, m.loop)
}

// step applies queued input, then ticks the simulation by dt seconds.
func (m *Model) step(dt float64) {
	m.ring = false

	for _, a := range m.input.Actions() {
		m.apply(a)
	}
	m.input.Clear()

	playing := m.state.Phase() == motion.PhasePlaying
	upd, err := m.state.Tick(dt)
	if err != nil {
		m.opts.Logger.Warn("physics error, keeping last good state", "error", err, "state", debugLine(m.state))
		return
	}
	if playing {
		m.session.played += time.Duration(dt * float64(time.Second))
	}
	m.handleEvents(upd.Events)
}

func (m *Model) apply(a core.Action) {
	switch a {
	case core.ActionPrimary:
		if m.state.Phase() == motion.PhaseStartScreen {
			m.state.Start()
			m.session = newSessionLog(m.state.Stage)
			return
		}
		m.state.TogglePause()

	case core.ActionRestart:
		if !m.state.IsGameOver {
			return
		}
		m.state.Reset(m.state.Ball.ScreenW, m.state.Ball.ScreenH)
		m.session = newSessionLog(m.state.Stage)
		m.opts.Logger.Info("session restarted", "user", m.opts.User)

	case core.ActionNextStage:
		m.handleEvents(m.state.AdvanceStage())

	case core.ActionPrevStage:
		m.handleEvents(m.state.RetreatStage())

	case core.ActionToggleBell:
		m.bell = !m.bell
		m.opts.Logger.Debug("bell toggled", "on", m.bell)
	}
}

func (m *Model) handleEvents(events []motion.Event) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case motion.BallBounced:
			if m.bell {
				m.ring = true
			}
		case motion.StageCompleted:
			m.opts.Logger.Debug("stage completed", "stage", ev.Stage)
		case motion.StageChanged:
			m.session.highest = max(m.session.highest, ev.To)
			m.opts.Logger.Info("stage changed", "from", ev.From, "to", ev.To, "user", m.opts.User)
		case motion.GameOver:
			m.opts.Logger.Info("game over", "user", m.opts.User, "trained", m.session.played.Round(time.Second))
			m.finishSession(true)
		}
	}
}

// finishSession writes the current session to the training log once.
// Sessions that never reached play are not recorded.
func (m *Model) finishSession(completed bool) {
	if m.session.saved {
		return
	}
	if !completed && m.session.played <= 0 {
		return
	}
	m.session.saved = true
	if m.opts.Store == nil {
		return
	}

	sess := storage.Session{
		User:         m.opts.User,
		StartedAt:    m.session.started,
		Duration:     m.session.played,
		HighestStage: m.session.highest,
		Completed:    completed,
	}
	if _, err := m.opts.Store.SaveSession(sess); err != nil {
		m.opts.Logger.Error("could not save session", "user", m.opts.User, "error", err)
		return
	}
	m.opts.Logger.Info("session saved", "user", m.opts.User, "highest_stage", sess.HighestStage, "completed", completed)
}

// saveScreenshot writes the current frame as plain text under ~/.eyemotion/screenshots.
func (m *Model) saveScreenshot() {
	m.scene.Draw(m.screen, m.state, m.viewport)

	dir := filepath.Join(config.UserDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	name := fmt.Sprintf("stage%d_%s.txt", m.state.Stage, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "error", err)
		return
	}
	m.opts.Logger.Info("screenshot saved", "path", path)
}

// View renders the frame, then the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.scene.Draw(m.screen, m.state, m.viewport)

	var b strings.Builder
	if m.ring {
		b.WriteByte('\a')
	}
	b.WriteString(RenderScreen(m.screen))
	b.WriteByte('\n')

	bell := m.catalog.T("game.bell_off")
	if m.bell {
		bell = m.catalog.T("game.bell_on")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys) + " • " + bell))
	return b.String()
}

// State exposes the simulation, mainly for tests and the SSH session model.
func (m Model) State() *motion.GameState {
	return m.state
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Result is how a training screen ended.
type Result struct {
	BackToMenu bool
}

// Run starts a training screen in the alternate screen and blocks until it exits.
func Run(opts Options) (Result, error) {
	opts.Embedded = false
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	m, ok := final.(Model)
	if !ok {
		return Result{}, nil
	}
	return Result{BackToMenu: m.BackToMenu()}, nil
}
