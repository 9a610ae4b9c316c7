package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

// Stats layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the summary beside the table
	sidebarWidth       = 30  // Width of the summary sidebar
	maxSessions        = 100 // Max sessions to load
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// StatsKeyMap defines the key bindings for the stats screen.
type StatsKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsModel is the Bubble Tea model for the training stats screen.
type StatsModel struct {
	store       *storage.Store
	user        string
	catalog     *i18n.Catalog
	stats       storage.TrainingStats
	sessions    []storage.Session
	loadErr     error
	table       table.Model
	help        help.Model
	keys        StatsKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewStatsModel creates a stats screen for user's sessions.
func NewStatsModel(store *storage.Store, user string, cat *i18n.Catalog, width, height int) StatsModel {
	h := help.New()
	h.Width = width

	m := StatsModel{
		store:       store,
		user:        user,
		catalog:     cat,
		keys:        DefaultStatsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates the sessions table sized to the terminal.
func (m *StatsModel) createTable() table.Model {
	t := m.catalog.T
	columns := []table.Column{
		{Title: t("stats.started"), Width: 16},
		{Title: t("stats.duration"), Width: 10},
		{Title: t("stats.stage"), Width: 6},
		{Title: t("stats.completed"), Width: 10},
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	tbl.SetStyles(s)

	return tbl
}

// load reads the summary and recent sessions from the store.
func (m *StatsModel) load() {
	m.stats, m.sessions, m.loadErr = storage.TrainingStats{}, nil, nil
	if m.store != nil {
		m.stats, m.loadErr = m.store.Stats(m.user)
		if m.loadErr == nil {
			m.sessions, m.loadErr = m.store.RecentSessions(m.user, maxSessions)
		}
	}
	m.updateTableRows()
}

// updateTableRows fills the table from the loaded sessions.
func (m *StatsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = SessionRow(s, m.catalog)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// SessionRow formats a session for display.
func SessionRow(s storage.Session, cat *i18n.Catalog) []string {
	completed := cat.T("stats.answer_no")
	if s.Completed {
		completed = cat.T("stats.answer_yes")
	}
	return []string{
		s.StartedAt.Local().Format("Jan 02 15:04"),
		FormatDuration(s.Duration),
		StageLabel(s.HighestStage),
		completed,
	}
}

// FormatDuration renders a training time to the second, e.g. "1h02m05s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	mins := int(d/time.Minute) % 60
	secs := int(d/time.Second) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, mins, secs)
	case mins > 0:
		return fmt.Sprintf("%dm%02ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// Summary renders the aggregate lines shown above or beside the table.
func Summary(st storage.TrainingStats, cat *i18n.Catalog) string {
	highest := "-"
	if st.HighestStage > 0 {
		highest = StageLabel(st.HighestStage)
	}
	lines := [][2]string{
		{cat.T("stats.sessions_completed"), fmt.Sprintf("%d / %d", st.SessionsCompleted, st.SessionsStarted)},
		{cat.T("stats.total_training_time"), FormatDuration(st.TotalTrainingTime)},
		{cat.T("stats.highest_stage"), highest},
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(menuSubtleStyle.Render(l[0]))
		b.WriteString("\n  ")
		b.WriteString(menuSelectedStyle.Render(l[1]))
	}
	return b.String()
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(menuTitleStyle.Render(m.catalog.T("stats.title")), m.width))
	b.WriteString("\n\n")

	summary := boxStyle.Render(Summary(m.stats, m.catalog))
	recent := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(sidebarWidth).Render(summary), "  ", recent))
	} else {
		b.WriteString(summary)
		b.WriteString("\n")
		b.WriteString(recent)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table, an error or the empty message.
func (m StatsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 2)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render(m.loadErr.Error())
	case len(m.sessions) == 0:
		return emptyStyle.Render(m.catalog.T("stats.empty"))
	}
	return menuSubtleStyle.Render(m.catalog.T("stats.recent")) + "\n" + m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m StatsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the stats screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunStats(store *storage.Store, user string, cat *i18n.Catalog, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewStatsModel(store, user, cat, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(StatsModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
