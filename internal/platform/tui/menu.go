package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuSubtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

type menuChoice int

const (
	choiceNone menuChoice = iota
	choicePlay
	choiceStats
	choiceLanguage
	choiceQuit
)

// MenuItem is one selectable line of the menu.
type MenuItem struct {
	choice menuChoice
	Stage  int // Starting stage for play items
}

// MenuModel is the Bubble Tea model for the stage picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	settings config.Settings
	catalog  *i18n.Catalog
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected *MenuItem
	stats    bool
	langSet  bool // Language was changed in this menu
}

// NewMenuModel creates a menu for a width×height terminal.
func NewMenuModel(settings config.Settings, width, height int) MenuModel {
	items := make([]MenuItem, 0, motion.FinalStage+3)
	for stage := 1; stage <= motion.FinalStage; stage++ {
		items = append(items, MenuItem{choice: choicePlay, Stage: stage})
	}
	items = append(items,
		MenuItem{choice: choiceStats},
		MenuItem{choice: choiceLanguage},
		MenuItem{choice: choiceQuit},
	)

	h := help.New()
	h.Width = width

	return MenuModel{
		items:    items,
		width:    width,
		height:   height,
		settings: settings,
		catalog:  i18n.MustNew(settings.Language),
		keys:     DefaultMenuKeyMap(),
		help:     h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		return m.choose(m.items[m.cursor])
	}

	return m, nil
}

func (m MenuModel) choose(item MenuItem) (tea.Model, tea.Cmd) {
	switch item.choice {
	case choicePlay:
		m.selected = &item
		return m, tea.Quit

	case choiceStats:
		m.stats = true
		return m, tea.Quit

	case choiceLanguage:
		m.settings.Language = i18n.Next(m.settings.Language)
		m.catalog = i18n.MustNew(m.settings.Language)
		m.langSet = true

	case choiceQuit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MenuModel) label(item MenuItem) string {
	t := m.catalog.T
	switch item.choice {
	case choicePlay:
		if item.Stage == motion.FinalStage {
			return t("menu.stage_final")
		}
		return t("menu.stage", "stage", item.Stage)
	case choiceStats:
		return t("menu.stats")
	case choiceLanguage:
		return t("menu.language", "language", languageName(m.settings.Language))
	case choiceQuit:
		return t("menu.quit")
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(m.catalog.T("app.title")), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(menuSubtleStyle.Render(m.catalog.T("app.subtitle")), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.catalog.T("menu.heading"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if item.choice == choiceStats {
			b.WriteString("\n")
		}
		line := "  " + m.label(item)
		if i == m.cursor {
			line = menuSelectedStyle.Render("> " + m.label(item))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen play item, or nil if none was chosen.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsStats returns true if user opened the training stats.
func (m MenuModel) WantsStats() bool {
	return m.stats
}

// Settings returns the settings as changed by the menu.
func (m MenuModel) Settings() config.Settings {
	return m.settings
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (width, height int) {
	return m.width, m.height
}

func languageName(code string) string {
	for _, l := range i18n.Languages() {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// centerText centers text within given width. Styled and wide text is
// measured by its display width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Stage           int // Starting stage, 0 when nothing was chosen
	Settings        config.Settings
	LanguageChanged bool
	WantsStats      bool
	Quit            bool
	Width, Height   int
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(settings config.Settings, width, height int) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(settings, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Settings: settings, Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Settings: settings, Quit: true, Width: width, Height: height}, nil
	}
	return m.Result(), nil
}

// Result summarizes how the menu ended.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{
		Settings:        m.settings,
		LanguageChanged: m.langSet,
		Width:           m.width,
		Height:          m.height,
	}

	switch {
	case m.stats:
		result.WantsStats = true
	case m.selected != nil:
		result.Stage = m.selected.Stage
	default:
		result.Quit = true
	}
	return result
}
