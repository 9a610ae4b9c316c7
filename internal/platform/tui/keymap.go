package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/i18n"
)

// GameKeyMap holds the training screen's bindings.
type GameKeyMap struct {
	Primary   key.Binding
	Restart   key.Binding
	NextStage key.Binding
	PrevStage key.Binding
	Bell      key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Primary, k.Restart, k.NextStage, k.PrevStage, k.Bell, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Primary, k.Restart},
		{k.NextStage, k.PrevStage},
		{k.Bell, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns the bindings with help text from cat.
func DefaultGameKeyMap(cat *i18n.Catalog) GameKeyMap {
	return GameKeyMap{
		Primary: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", cat.T("help.start")),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", cat.T("help.restart")),
		),
		NextStage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", cat.T("help.next")),
		),
		PrevStage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", cat.T("help.prev")),
		),
		Bell: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", cat.T("help.bell")),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", cat.T("help.back")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", cat.T("help.quit")),
		),
	}
}

// Action translates a key press into a host action.
func (k GameKeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Primary):
		return core.ActionPrimary
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.NextStage):
		return core.ActionNextStage
	case key.Matches(msg, k.PrevStage):
		return core.ActionPrevStage
	case key.Matches(msg, k.Bell):
		return core.ActionToggleBell
	case key.Matches(msg, k.Back):
		return core.ActionBack
	}
	return core.ActionNone
}

// MenuKeyMap holds the stage menu's bindings.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Quit}}
}

// DefaultMenuKeyMap returns the menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
