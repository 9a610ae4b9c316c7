package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/eyemotion/internal/config"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func menuUpdate(t *testing.T, m MenuModel, msgs ...tea.Msg) MenuModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		got, ok := next.(MenuModel)
		if !ok {
			t.Fatalf("Update returned %T, expected MenuModel", next)
		}
		m = got
	}
	return m
}

func downN(n int) []tea.Msg {
	msgs := make([]tea.Msg, n)
	for i := range msgs {
		msgs[i] = keyDown
	}
	return msgs
}

func TestMenuListsStages(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	view := m.View()

	for _, want := range []string{"EYE MOTION", "Stage 1", "Stage 4", "Stage R", "Training stats", "Language: English", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view is missing %q", want)
		}
	}
}

func TestMenuSelectStage(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	m = menuUpdate(t, m, keyDown, keyDown, keyUp, keyEnter)

	if m.Selected() == nil || m.Selected().Stage != 2 {
		t.Fatalf("Selected() = %+v, expected stage 2", m.Selected())
	}
	if r := m.Result(); r.Stage != 2 || r.Quit || r.WantsStats {
		t.Errorf("Result() = %+v", r)
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	m = menuUpdate(t, m, keyUp)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}

	m = menuUpdate(t, m, downN(20)...)
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, expected the last item", m.cursor)
	}
}

func TestMenuStats(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	m = menuUpdate(t, m, downN(5)...)
	m = menuUpdate(t, m, keyEnter)

	if !m.WantsStats() || !m.Result().WantsStats {
		t.Error("selecting stats should open the stats screen")
	}
}

func TestMenuLanguageToggle(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	m = menuUpdate(t, m, downN(6)...)
	m = menuUpdate(t, m, keyEnter)

	if m.Settings().Language != "zh-Hans" {
		t.Fatalf("Language = %q, expected zh-Hans", m.Settings().Language)
	}
	if m.IsQuitting() || m.Selected() != nil {
		t.Error("changing the language should stay in the menu")
	}
	if !strings.Contains(m.View(), "简体中文") {
		t.Error("menu should redraw in the new language")
	}

	m = menuUpdate(t, m, keyEnter)
	if m.Settings().Language != "en" {
		t.Errorf("Language = %q, expected the toggle to wrap to en", m.Settings().Language)
	}
	if !m.Result().LanguageChanged {
		t.Error("Result should report the language change")
	}
}

func TestMenuQuit(t *testing.T) {
	m := NewMenuModel(config.DefaultSettings(), 80, 24)
	m = menuUpdate(t, m, runeKey('q'))

	if !m.IsQuitting() || !m.Result().Quit {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("a quitting menu should render nothing")
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"abc", 9, "   abc"},
		{"abc", 2, "abc"},
		{"第一", 8, "  第一"},
	}
	for _, tc := range tests {
		if got := centerText(tc.text, tc.width); got != tc.want {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tc.text, tc.width, got, tc.want)
		}
	}
}
