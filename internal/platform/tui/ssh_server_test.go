package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	return NewSessionModel(config.DefaultSettings(), core.DefaultConfig(), openStore(t), nil, "dave")
}

func sessionUpdate(t *testing.T, m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		got, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T, expected SessionModel", next)
		}
		m = got
	}
	return m, cmd
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	m := newTestSession(t)
	m, cmd := sessionUpdate(t, m, keyDown, keyDown, keyEnter)

	if m.screen != screenGame {
		t.Fatalf("screen = %v, expected the game", m.screen)
	}
	if cmd == nil {
		t.Error("entering the game should start its frame loop")
	}
	if m.game.State().Stage != 3 || m.game.State().Phase() != motion.PhaseStartScreen {
		t.Errorf("game stage = %d phase = %v, expected stage 3 on the start screen",
			m.game.State().Stage, m.game.State().Phase())
	}

	m, _ = sessionUpdate(t, m, keyEsc)
	if m.screen != screenMenu || m.quitting {
		t.Errorf("esc should return to the menu, screen = %v quitting = %v", m.screen, m.quitting)
	}
	if m.menu.Selected() != nil {
		t.Error("the menu should be fresh after a game")
	}
}

func TestSessionStaleTickInMenu(t *testing.T) {
	m := newTestSession(t)
	m, _ = sessionUpdate(t, m, keyEnter)
	loop := m.game.loop
	m, _ = sessionUpdate(t, m, keyEsc)

	m, cmd := sessionUpdate(t, m, TickMsg{loop: loop})
	if cmd != nil || m.screen != screenMenu {
		t.Error("a stale game tick should be ignored by the menu")
	}
}

func TestSessionStats(t *testing.T) {
	m := newTestSession(t)
	m, _ = sessionUpdate(t, m, downN(5)...)
	m, _ = sessionUpdate(t, m, keyEnter)
	if m.screen != screenStats {
		t.Fatalf("screen = %v, expected stats", m.screen)
	}

	m, _ = sessionUpdate(t, m, keyEsc)
	if m.screen != screenMenu || m.quitting {
		t.Error("esc should return from stats to the menu")
	}
}

func TestSessionLanguageCarriesIntoGame(t *testing.T) {
	m := newTestSession(t)
	m, _ = sessionUpdate(t, m, downN(6)...)
	m, _ = sessionUpdate(t, m, keyEnter)
	for range 6 {
		m, _ = sessionUpdate(t, m, keyUp)
	}
	m, _ = sessionUpdate(t, m, keyEnter)

	if m.screen != screenGame {
		t.Fatalf("screen = %v, expected the game", m.screen)
	}
	if m.game.catalog.Lang() != "zh-Hans" {
		t.Errorf("game language = %q, expected zh-Hans", m.game.catalog.Lang())
	}
}

func TestSessionQuitFromGame(t *testing.T) {
	m := newTestSession(t)
	m, _ = sessionUpdate(t, m, keyEnter)
	m, cmd := sessionUpdate(t, m, runeKey('q'))

	if !m.quitting || cmd == nil {
		t.Error("q in the game should end the SSH session")
	}
	if m.View() != "" {
		t.Error("a quitting session should render nothing")
	}
}

func TestSessionTracksWindowSize(t *testing.T) {
	m := newTestSession(t)
	m, _ = sessionUpdate(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, keyEnter)

	if m.game.screen.Width() != 120 || m.game.screen.Height() != 39 {
		t.Errorf("game screen = %dx%d, expected 120x39", m.game.screen.Width(), m.game.screen.Height())
	}
}
