// Package tui is the Bubble Tea host for eyemotion: the training screen, the
// stage menu, the stats table and the SSH server that serves them remotely.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one frame of the model whose loop scheduled it.
type TickMsg struct {
	Time time.Time
	loop int64
}

var loops atomic.Int64

// nextLoop returns an ID for a new frame loop, so a stale tick from a
// finished model is never mistaken for the current one.
func nextLoop() int64 {
	return loops.Add(1)
}

// tickCmd schedules the next frame at the given rate.
func tickCmd(tickRate int, loop int64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, loop: loop}
	})
}
