package tui

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/eyemotion/internal/core"
	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/motion"
)

const ballRune = '█'

// Theme is the set of colors a frame is drawn with.
type Theme struct {
	Ball   core.Color
	Text   core.Color
	Accent core.Color
	Frame  core.Color
}

// DefaultTheme matches the default settings.
func DefaultTheme() Theme {
	return Theme{
		Ball:   core.ColorBrightCyan,
		Text:   core.ColorBrightWhite,
		Accent: core.ColorBrightYellow,
		Frame:  core.ColorGray,
	}
}

// Scene draws a GameState into a Screen.
type Scene struct {
	Theme   Theme
	Catalog *i18n.Catalog
}

// StageLabel is how a stage is announced; the final stage is "R".
func StageLabel(stage int) string {
	if stage == motion.FinalStage {
		return "R"
	}
	return strconv.Itoa(stage)
}

// Draw renders one frame of g onto s through the viewport v.
func (sc Scene) Draw(s *core.Screen, g *motion.GameState, v core.Viewport) {
	s.Clear()
	if !v.Valid() || s.Height() == 0 {
		return
	}
	mid := s.Height() / 2
	t := sc.Catalog.T

	switch g.Phase() {
	case motion.PhaseStartScreen:
		s.DrawTextCentered(mid-2, t("app.title"), sc.Theme.Accent)
		s.DrawTextCentered(mid-1, t("app.subtitle"), sc.Theme.Frame)
		s.DrawTextCentered(mid+1, t("start.prompt"), sc.Theme.Text)

	case motion.PhaseTransition:
		s.DrawTextCentered(mid-1, t("game.level", "stage", StageLabel(g.Stage)), sc.Theme.Accent)
		secs := int(math.Ceil(g.TransitionTimer))
		s.DrawTextCentered(mid+1, t("game.countdown", "seconds", max(secs, 1)), sc.Theme.Text)

	case motion.PhasePlaying:
		sc.drawBall(s, g.Ball, v)
		sc.drawHUD(s, g)

	case motion.PhasePaused:
		sc.drawBall(s, g.Ball, v)
		sc.drawHUD(s, g)
		sc.drawBanner(s, t("game.paused"), t("game.paused_hint"))

	case motion.PhaseGameOver:
		sc.drawBanner(s, t("game.game_over"), t("game.game_over_hint"))
	}
}

// drawBall fills every cell whose center lies inside the ball. A ball smaller
// than a cell still gets one cell.
func (sc Scene) drawBall(s *core.Screen, b motion.Ball, v core.Viewport) {
	c0, r0 := v.ToCell(b.X-b.Radius, b.Y-b.Radius)
	c1, r1 := v.ToCell(b.X+b.Radius, b.Y+b.Radius)
	bounds := core.NewRect(0, 0, s.Width(), s.Height())
	filled := false
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !bounds.Contains(col, row) {
				continue
			}
			x, y := v.CellCenter(col, row)
			if math.Hypot(x-b.X, y-b.Y) <= b.Radius {
				s.SetColored(col, row, ballRune, sc.Theme.Ball)
				filled = true
			}
		}
	}
	if !filled {
		col, row := v.ToCell(b.X, b.Y)
		s.SetColored(col, row, '●', sc.Theme.Ball)
	}
}

func (sc Scene) drawHUD(s *core.Screen, g *motion.GameState) {
	secs := int(math.Ceil(g.Remaining()))
	s.DrawTextColored(1, 0, sc.Catalog.T("game.time", "seconds", secs), sc.Theme.Text)
	level := sc.Catalog.T("game.level", "stage", StageLabel(g.Stage))
	s.DrawTextColored(s.Width()-core.TextWidth(level)-1, 0, level, sc.Theme.Frame)
}

func (sc Scene) drawBanner(s *core.Screen, title, hint string) {
	w := max(core.TextWidth(title), core.TextWidth(hint)) + 6
	box := core.Centered(s.Width(), s.Height(), min(w, s.Width()), 5)
	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		for x := box.X + 1; x < box.Right()-1; x++ {
			s.Set(x, y, ' ')
		}
	}
	s.DrawBox(box, sc.Theme.Frame)
	s.DrawTextCentered(box.Y+1, title, sc.Theme.Accent)
	s.DrawTextCentered(box.Y+3, hint, sc.Theme.Text)
}

// debugLine summarizes the state for logs.
func debugLine(g *motion.GameState) string {
	return fmt.Sprintf("stage=%d phase=%s elapsed=%.2f ball=(%.0f,%.0f) v=(%.0f,%.0f)",
		g.Stage, g.Phase(), g.StageElapsed, g.Ball.X, g.Ball.Y, g.Ball.VX, g.Ball.VY)
}
