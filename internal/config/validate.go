package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/eyemotion/internal/core"
)

const (
	minTickRate = 10
	maxTickRate = 240
	maxMaxDt    = 1.0
)

// Validate brings out-of-range values back into range and resets unknown
// color names to their defaults. The returned error lists what was changed;
// the settings are usable either way.
func (s *Settings) Validate() error {
	def := DefaultSettings()
	var errs []error

	if s.Display.TickRate < minTickRate || s.Display.TickRate > maxTickRate {
		errs = append(errs, fmt.Errorf("tick_rate %d outside [%d, %d]", s.Display.TickRate, minTickRate, maxTickRate))
		s.Display.TickRate = core.Clamp(s.Display.TickRate, minTickRate, maxTickRate)
	}
	if !(s.Display.MaxDt > 0) || s.Display.MaxDt > maxMaxDt {
		errs = append(errs, fmt.Errorf("max_dt %v outside (0, %v]", s.Display.MaxDt, maxMaxDt))
		s.Display.MaxDt = def.Display.MaxDt
	}
	if !positive(s.Display.CellWidthPx) || !positive(s.Display.CellHeightPx) {
		errs = append(errs, errors.New("cell size must be positive"))
		s.Display.CellWidthPx, s.Display.CellHeightPx = def.Display.CellWidthPx, def.Display.CellHeightPx
	}
	if !positive(s.Display.LogicalWidth) || !positive(s.Display.LogicalHeight) {
		errs = append(errs, errors.New("logical size must be positive"))
		s.Display.LogicalWidth, s.Display.LogicalHeight = def.Display.LogicalWidth, def.Display.LogicalHeight
	}
	// stream_hz 0 leaves ticking to the UI shell.
	if s.Bridge.StreamHz != 0 && (s.Bridge.StreamHz < minTickRate || s.Bridge.StreamHz > maxTickRate) {
		errs = append(errs, fmt.Errorf("bridge stream_hz %d outside 0 or [%d, %d]", s.Bridge.StreamHz, minTickRate, maxTickRate))
		s.Bridge.StreamHz = core.Clamp(s.Bridge.StreamHz, minTickRate, maxTickRate)
	}
	if s.Language == "" {
		s.Language = def.Language
	}

	colors := []struct {
		name     string
		val      *string
		fallback string
	}{
		{"ball", &s.Theme.Ball, def.Theme.Ball},
		{"text", &s.Theme.Text, def.Theme.Text},
		{"accent", &s.Theme.Accent, def.Theme.Accent},
		{"frame", &s.Theme.Frame, def.Theme.Frame},
	}
	for _, c := range colors {
		if _, ok := core.ParseColor(*c.val); !ok {
			errs = append(errs, fmt.Errorf("unknown %s color %q", c.name, *c.val))
			*c.val = c.fallback
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Colors resolves the theme names to renderer colors.
func (t ThemeSettings) Colors() (ball, text, accent, frame core.Color) {
	resolve := func(name string) core.Color {
		c, _ := core.ParseColor(name)
		return c
	}
	return resolve(t.Ball), resolve(t.Text), resolve(t.Accent), resolve(t.Frame)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
