// Package config loads eyemotion's YAML settings, applies .env and
// environment overrides, and saves user changes back to disk.
package config

import (
	"time"

	"github.com/vovakirdan/eyemotion/internal/core"
)

// Settings is the full user-facing configuration.
type Settings struct {
	Language string          `yaml:"language"` // "en" or "zh-Hans"
	Display  DisplaySettings `yaml:"display"`
	Theme    ThemeSettings   `yaml:"theme"`
	Sound    SoundSettings   `yaml:"sound"`
	Storage  StorageSettings `yaml:"storage"`
	SSH      SSHSettings     `yaml:"ssh"`
	Bridge   BridgeSettings  `yaml:"bridge"`
}

// DisplaySettings controls the frame loop and how the simulation's logical
// screen maps onto the terminal.
type DisplaySettings struct {
	TickRate int     `yaml:"tick_rate"` // Frames per second
	MaxDt    float64 `yaml:"max_dt"`    // Per-frame dt cap in seconds

	// FollowTerminal sizes the logical screen from the terminal's cell grid
	// (cols*cell_width_px by rows*cell_height_px) so the ball stays round.
	// When false the fixed logical size below is used.
	FollowTerminal bool    `yaml:"follow_terminal"`
	CellWidthPx    float64 `yaml:"cell_width_px"`
	CellHeightPx   float64 `yaml:"cell_height_px"`
	LogicalWidth   float64 `yaml:"logical_width"`
	LogicalHeight  float64 `yaml:"logical_height"`
}

// ThemeSettings names the colors used by the terminal renderer.
type ThemeSettings struct {
	Ball   string `yaml:"ball"`
	Text   string `yaml:"text"`
	Accent string `yaml:"accent"`
	Frame  string `yaml:"frame"`
}

// SoundSettings controls the terminal bell.
type SoundSettings struct {
	BellOnBounce bool `yaml:"bell_on_bounce"`
}

// StorageSettings locates the training log.
type StorageSettings struct {
	DBPath string `yaml:"db_path"`
}

// SSHSettings configures the wish server.
type SSHSettings struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// BridgeSettings configures the HTTP/WebSocket bridge.
type BridgeSettings struct {
	Address  string `yaml:"address"`
	StreamHz int    `yaml:"stream_hz"` // Server ticks per second; 0 leaves ticking to the UI
}

// LogicalSize returns the simulation screen size for a cols×rows terminal.
func (d DisplaySettings) LogicalSize(cols, rows int) (w, h float64) {
	if d.FollowTerminal && cols > 0 && rows > 0 {
		return float64(cols) * d.CellWidthPx, float64(rows) * d.CellHeightPx
	}
	return d.LogicalWidth, d.LogicalHeight
}

// Runtime builds the frame-loop config for a cols×rows terminal.
func (s Settings) Runtime(cols, rows int) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if cols > 0 && rows > 0 {
		rc.ScreenW, rc.ScreenH = cols, rows
	}
	rc.TickRate = s.Display.TickRate
	rc.MaxDt = s.Display.MaxDt
	return rc
}
