package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/eyemotion.yaml
var defaultYAML []byte

// DefaultSettings returns the built-in settings. The embedded YAML carries
// the same values; this is the fallback if it fails to parse.
func DefaultSettings() Settings {
	return Settings{
		Language: "en",
		Display: DisplaySettings{
			TickRate:       60,
			MaxDt:          0.1,
			FollowTerminal: true,
			CellWidthPx:    8,
			CellHeightPx:   16,
			LogicalWidth:   1920,
			LogicalHeight:  1080,
		},
		Theme: ThemeSettings{
			Ball:   "bright_cyan",
			Text:   "bright_white",
			Accent: "bright_yellow",
			Frame:  "gray",
		},
		Sound: SoundSettings{
			BellOnBounce: false,
		},
		Storage: StorageSettings{
			DBPath: "~/.eyemotion/training.db",
		},
		SSH: SSHSettings{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Bridge: BridgeSettings{
			Address:  "127.0.0.1:8765",
			StreamHz: 60,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
