// eyemotion is a terminal eye-movement trainer: a ball moves through five
// 45-second stages of increasingly demanding motion while you follow it with
// your eyes.
//
// Usage:
//
//	eyemotion play            - Train from the first (or --stage) stage
//	eyemotion menu            - Pick a stage, view stats, change language
//	eyemotion serve           - Start SSH server for remote training
//	eyemotion bridge          - Serve the simulation to a UI shell over HTTP/WebSocket
//	eyemotion stats           - Show training statistics
//	eyemotion stages          - List the stages
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default from config: 60)
//	--seed <value>     - Set RNG seed for reproducible motion
//	--db <path>        - Set database path (default: ~/.eyemotion/training.db)
//	--config <path>    - Use a specific config file
//	--log-file <path>  - Log file for terminal sessions (default: ~/.eyemotion/eyemotion.log)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/eyemotion/internal/config"
	"github.com/vovakirdan/eyemotion/internal/core"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "eyemotion",
	Short: "Eye Motion - eye movement training in your terminal",
	Long: `Eye Motion moves a ball across the screen in five 45-second stages:
shallow bounces, steep bounces, axis-locked sweeps, nudged diagonals and a
final orbit. Follow the ball with your eyes, not your head.

Available commands:
  play     - Start training directly
  menu     - Interactive stage picker
  serve    - Start SSH server for remote training
  bridge   - Serve the simulation to a UI shell
  stats    - View training statistics
  stages   - List the stages

Examples:
  eyemotion play
  eyemotion play --stage 3
  eyemotion menu
  eyemotion serve --ssh :2222
  eyemotion bridge --addr 127.0.0.1:8765
  eyemotion stats`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.eyemotion/training.db", "Path to training database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for terminal sessions")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bridgeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(stagesCmd)
}

// changed reports whether a local or inherited flag was set on the command line.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// loadSettings reads the config file, .env and the environment, then applies
// command-line flags. Out-of-range values are fixed and reported.
func loadSettings(cmd *cobra.Command) config.Settings {
	settings, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadEnv(&settings); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if changed(cmd, "fps") {
		settings.Display.TickRate = flagFPS
	}
	if changed(cmd, "db") || settings.Storage.DBPath == "" {
		settings.Storage.DBPath = flagDBPath
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return settings
}

// saveLanguage stores lang in the config file. Only the language changes;
// flag and environment overrides are not written back.
func saveLanguage(lang string) error {
	path := flagConfig
	if path == "" {
		path = config.UserConfigPath()
	}
	saved, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	saved.Language = lang
	return config.Save(path, saved)
}

// terminalRuntime sizes the frame loop to the current terminal.
func terminalRuntime(settings config.Settings) core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	rc := settings.Runtime(width, height)
	rc.Seed = flagSeed
	return rc
}

// fileLogger opens the log for terminal sessions, which cannot log to
// stderr while the alternate screen is active. Falls back to discarding.
func fileLogger() (*log.Logger, func()) {
	path := flagLogFile
	if path == "" {
		dir := config.UserDir()
		if dir == "" {
			return log.New(io.Discard), func() {}
		}
		path = filepath.Join(dir, "eyemotion.log")
	}
	path, err := config.ExpandHome(path)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "eyemotion",
	})
	return logger, func() { f.Close() }
}
