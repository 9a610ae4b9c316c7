package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/motion"
	"github.com/vovakirdan/eyemotion/internal/platform/tui"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

var flagStage int

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start training",
	Long: `Start a training session in the terminal.

Keep your head still and follow the ball with your eyes. Each stage lasts
45 seconds, with a 3 second countdown before it.

Controls:
  Space      - Start / pause
  R          - Restart (after game over)
  ] / [      - Next / previous stage
  M          - Toggle the terminal bell on bounces
  Ctrl+S     - Save a screenshot
  Esc        - Leave
  Q/Ctrl+C   - Quit

Examples:
  eyemotion play
  eyemotion play --stage 4
  eyemotion play --seed 42 --fps 30`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagStage, "stage", 1, fmt.Sprintf("Starting stage (1-%d)", motion.FinalStage))
}

func runPlay(cmd *cobra.Command, _ []string) {
	if !motion.ValidStage(flagStage) {
		fmt.Fprintf(os.Stderr, "Error: stage must be between 1 and %d\n", motion.FinalStage)
		fmt.Fprintln(os.Stderr, "Run 'eyemotion stages' to see the stages.")
		os.Exit(1)
	}

	settings := loadSettings(cmd)
	rc := terminalRuntime(settings)
	rc.Stage = flagStage

	logger, closeLog := fileLogger()
	defer closeLog()

	// Open the training log
	store, err := storage.Open(settings.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open training database: %v\n", err)
		// Continue without storage - training still works
		store = nil
	}

	_, runErr := tui.Run(tui.Options{
		Settings:        settings,
		Runtime:         rc,
		Store:           store,
		Logger:          logger,
		ShowStartScreen: true,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}
