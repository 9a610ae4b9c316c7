package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/platform/tui"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a stage picker menu",
	Long: `Start in interactive menu mode.

Pick a starting stage, open your training stats or switch the language.
After a session ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  eyemotion menu
  eyemotion menu --fps 30
  eyemotion menu --db ./training.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) {
	settings := loadSettings(cmd)
	rc := terminalRuntime(settings)

	logger, closeLog := fileLogger()
	defer closeLog()

	// Open the training log
	store, err := storage.Open(settings.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open training database: %v\n", err)
		store = nil
	}

	// Menu loop
	for {
		result, err := tui.RunMenu(settings, rc.ScreenW, rc.ScreenH)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep size and language changes
		settings = result.Settings
		if result.Width > 0 && result.Height > 0 {
			rc.ScreenW, rc.ScreenH = result.Width, result.Height
		}
		if result.LanguageChanged {
			if err := saveLanguage(settings.Language); err != nil {
				logger.Warn("could not save language", "error", err)
			}
		}

		if result.Quit {
			break
		}

		if result.WantsStats {
			cat := i18n.MustNew(settings.Language)
			goBack, statsErr := tui.RunStats(store, tui.LocalUser, cat, rc.ScreenW, rc.ScreenH)
			if statsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", statsErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from stats
		}

		// New seed for each session unless one was given
		run := rc
		run.Stage = result.Stage
		if flagSeed == 0 {
			run.Seed = time.Now().UnixNano()
		}

		res, err := tui.Run(tui.Options{
			Settings:        settings,
			Runtime:         run,
			Store:           store,
			Logger:          logger,
			ShowStartScreen: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running session: %v\n", err)
		}
		if !res.BackToMenu {
			break
		}
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
