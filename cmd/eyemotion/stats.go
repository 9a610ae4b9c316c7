package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/i18n"
	"github.com/vovakirdan/eyemotion/internal/platform/tui"
	"github.com/vovakirdan/eyemotion/internal/storage"
)

var (
	flagStatsUser  string
	flagStatsLimit int
	flagStatsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics",
	Long: `Display sessions completed, total training time, the highest stage
reached and the most recent sessions.

Examples:
  eyemotion stats
  eyemotion stats --user alice     # Sessions of an SSH user
  eyemotion stats --user ""        # Everyone
  eyemotion stats --clear          # Forget the local training log`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsUser, "user", tui.LocalUser, "Training log owner (empty for all users)")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of recent sessions to show")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete the user's sessions")
}

func runStats(cmd *cobra.Command, _ []string) {
	settings := loadSettings(cmd)
	cat := i18n.MustNew(settings.Language)
	t := cat.T

	// Open the training log
	store, err := storage.Open(settings.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening training database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagStatsClear {
		if err := store.ClearSessions(flagStatsUser); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Training log cleared.")
		return
	}

	st, err := store.Stats(flagStatsUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	sessions, err := store.RecentSessions(flagStatsUser, flagStatsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(t("stats.title"))
	fmt.Println()

	if st.SessionsStarted == 0 {
		fmt.Println(t("stats.empty"))
		fmt.Println()
		fmt.Println("Run 'eyemotion play' to start training!")
		return
	}

	highest := "-"
	if st.HighestStage > 0 {
		highest = tui.StageLabel(st.HighestStage)
	}
	fmt.Printf("  %s: %d / %d\n", t("stats.sessions_completed"), st.SessionsCompleted, st.SessionsStarted)
	fmt.Printf("  %s: %s\n", t("stats.total_training_time"), tui.FormatDuration(st.TotalTrainingTime))
	fmt.Printf("  %s: %s\n", t("stats.highest_stage"), highest)
	fmt.Println()

	// Print header
	fmt.Println(t("stats.recent"))
	fmt.Printf("  %-12s  %-9s  %-5s  %s\n", t("stats.started"), t("stats.duration"), t("stats.stage"), t("stats.completed"))
	fmt.Printf("  %-12s  %-9s  %-5s  %s\n", "-------", "--------", "-----", "---------")

	// Print sessions
	for _, s := range sessions {
		row := tui.SessionRow(s, cat)
		fmt.Printf("  %-12s  %-9s  %-5s  %s\n", row[0], row[1], row[2], row[3])
	}
}
