package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/eyemotion/internal/motion"
	"github.com/vovakirdan/eyemotion/internal/platform/tui"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the training stages",
	Long:  `Shows the five stages with their ball speed and motion.`,
	Args:  cobra.NoArgs,
	Run:   runStages,
}

func runStages(_ *cobra.Command, _ []string) {
	stages := motion.Stages()

	fmt.Printf("Stages (%d s each, %.0f s countdown between):\n", motion.StageDurationMS/1000, motion.TransitionSeconds)
	fmt.Println()

	// Print header
	fmt.Printf("  %-5s  %-7s  %-9s  %s\n", "Stage", "Speed", "Motion", "Description")
	fmt.Printf("  %-5s  %-7s  %-9s  %s\n", "-----", "-----", "------", "-----------")

	// Print stages
	for _, s := range stages {
		speed := fmt.Sprintf("%.0f", s.Speed)
		if s.Speed == 0 {
			speed = "-"
		}
		fmt.Printf("  %-5s  %-7s  %-9s  %s\n", tui.StageLabel(s.Stage), speed, s.Policy, s.Summary)
	}

	fmt.Println()
	fmt.Println("Run 'eyemotion play --stage <n>' to start at a stage.")
}
