package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// recentActivityLimit caps how many ledger entries the detail view prints.
const recentActivityLimit = 10

var showCmd = &cobra.Command{
	Use:   "show <habit-id>",
	Short: "Show a habit's detail view",
	Long: `The "show" command displays a single habit with its streaks, totals,
and recent activity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return show(cmd, args[0])
	},
}

func show(cmd *cobra.Command, id string) error {
	client, _, err := loadClient()
	if err != nil {
		return err
	}

	h, err := client.GetHabit(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("error fetching habit: %w", err)
	}
	summary, err := client.GetHabitSummary(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("error fetching summary: %w", err)
	}

	cmd.Printf("%s\n", h.Title)
	if h.Description != "" {
		cmd.Printf("%s\n", h.Description)
	}
	cmd.Printf("Current streak: %d\n", summary.CurrentStreak)
	cmd.Printf("Longest streak: %d\n", summary.LongestStreak)
	cmd.Printf("Total days done: %d\n", summary.TotalDaysDone)
	if summary.DueToday {
		if summary.CompletedToday {
			cmd.Println("Due today: done")
		} else {
			cmd.Println("Due today: not yet")
		}
	}

	entries := h.Progress.SortedDescending()
	if len(entries) == 0 {
		return nil
	}
	cmd.Println("\nRecent activity:")
	for i, e := range entries {
		if i == recentActivityLimit {
			break
		}
		mark := " "
		if e.Completed {
			mark = "x"
		}
		if e.Notes != "" {
			cmd.Printf("  [%s] %s  %s\n", mark, e.Date.String(), e.Notes)
			continue
		}
		cmd.Printf("  [%s] %s\n", mark, e.Date.String())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
}
