package cmd

import (
	"fmt"

	"github.com/habitd/habitd/pkg/habit"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long:  `The "list" command lets you list your tracked habits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd)
	},
}

func list(cmd *cobra.Command) error {
	client, _, err := loadClient()
	if err != nil {
		return err
	}

	habits, err := client.ListHabits(cmd.Context())
	if err != nil {
		return fmt.Errorf("error fetching habits: %w", err)
	}

	if len(habits) == 0 {
		cmd.Println("No habits yet. Create one with: habitd create <title>")
		return nil
	}
	for _, h := range habits {
		cmd.Println(formatHabitLine(h))
	}
	return nil
}

// formatHabitLine renders one habit as a single list row.
func formatHabitLine(h habit.Habit) string {
	return fmt.Sprintf("%s  %-30s current: %d  longest: %d", h.ID, h.Title,
		h.Streak.Current, h.Streak.Longest)
}

func init() {
	rootCmd.AddCommand(listCmd)
}
