package cmd

import (
	"fmt"

	"github.com/habitd/habitd/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	createDescription     string
	createFrequency       string
	createCustomFrequency string
	createCustomDays      []int
)

var createCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new habit",
	Long: `The "create" command registers a new habit. The recurrence rule is
decided once at creation from the frequency flags:

  habitd create "Practice guitar"
  habitd create "Long run" --frequency weekly
  habitd create "Gym" --frequency custom --custom-frequency "3 times per week" --custom-days 1,3,5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return create(cmd, args[0])
	},
}

func create(cmd *cobra.Command, title string) error {
	client, _, err := loadClient()
	if err != nil {
		return err
	}

	h, err := client.CreateHabit(cmd.Context(), title, createDescription,
		habit.Frequency(createFrequency), createCustomFrequency, createCustomDays)
	if err != nil {
		return fmt.Errorf("error creating habit: %w", err)
	}

	cmd.Printf("Created habit %s (%s)\n", h.Title, h.ID)
	return nil
}

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "habit description")
	createCmd.Flags().StringVarP(&createFrequency, "frequency", "f", "daily", "daily, weekly, or custom")
	createCmd.Flags().StringVar(&createCustomFrequency, "custom-frequency", "",
		"human-readable custom schedule, e.g. \"3 times per week\"")
	createCmd.Flags().IntSliceVar(&createCustomDays, "custom-days", nil,
		"day numbers for the custom schedule")
	rootCmd.AddCommand(createCmd)
}
