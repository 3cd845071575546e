package cmd

import (
	"os"

	"github.com/habitd/habitd/internal/apiclient"
	"github.com/habitd/habitd/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "habitd",
	Short: "Track daily habits and keep streaks alive",
	Long: `
	Habitd tracks recurring habits over time. Habits carry a recurrence
	rule (daily, weekly, or custom day sets); completing them on their due
	days builds a streak, and missing a due day breaks it.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadClient builds an API client from the config file. Every command
// that talks to the server goes through this.
func loadClient() (*apiclient.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return apiclient.New(cfg.APIBaseURL, cfg.AuthToken), cfg, nil
}
