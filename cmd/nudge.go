package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/habitd/habitd/internal/nudge"
	"github.com/habitd/habitd/internal/nudge/resend"
	"github.com/habitd/habitd/pkg/habit"
	"github.com/spf13/cobra"
)

var resendApiKey string

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Send a reminder for habits whose streak would break today",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if resendApiKey = os.Getenv("HABITS_RESEND_API_KEY"); resendApiKey == "" {
			return fmt.Errorf("HABITS_RESEND_API_KEY environment variable is not set")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := loadClient()
		if err != nil {
			return err
		}
		if cfg.Nudge.Email == "" {
			return fmt.Errorf("nudge.email is not set in config")
		}

		today, err := habit.DayKey(time.Now(), cfg.Nudge.Timezone)
		if err != nil {
			return fmt.Errorf("invalid nudge timezone %q: %w", cfg.Nudge.Timezone, err)
		}

		n := resend.ResendNotifier{
			ApiKey: resendApiKey,
			Email:  cfg.Nudge.Email,
		}
		return nudge.Nudge(cmd.Context(), client, &n, today)
	},
}

func init() {
	rootCmd.AddCommand(nudgeCmd)
}
