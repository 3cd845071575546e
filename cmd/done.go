package cmd

import (
	"fmt"
	"time"

	"github.com/habitd/habitd/internal/apiclient"
	"github.com/habitd/habitd/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	toggleDate     string
	toggleTimezone string
)

var doneCmd = &cobra.Command{
	Use:   "done <habit-id>",
	Short: "Mark a habit completed for a day",
	Long: `The "done" command marks a habit completed for today, or for the day
given with --date. Marking an already-completed day again is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <habit-id>",
	Short: "Unmark a habit for a day",
	Long: `The "undo" command removes a day's completion, reversing a "done" made
by mistake. Streaks are recomputed from the remaining history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggle(cmd, args[0], false)
	},
}

// toggle shows a locally computed preview right away, then replaces it
// with whatever the server actually persisted.
func toggle(cmd *cobra.Command, id string, complete bool) error {
	client, cfg, err := loadClient()
	if err != nil {
		return err
	}

	tz := toggleTimezone
	if tz == "" {
		tz = cfg.Nudge.Timezone
	}
	today, err := habit.DayKey(time.Now(), tz)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	date := toggleDate
	if date == "" {
		date = today.String()
	}
	day, err := habit.ParseDay(date, tz)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	current, err := client.GetHabit(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("error fetching habit: %w", err)
	}

	preview := apiclient.PreviewToggle(*current, day, today, complete)
	cmd.Printf("%s: streak %d (saving...)\n", preview.Title, preview.Streak.Current)

	var updated *habit.Habit
	if complete {
		updated, err = client.Complete(cmd.Context(), id, date, tz)
	} else {
		updated, err = client.Uncomplete(cmd.Context(), id, date, tz)
	}
	if err != nil {
		return fmt.Errorf("error saving toggle: %w", err)
	}

	// The server response is authoritative. Normally it matches the
	// preview, but a concurrent writer can make them diverge.
	if updated.Streak != preview.Streak {
		cmd.Printf("%s: streak %d (server)\n", updated.Title, updated.Streak.Current)
		return nil
	}
	cmd.Printf("%s: streak %d, longest %d\n", updated.Title,
		updated.Streak.Current, updated.Streak.Longest)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{doneCmd, undoCmd} {
		c.Flags().StringVar(&toggleDate, "date", "", "day to toggle (YYYY-MM-DD or RFC3339), default today")
		c.Flags().StringVar(&toggleTimezone, "timezone", "", "IANA timezone, default from config")
		rootCmd.AddCommand(c)
	}
}
