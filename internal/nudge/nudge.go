package nudge

import (
	"context"

	"github.com/habitd/habitd/internal/logger"
	"github.com/habitd/habitd/pkg/habit"
)

// AtRisk returns titles of habits that are due on the given day, not
// yet completed, and carry an active streak that would break at the end
// of the day.
func AtRisk(ctx context.Context, q Querier, today habit.Day) ([]string, error) {
	habits, err := q.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, h := range habits {
		if !h.Rule.IsDue(today) {
			continue
		}
		if h.Progress.IsCompleted(today) {
			continue
		}
		streak := habit.ComputeStreak(h.Rule, h.Progress, today, h.Streak.Longest)
		if streak.Current > 0 {
			out = append(out, h.Title)
		}
	}
	return out, nil
}

// Nudge sends one reminder covering every at-risk habit. No habits at
// risk means no email.
func Nudge(ctx context.Context, q Querier, n Notifier, today habit.Day) error {
	atRisk, err := AtRisk(ctx, q, today)
	if err != nil {
		return err
	}
	if len(atRisk) == 0 {
		logger.Debug("No habits at risk, skipping nudge", "day", today.String())
		return nil
	}
	logger.Info("Sending nudge", "day", today.String(), "habits", len(atRisk))
	return n.SendNudge(atRisk, today.String())
}
