package nudge

import (
	"context"

	"github.com/habitd/habitd/pkg/habit"
)

type Querier interface {
	ListHabits(ctx context.Context) ([]habit.Habit, error)
}

type Notifier interface {
	SendNudge(habits []string, day string) error
}
