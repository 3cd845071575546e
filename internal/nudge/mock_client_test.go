package nudge

import (
	"context"

	"github.com/habitd/habitd/pkg/habit"
)

type mockClient struct {
	habits []habit.Habit
	err    error
}

func (m *mockClient) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return m.habits, m.err
}
