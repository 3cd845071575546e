package storage

import (
	"errors"

	"github.com/habitd/habitd/pkg/habit"
)

// ErrNotFound is returned when a habit does not exist for the user.
var ErrNotFound = errors.New("habit not found")

// Store persists habit documents per user, plus the API key material the
// auth layer needs. MutateHabit must apply its read-modify-write as one
// atomic update so two toggles cannot interleave on the same habit.
type Store interface {
	PutHabit(userID string, h habit.Habit) error
	GetHabit(userID, habitID string) (habit.Habit, error)
	ListHabits(userID string) ([]habit.Habit, error)
	DeleteHabit(userID, habitID string) error
	MutateHabit(userID, habitID string, mutate func(*habit.Habit) error) (habit.Habit, error)

	PutAPIKey(keyHash, userID string) error
	GetAPIKey(keyHash string) (string, bool, error)

	Close() error
}
