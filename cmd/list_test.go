package cmd

import (
	"strings"
	"testing"

	"github.com/habitd/habitd/pkg/habit"
)

func TestFormatHabitLine(t *testing.T) {
	h := habit.Habit{
		ID:     "abc-123",
		Title:  "guitar",
		Streak: habit.Streak{Current: 3, Longest: 7},
	}
	got := formatHabitLine(h)
	for _, want := range []string{"abc-123", "guitar", "current: 3", "longest: 7"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatHabitLine() = %q, missing %q", got, want)
		}
	}
}
