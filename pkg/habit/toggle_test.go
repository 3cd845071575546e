package habit

import (
	"testing"
	"time"
)

func newDailyHabit() *Habit {
	return &Habit{
		ID:        "h1",
		Title:     "guitar",
		Frequency: FrequencyDaily,
		Rule:      Rule{Kind: RuleDaily},
	}
}

func TestApplyToggle_CompleteIdempotent(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	h := newDailyHabit()

	ApplyToggle(h, today, today, true)
	first := *h
	ApplyToggle(h, today, today, true)

	if len(h.Progress) != 1 {
		t.Fatalf("got %d entries want 1", len(h.Progress))
	}
	if h.Streak != first.Streak {
		t.Fatalf("second complete changed streak: %+v vs %+v", h.Streak, first.Streak)
	}
}

func TestApplyToggle_UncompleteIsInverse(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	h := newDailyHabit()
	ApplyToggle(h, today.AddDays(-1), today, true)
	ApplyToggle(h, today, today, true)
	if h.Streak.Current != 2 || h.Streak.Longest != 2 {
		t.Fatalf("setup streak wrong: %+v", h.Streak)
	}

	ApplyToggle(h, today, today, false)
	if h.Progress.IsCompleted(today) {
		t.Fatal("today should no longer be completed")
	}
	if h.Streak.Current != 1 {
		t.Fatalf("got current %d want 1", h.Streak.Current)
	}
	// Longest is a watermark: removing the completion never lowers it.
	if h.Streak.Longest != 2 {
		t.Fatalf("got longest %d want 2", h.Streak.Longest)
	}
}

func TestApplyToggle_LongestNonDecreasing(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	h := newDailyHabit()

	prev := 0
	ops := []struct {
		day      Day
		complete bool
	}{
		{today.AddDays(-2), true},
		{today.AddDays(-1), true},
		{today, true},
		{today.AddDays(-1), false},
		{today, false},
		{today, true},
	}
	for i, op := range ops {
		ApplyToggle(h, op.day, today, op.complete)
		if h.Streak.Longest < prev {
			t.Fatalf("op %d: longest decreased %d -> %d", i, prev, h.Streak.Longest)
		}
		if h.Streak.Longest < h.Streak.Current {
			t.Fatalf("op %d: longest %d below current %d", i, h.Streak.Longest, h.Streak.Current)
		}
		prev = h.Streak.Longest
	}
}

func TestSummarize(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	h := newDailyHabit()
	ApplyToggle(h, today.AddDays(-1), today.AddDays(-1), true)

	sum := h.Summarize(today, 42)
	if sum.CurrentStreak != 1 {
		t.Fatalf("got current %d want 1", sum.CurrentStreak)
	}
	if !sum.DueToday || sum.CompletedToday {
		t.Fatalf("got due=%v completed=%v want due, not completed", sum.DueToday, sum.CompletedToday)
	}
	if sum.TotalDaysDone != 1 {
		t.Fatalf("got total %d want 1", sum.TotalDaysDone)
	}
	if sum.LastWrite != 42 {
		t.Fatalf("got last_write %d want 42", sum.LastWrite)
	}

	// Summaries recompute decay without writing: two days later the
	// stored streak is stale but the summary reflects the break.
	later := today.AddDays(2)
	sum = h.Summarize(later, 42)
	if sum.CurrentStreak != 0 {
		t.Fatalf("got current %d want 0 after decay", sum.CurrentStreak)
	}
	if h.Streak.Current != 1 {
		t.Fatal("Summarize must not mutate the stored streak")
	}
}
