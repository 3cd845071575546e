package habit

import (
	"testing"
	"time"
)

func completedOn(days ...Day) Ledger {
	var l Ledger
	for _, d := range days {
		l = l.Upsert(d)
	}
	return l
}

func TestComputeStreak_DailyThreeDays(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today, today.AddDays(-1), today.AddDays(-2))
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if s.Current != 3 {
		t.Fatalf("got current %d want 3", s.Current)
	}
	if s.Longest != 3 {
		t.Fatalf("got longest %d want 3", s.Longest)
	}
}

func TestComputeStreak_GapBreaks(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today, today.AddDays(-2)) // yesterday missed
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if s.Current != 1 {
		t.Fatalf("got current %d want 1", s.Current)
	}
}

func TestComputeStreak_TodayNotDoneKeepsStreak(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today.AddDays(-1), today.AddDays(-2))
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if s.Current != 2 {
		t.Fatalf("got current %d want 2", s.Current)
	}
}

func TestComputeStreak_NoActiveStreak(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today.AddDays(-2)) // neither today nor yesterday
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if s.Current != 0 {
		t.Fatalf("got current %d want 0", s.Current)
	}
}

func TestComputeStreak_EmptyLedger(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	s := ComputeStreak(Rule{Kind: RuleDaily}, nil, today, 0)
	if s.Current != 0 || s.Longest != 0 {
		t.Fatalf("got %+v want zero streak", s)
	}
}

func TestComputeStreak_CustomWeekdaysSkipOffDays(t *testing.T) {
	// Mon/Wed/Fri habit, today Wednesday 2024-06-12. Completions on Fri
	// 7th, Mon 10th and Wed 12th; the weekend and Tuesday are not due
	// and must not break the run. Wed 5th missed ends the scan.
	today := NewDay(2024, time.June, 12)
	rule := Rule{Kind: RuleWeekdays, Days: []int{1, 3, 5}}
	l := completedOn(
		NewDay(2024, time.June, 7),
		NewDay(2024, time.June, 10),
		today,
	)
	s := ComputeStreak(rule, l, today, 0)
	if s.Current != 3 {
		t.Fatalf("got current %d want 3", s.Current)
	}

	// A completion on a non-due day changes nothing.
	l = l.Upsert(NewDay(2024, time.June, 11)) // Tuesday
	s2 := ComputeStreak(rule, l, today, 0)
	if s2.Current != s.Current {
		t.Fatalf("non-due completion changed streak: %d -> %d", s.Current, s2.Current)
	}
}

func TestComputeStreak_LookbackHorizon(t *testing.T) {
	// 95 consecutive completed days, but the scan only covers today and
	// the 90 days before it.
	today := NewDay(2024, time.June, 12)
	var l Ledger
	for i := 0; i < 95; i++ {
		l = l.Upsert(today.AddDays(-i))
	}
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if want := LookbackDays + 1; s.Current != want {
		t.Fatalf("got current %d want %d", s.Current, want)
	}
}

func TestComputeStreak_LongestIsWatermark(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today)
	s := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 10)
	if s.Current != 1 {
		t.Fatalf("got current %d want 1", s.Current)
	}
	if s.Longest != 10 {
		t.Fatalf("got longest %d want 10", s.Longest)
	}

	// Longest grows when current passes it.
	l = completedOn(today, today.AddDays(-1), today.AddDays(-2))
	s = ComputeStreak(Rule{Kind: RuleDaily}, l, today, 2)
	if s.Longest != 3 {
		t.Fatalf("got longest %d want 3", s.Longest)
	}
}

func TestComputeStreak_Deterministic(t *testing.T) {
	today := NewDay(2024, time.June, 12)
	l := completedOn(today, today.AddDays(-1))
	a := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	b := ComputeStreak(Rule{Kind: RuleDaily}, l, today, 0)
	if a != b {
		t.Fatalf("not idempotent: %+v vs %+v", a, b)
	}
}
