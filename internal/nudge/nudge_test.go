package nudge

import (
	"context"
	"testing"
	"time"

	"github.com/habitd/habitd/pkg/habit"
)

func TestAtRisk(t *testing.T) {
	today := habit.NewDay(2024, time.June, 12) // Wednesday

	dueWithStreak := habit.Habit{
		Title: "guitar",
		Rule:  habit.Rule{Kind: habit.RuleDaily},
		Progress: habit.Ledger{}.
			Upsert(today.AddDays(-1)).
			Upsert(today.AddDays(-2)),
	}
	dueCompleted := habit.Habit{
		Title:    "reading",
		Rule:     habit.Rule{Kind: habit.RuleDaily},
		Progress: habit.Ledger{}.Upsert(today),
	}
	dueNoStreak := habit.Habit{
		Title: "meditation",
		Rule:  habit.Rule{Kind: habit.RuleDaily},
	}
	notDue := habit.Habit{
		Title:    "cleaning",
		Rule:     habit.Rule{Kind: habit.RuleWeekdays, Days: []int{1}}, // Mondays
		Progress: habit.Ledger{}.Upsert(today.AddDays(-2)),
	}

	q := &mockClient{habits: []habit.Habit{dueWithStreak, dueCompleted, dueNoStreak, notDue}}
	got, err := AtRisk(context.Background(), q, today)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "guitar" {
		t.Fatalf("got %v, want [guitar]", got)
	}
}

func TestNudge_SkipsWhenNothingAtRisk(t *testing.T) {
	today := habit.NewDay(2024, time.June, 12)
	q := &mockClient{}
	n := &mockNotifier{}

	if err := Nudge(context.Background(), q, n, today); err != nil {
		t.Fatal(err)
	}
	if n.called {
		t.Fatal("notifier should not be called with nothing at risk")
	}
}

func TestNudge_SendsAtRiskHabits(t *testing.T) {
	today := habit.NewDay(2024, time.June, 12)
	q := &mockClient{habits: []habit.Habit{{
		Title:    "guitar",
		Rule:     habit.Rule{Kind: habit.RuleDaily},
		Progress: habit.Ledger{}.Upsert(today.AddDays(-1)),
	}}}
	n := &mockNotifier{}

	if err := Nudge(context.Background(), q, n, today); err != nil {
		t.Fatal(err)
	}
	if !n.called || len(n.habits) != 1 || n.habits[0] != "guitar" {
		t.Fatalf("got called=%v habits=%v", n.called, n.habits)
	}
	if n.day != "2024-06-12" {
		t.Fatalf("got day %q want 2024-06-12", n.day)
	}
}
