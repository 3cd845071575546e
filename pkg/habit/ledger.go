package habit

import "slices"

// ProgressEntry records one day's completion state for a habit.
type ProgressEntry struct {
	Date      Day    `json:"date"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// Ledger is the per-habit collection of progress entries. Invariant: at
// most one entry per calendar day. Stored order is not significant;
// consumers that scan use SortedDescending.
type Ledger []ProgressEntry

// Upsert appends a completed entry for the day if none exists. Calling
// it twice for the same day is a no-op the second time.
func (l Ledger) Upsert(d Day) Ledger {
	if l.indexOf(d) >= 0 {
		return l
	}
	return append(l, ProgressEntry{Date: d, Completed: true})
}

// Remove deletes the entry for the day, whatever its completed value.
func (l Ledger) Remove(d Day) Ledger {
	i := l.indexOf(d)
	if i < 0 {
		return l
	}
	return append(l[:i:i], l[i+1:]...)
}

// IsCompleted reports whether the day has an entry with completed=true.
// A missing entry and an entry with completed=false are both unsatisfied.
func (l Ledger) IsCompleted(d Day) bool {
	i := l.indexOf(d)
	return i >= 0 && l[i].Completed
}

// SortedDescending returns a copy ordered newest day first.
func (l Ledger) SortedDescending() Ledger {
	out := slices.Clone(l)
	slices.SortFunc(out, func(a, b ProgressEntry) int {
		switch {
		case b.Date.Before(a.Date):
			return -1
		case a.Date.Before(b.Date):
			return 1
		default:
			return 0
		}
	})
	return out
}

// TotalCompleted counts entries with completed=true.
func (l Ledger) TotalCompleted() int {
	n := 0
	for _, e := range l {
		if e.Completed {
			n++
		}
	}
	return n
}

func (l Ledger) indexOf(d Day) int {
	for i := range l {
		if l[i].Date == d {
			return i
		}
	}
	return -1
}
