package habit

// Streak is the pair of consecutive-due-day counters kept on a habit.
// Longest is a watermark: it never decreases, even when completions are
// removed.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// LookbackDays bounds the streak scan. Streaks older than this horizon
// are not retained; the cap keeps recomputation a fixed-cost operation.
const LookbackDays = 90

// ComputeStreak derives the streak from scratch by scanning backward
// from today over due days only. It is a pure function of its inputs:
// today is an explicit parameter, never read from the ambient clock.
//
// The scan counts a contiguous run of satisfied due days. A due day that
// was missed after a completed run breaks the streak, with one
// exception: today itself not being done yet does not break a streak
// built on prior days, it just is not counted.
func ComputeStreak(rule Rule, ledger Ledger, today Day, previousLongest int) Streak {
	done := make(map[Day]struct{}, len(ledger))
	for _, e := range ledger.SortedDescending() {
		if e.Completed {
			done[e.Date] = struct{}{}
		}
	}

	horizon := today.AddDays(-LookbackDays)
	current := 0
	foundFirst := false

	for check := today; !check.Before(horizon); check = check.Prev() {
		if !rule.IsDue(check) {
			continue
		}
		if _, ok := done[check]; ok {
			current++
			foundFirst = true
			continue
		}
		if foundFirst {
			// A due day missed behind a completed run: the streak ends here.
			break
		}
		if check.Before(today) {
			// Scanning into the past without any completion yet: no
			// active streak reaches back from today.
			break
		}
		// Today is due but not yet completed; keep looking at prior days.
	}

	longest := previousLongest
	if current > longest {
		longest = current
	}
	return Streak{Current: current, Longest: longest}
}
