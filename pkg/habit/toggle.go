package habit

// ApplyToggle runs the completion toggle workflow against a habit in
// memory: mutate the ledger for the day, then recompute the streak from
// scratch with the longest watermark carried forward. The server handler
// and the client's optimistic preview both call this, which is what
// keeps the two in agreement.
//
// day is the canonical day being toggled; today is the current day in
// the habit owner's timezone.
func ApplyToggle(h *Habit, day, today Day, complete bool) {
	if complete {
		h.Progress = h.Progress.Upsert(day)
	} else {
		h.Progress = h.Progress.Remove(day)
	}
	h.Streak = ComputeStreak(h.Rule, h.Progress, today, h.Streak.Longest)
}

// Summarize derives the read-only summary view for a habit as of today.
// It recomputes the streak rather than trusting the stored pair, so a
// summary read reflects decay since the last toggle without writing
// anything back.
func (h *Habit) Summarize(today Day, lastWrite int64) HabitSummary {
	streak := ComputeStreak(h.Rule, h.Progress, today, h.Streak.Longest)
	return HabitSummary{
		ID:             h.ID,
		Title:          h.Title,
		CurrentStreak:  streak.Current,
		LongestStreak:  streak.Longest,
		TotalDaysDone:  h.Progress.TotalCompleted(),
		DueToday:       h.Rule.IsDue(today),
		CompletedToday: h.Progress.IsCompleted(today),
		LastWrite:      lastWrite,
	}
}
