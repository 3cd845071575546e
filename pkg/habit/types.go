package habit

// Habit is the persisted habit document and the shape exchanged over the
// REST boundary. Progress and Streak are only ever written together by
// the toggle workflow.
type Habit struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	CustomCategory  string    `json:"custom_category,omitempty"`
	Color           string    `json:"color,omitempty"`
	Priority        int       `json:"priority,omitempty"`
	Frequency       Frequency `json:"frequency"`
	CustomFrequency string    `json:"custom_frequency,omitempty"`
	CustomDays      []int     `json:"custom_days,omitempty"`
	Rule            Rule      `json:"rule"`
	Progress        Ledger    `json:"progress"`
	Streak          Streak    `json:"streak"`
	CreatedAt       int64     `json:"created_at"`
}

// HabitSummary is the derived view backing the habit-detail page.
type HabitSummary struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	TotalDaysDone  int    `json:"total_days_done"`
	DueToday       bool   `json:"due_today"`
	CompletedToday bool   `json:"completed_today"`
	LastWrite      int64  `json:"last_write"`
}
