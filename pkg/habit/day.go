package habit

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrInvalidTimezone is returned when a timezone identifier is not a
// recognized IANA zone name.
var ErrInvalidTimezone = fmt.Errorf("invalid timezone")

const dayLayout = "2006-01-02"

// Day is a canonical calendar day, resolved in the owner's timezone.
// It carries no time-of-day and no UTC offset: two timestamps map to the
// same Day iff they fall on the same local calendar date.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay builds a Day from civil date components, normalizing
// out-of-range values the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DayKey resolves the calendar date that ts falls on when viewed in the
// given IANA timezone. This is a civil-calendar conversion, so it stays
// correct across DST transitions.
func DayKey(ts time.Time, timezone string) (Day, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	local := ts.In(loc)
	return Day{year: local.Year(), month: local.Month(), day: local.Day()}, nil
}

// ParseDay interprets a date string in the given timezone. It accepts an
// RFC 3339 timestamp or a plain YYYY-MM-DD date; a plain date is taken
// as a civil date already in that zone.
func ParseDay(value, timezone string) (Day, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return DayKey(ts, timezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	t, err := time.ParseInLocation(dayLayout, value, loc)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// Weekday returns the day of week, 0=Sunday through 6=Saturday.
func (d Day) Weekday() int {
	return int(d.time().Weekday())
}

// DayOfMonth returns the day of month, 1-31.
func (d Day) DayOfMonth() int {
	return d.day
}

// YearCode encodes the date as monthIndex*31 + dayOfMonth, the
// membership key used by year-mode recurrence rules.
func (d Day) YearCode() int {
	return (int(d.month)-1)*31 + d.day
}

// AddDays returns the day n calendar days later (earlier for negative n).
func (d Day) AddDays(n int) Day {
	t := d.time().AddDate(0, 0, n)
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Prev returns the previous calendar day.
func (d Day) Prev() Day {
	return d.AddDays(-1)
}

func (d Day) Before(other Day) bool {
	return d.time().Before(other.time())
}

func (d Day) After(other Day) bool {
	return other.Before(d)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	return d.time().Format(dayLayout)
}

func (d Day) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return fmt.Errorf("invalid day key %q: %w", s, err)
	}
	*d = Day{year: t.Year(), month: t.Month(), day: t.Day()}
	return nil
}
