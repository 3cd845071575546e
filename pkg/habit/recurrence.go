package habit

import (
	"fmt"
	"slices"
	"strings"
)

// Frequency is the user-facing recurrence descriptor carried on the wire.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// RuleKind tags the recurrence rule variant. The zero value evaluates as
// due every day, so documents written before the rule field existed keep
// working.
type RuleKind string

const (
	RuleDaily     RuleKind = "daily"
	RuleWeekly    RuleKind = "weekly"
	RuleWeekdays  RuleKind = "weekdays"  // Days holds weekday indices 0-6
	RuleMonthdays RuleKind = "monthdays" // Days holds day-of-month 1-31
	RuleYearDates RuleKind = "yeardates" // Days holds monthIndex*31 + dayOfMonth
)

// Rule is the recurrence rule decided once at habit creation. It is the
// single source of truth for due-day checks on both server and client.
type Rule struct {
	Kind RuleKind `json:"kind"`
	Days []int    `json:"days,omitempty"`
}

// ParseRule resolves the wire-level frequency descriptor into a tagged
// rule. The custom mode is picked by substring of the human-readable
// hint ("times per week" etc), matching how habits were created
// historically.
func ParseRule(freq Frequency, customFrequency string, customDays []int) (Rule, error) {
	switch freq {
	case FrequencyDaily:
		return Rule{Kind: RuleDaily}, nil
	case FrequencyWeekly:
		return Rule{Kind: RuleWeekly}, nil
	case FrequencyCustom:
		days := slices.Clone(customDays)
		slices.Sort(days)
		days = slices.Compact(days)
		hint := strings.ToLower(customFrequency)
		var r Rule
		switch {
		case strings.Contains(hint, "week"):
			r = Rule{Kind: RuleWeekdays, Days: days}
		case strings.Contains(hint, "month"):
			r = Rule{Kind: RuleMonthdays, Days: days}
		case strings.Contains(hint, "year"):
			r = Rule{Kind: RuleYearDates, Days: days}
		default:
			return Rule{}, fmt.Errorf("unrecognized custom frequency %q", customFrequency)
		}
		if err := r.validateDays(); err != nil {
			return Rule{}, err
		}
		return r, nil
	default:
		return Rule{}, fmt.Errorf("unrecognized frequency %q", freq)
	}
}

func (r Rule) validateDays() error {
	if len(r.Days) == 0 {
		return fmt.Errorf("custom rule needs at least one day")
	}
	lo, hi := 0, 0
	switch r.Kind {
	case RuleWeekdays:
		lo, hi = 0, 6
	case RuleMonthdays:
		lo, hi = 1, 31
	case RuleYearDates:
		lo, hi = 1, 11*31+31
	default:
		return nil
	}
	for _, d := range r.Days {
		if d < lo || d > hi {
			return fmt.Errorf("day %d out of range %d-%d for %s rule", d, lo, hi, r.Kind)
		}
	}
	return nil
}

// IsDue reports whether the habit requires an action on the given day.
// Pure: identical inputs give identical answers on every call site, so
// the client preview and the server authority literally agree.
//
// Weekly habits are due on Mondays only. That convention predates this
// implementation and is preserved as-is rather than generalized to a
// user-chosen weekday.
func (r Rule) IsDue(d Day) bool {
	switch r.Kind {
	case RuleDaily:
		return true
	case RuleWeekly:
		return d.Weekday() == 1
	case RuleWeekdays:
		return slices.Contains(r.Days, d.Weekday())
	case RuleMonthdays:
		return slices.Contains(r.Days, d.DayOfMonth())
	case RuleYearDates:
		return slices.Contains(r.Days, d.YearCode())
	default:
		// Fail open: malformed or missing rule data counts every day as
		// due instead of stalling streak computation.
		return true
	}
}
