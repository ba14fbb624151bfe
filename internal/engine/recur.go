package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type RecurKind string

const (
	RecurDaily   RecurKind = "daily"
	RecurWeekly  RecurKind = "weekly"
	RecurMonthly RecurKind = "monthly"
	RecurYearly  RecurKind = "yearly"
	RecurCustom  RecurKind = "custom"
)

func (k RecurKind) IsValid() bool {
	switch k {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly, RecurCustom:
		return true
	default:
		return false
	}
}

type EndKind string

const (
	EndNever EndKind = "never"
	EndAfter EndKind = "after"
	EndOn    EndKind = "on"
)

// WeekLast marks the last week of the month in WeekOfMonth.
const WeekLast = -1

// RecurringPattern is an immutable description of how a task repeats.
// DaysOfWeek combines with WeekOfMonth only for monthly "nth weekday"
// patterns; weekly advancement does not snap to it (see NextDueDate).
type RecurringPattern struct {
	Kind        RecurKind
	Interval    int
	DaysOfWeek  []time.Weekday
	WeekOfMonth int // 1..4 = nth week, WeekLast = last, 0 = unset
	End         EndKind
	EndCount    int
	EndDate     *time.Time
}

var weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var afterCompletionsRe = regexp.MustCompile(`after (\d+) completions?`)

// ParseRecurringText parses a free-text recurrence description into a pattern.
// Matching is first-match-wins; more specific phrases are checked before their
// generic counterparts ("every other day" before "daily", day-specific phrases
// before the monthly/yearly catch-alls). Returns nil when nothing matches.
func ParseRecurringText(text string) *RecurringPattern {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}

	switch {
	case strings.Contains(s, "every other day"):
		return &RecurringPattern{Kind: RecurDaily, Interval: 2}
	case strings.Contains(s, "daily"), strings.Contains(s, "every day"):
		return &RecurringPattern{Kind: RecurDaily, Interval: 1}
	case strings.Contains(s, "every other week"), strings.Contains(s, "biweekly"):
		return &RecurringPattern{Kind: RecurWeekly, Interval: 2}
	case strings.Contains(s, "weekly"), strings.Contains(s, "every week"):
		return &RecurringPattern{Kind: RecurWeekly, Interval: 1}
	}

	for i, name := range weekdayNames {
		if strings.Contains(s, "every other "+name) {
			return &RecurringPattern{Kind: RecurWeekly, Interval: 2, DaysOfWeek: []time.Weekday{time.Weekday(i)}}
		}
		if strings.Contains(s, "every "+name) {
			return &RecurringPattern{Kind: RecurWeekly, Interval: 1, DaysOfWeek: []time.Weekday{time.Weekday(i)}}
		}
	}

	switch {
	case strings.Contains(s, "monthly"), strings.Contains(s, "every month"):
		return &RecurringPattern{Kind: RecurMonthly, Interval: 1}
	case strings.Contains(s, "first monday of the month"), strings.Contains(s, "first monday of each month"):
		return &RecurringPattern{Kind: RecurMonthly, Interval: 1, DaysOfWeek: []time.Weekday{time.Monday}, WeekOfMonth: 1}
	case strings.Contains(s, "last friday of the month"), strings.Contains(s, "last friday of each month"):
		return &RecurringPattern{Kind: RecurMonthly, Interval: 1, DaysOfWeek: []time.Weekday{time.Friday}, WeekOfMonth: WeekLast}
	case strings.Contains(s, "yearly"), strings.Contains(s, "every year"):
		return &RecurringPattern{Kind: RecurYearly, Interval: 1}
	}

	if m := afterCompletionsRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return &RecurringPattern{Kind: RecurCustom, Interval: 1, End: EndAfter, EndCount: n}
		}
	}

	return nil
}

// FormatRecurringPattern renders a pattern for display. Formatting is not a
// strict inverse of parsing; canonical output like "Every 2 weeks on Monday"
// is not guaranteed to re-parse to the same pattern.
func FormatRecurringPattern(p *RecurringPattern) string {
	if p == nil {
		return ""
	}

	var out string
	switch p.Kind {
	case RecurDaily:
		if p.Interval == 1 {
			out = "Daily"
		} else {
			out = fmt.Sprintf("Every %d days", p.Interval)
		}
	case RecurWeekly:
		switch {
		case len(p.DaysOfWeek) == 1 && p.Interval == 1:
			out = "Every " + p.DaysOfWeek[0].String()
		case len(p.DaysOfWeek) == 1:
			out = fmt.Sprintf("Every %d weeks on %s", p.Interval, p.DaysOfWeek[0])
		case p.Interval == 1:
			out = "Weekly"
		default:
			out = fmt.Sprintf("Every %d weeks", p.Interval)
		}
	case RecurMonthly:
		if len(p.DaysOfWeek) == 1 && p.WeekOfMonth != 0 {
			out = fmt.Sprintf("%s %s of each month", weekOfMonthName(p.WeekOfMonth), p.DaysOfWeek[0])
		} else if p.Interval == 1 {
			out = "Monthly"
		} else {
			out = fmt.Sprintf("Every %d months", p.Interval)
		}
	case RecurYearly:
		if p.Interval == 1 {
			out = "Yearly"
		} else {
			out = fmt.Sprintf("Every %d years", p.Interval)
		}
	case RecurCustom:
		if p.End == EndAfter {
			out = fmt.Sprintf("After %d completions", p.EndCount)
		}
	}

	if p.End == EndAfter && p.Kind != RecurCustom {
		out += fmt.Sprintf(" (%d times)", p.EndCount)
	}
	return out
}

func weekOfMonthName(n int) string {
	switch n {
	case WeekLast:
		return "Last"
	case 1:
		return "First"
	case 2:
		return "Second"
	case 3:
		return "Third"
	case 4:
		return "Fourth"
	default:
		return fmt.Sprintf("Week %d", n)
	}
}

// NextDueDate computes the occurrence after last. Weekly and monthly
// advancement is naive calendar arithmetic: it does not snap to DaysOfWeek or
// WeekOfMonth even when set, and month-end dates normalize per time.AddDate
// (Jan 31 + 1 month = Mar 2 or Mar 3). Custom and unrecognized kinds return
// last unchanged; the caller must treat that as "does not recur automatically".
func NextDueDate(p *RecurringPattern, last time.Time) time.Time {
	if p == nil {
		return last
	}
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}
	switch p.Kind {
	case RecurDaily:
		return last.AddDate(0, 0, interval)
	case RecurWeekly:
		return last.AddDate(0, 0, 7*interval)
	case RecurMonthly:
		return last.AddDate(0, interval, 0)
	case RecurYearly:
		return last.AddDate(interval, 0, 0)
	default:
		return last
	}
}
