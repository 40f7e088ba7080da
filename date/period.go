package date

import (
	"fmt"
	"strings"
	"time"
)

// Period is a symbolic calendar bucket.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
	// All is the unbounded period.
	All
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	case Quarterly:
		return "quarter"
	case Yearly:
		return "year"
	case All:
		return "all"
	default:
		panic(fmt.Sprintf("unknown period %d", int(p)))
	}
}

// ToDateName returns the "-to-Date" name for the period (e.g., "Month-to-Date").
func (p Period) ToDateName() string {
	switch p {
	case Daily:
		return "Today's"
	case Weekly:
		return "Week-to-Date"
	case Monthly:
		return "Month-to-Date"
	case Quarterly:
		return "Quarter-to-Date"
	case Yearly:
		return "Year-to-Date"
	default:
		return "All-Time"
	}
}

// ParsePeriod accepts both the noun ("month") and the adverb ("monthly") forms.
func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	case "all":
		return All, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}

// Periods lists every period, in increasing span.
var Periods = []Period{Daily, Weekly, Monthly, Quarterly, Yearly, All}

// Origin is the epoch origin, returned as the start of the All period.
var Origin = time.UnixMilli(0)

// Start returns the start of the calendar bucket of period p containing ref,
// in ref's location. Weeks start on Monday.
//
// For All it returns Origin, but callers must treat All as unbounded.
func Start(p Period, ref time.Time) time.Time {
	y, m, d := ref.Date()
	loc := ref.Location()
	switch p {
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Weekly:
		offset := (int(ref.Weekday()) + 6) % 7 // days since monday
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Quarterly:
		return time.Date(y, (m-1)/3*3+1, 1, 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return Origin
	}
}

// End returns the first instant after the calendar bucket of period p containing ref.
// For All it returns the zero time.
func End(p Period, ref time.Time) time.Time {
	start := Start(p, ref)
	switch p {
	case Daily:
		return start.AddDate(0, 0, 1)
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Monthly:
		return start.AddDate(0, 1, 0)
	case Quarterly:
		return start.AddDate(0, 3, 0)
	case Yearly:
		return start.AddDate(1, 0, 0)
	default:
		return time.Time{}
	}
}
