package date

import (
	"fmt"
	"time"
)

// Range is the bucket of a period around a reference instant.
//
// Its lower bound is exclusive: an instant exactly at From is not in the range.
// It has no upper bound.
type Range struct {
	Period Period
	From   time.Time
}

// NewRange returns the range of period p containing ref.
func NewRange(p Period, ref time.Time) Range {
	return Range{Period: p, From: Start(p, ref)}
}

// Contains reports whether t is strictly after the start of the range.
// The All range contains every instant, including the ones at or before the origin.
func (r Range) Contains(t time.Time) bool {
	if r.Period == All {
		return true
	}
	return t.After(r.From)
}

// Identifier returns a short insightful name for the range.
func (r Range) Identifier() string {
	switch r.Period {
	case Daily:
		return r.From.Format("2006-01-02")
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return "all-time"
	}
}

// String returns the identifier.
func (r Range) String() string { return r.Identifier() }
