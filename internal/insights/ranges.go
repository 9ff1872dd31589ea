// ABOUTME: Date ranges fed to the metrics engine.
// ABOUTME: Month and year windows plus the equal-period window immediately before.
package insights

import (
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

// Range is an inclusive [Start, End] window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the epoch-millisecond timestamp falls in r.
func (r Range) Contains(ms int64) bool {
	return ms >= r.Start.UnixMilli() && ms <= r.End.UnixMilli()
}

// ContainsTime reports whether t falls in r.
func (r Range) ContainsTime(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Period selects the length of a statistics window.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// DayRange covers t's local calendar day.
func DayRange(t time.Time) Range {
	return Range{Start: models.StartOfDay(t), End: models.EndOfDay(t)}
}

// MonthRange covers t's calendar month.
func MonthRange(t time.Time) Range {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Millisecond)}
}

// YearRange covers t's calendar year.
func YearRange(t time.Time) Range {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Millisecond)}
}

// RangeFor returns the period containing t.
func RangeFor(p Period, t time.Time) Range {
	if p == PeriodYear {
		return YearRange(t)
	}
	return MonthRange(t)
}

// PreviousRange returns the period immediately before the one containing t.
func PreviousRange(p Period, t time.Time) Range {
	if p == PeriodYear {
		return YearRange(time.Date(t.Year()-1, time.January, 1, 0, 0, 0, 0, t.Location()))
	}
	return MonthRange(time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, t.Location()))
}
