// ABOUTME: DailyLog model for per-date nutrition intake and weight check-ins.
// ABOUTME: Records are keyed by a unique YYYY-MM-DD date string.
package models

import "time"

// DateKeyLayout is the layout of DailyLog date keys.
const DateKeyLayout = "2006-01-02"

// DailyLog is one record per calendar date.
type DailyLog struct {
	ID           int64    `json:"id,omitempty" yaml:"id" db:"id"`
	Date         string   `json:"date" yaml:"date" db:"date"`
	Calories     float64  `json:"calories" yaml:"calories" db:"calories"`
	Protein      float64  `json:"protein" yaml:"protein" db:"protein"`
	LoggedWeight *float64 `json:"loggedWeight,omitempty" yaml:"logged_weight,omitempty" db:"logged_weight"`
}

// RecordID implements Record.
func (d DailyLog) RecordID() int64 { return d.ID }

// Validate checks the date key and that intake is not negative.
func (d *DailyLog) Validate() error {
	if _, err := ParseDateKey(d.Date); err != nil {
		return invalid("daily log", "date", "must be YYYY-MM-DD")
	}
	if d.Calories < 0 || d.Protein < 0 {
		return invalid("daily log", "intake", "must not be negative")
	}
	return nil
}

// DailyLogPatch holds the fields to change in a partial update.
type DailyLogPatch struct {
	Calories     *float64
	Protein      *float64
	LoggedWeight *float64
}

// Apply merges the patch into d.
func (p DailyLogPatch) Apply(d *DailyLog) {
	if p.Calories != nil {
		d.Calories = *p.Calories
	}
	if p.Protein != nil {
		d.Protein = *p.Protein
	}
	if p.LoggedWeight != nil {
		w := *p.LoggedWeight
		d.LoggedWeight = &w
	}
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as local midnight.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, time.Local)
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
