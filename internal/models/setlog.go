// ABOUTME: SetLog model for one performed exercise set.
// ABOUTME: Sets are immutable once stored; backlogged sets keep the current time of day.
package models

import "time"

// SetLog is one logged exercise set. Weight doubles as distance for cardio
// and Reps as minutes (cardio) or seconds (isometric).
type SetLog struct {
	ID         int64    `json:"id,omitempty" yaml:"id" db:"id"`
	ExerciseID int64    `json:"exerciseId" yaml:"exercise_id" db:"exercise_id"`
	Weight     float64  `json:"weight" yaml:"weight" db:"weight"`
	Reps       float64  `json:"reps" yaml:"reps" db:"reps"`
	Calories   *float64 `json:"calories,omitempty" yaml:"calories,omitempty" db:"calories"`
	IsWarmup   bool     `json:"isWarmup" yaml:"is_warmup" db:"is_warmup"`
	Timestamp  int64    `json:"timestamp" yaml:"timestamp" db:"timestamp"`
}

// NewSetLog creates a set logged at the given moment.
func NewSetLog(exerciseID int64, weight, reps float64, at time.Time) *SetLog {
	return &SetLog{
		ExerciseID: exerciseID,
		Weight:     weight,
		Reps:       reps,
		Timestamp:  at.UnixMilli(),
	}
}

// WithCalories sets the calories burned.
func (s *SetLog) WithCalories(kcal float64) *SetLog {
	s.Calories = &kcal
	return s
}

// RecordID implements Record.
func (s SetLog) RecordID() int64 { return s.ID }

// Time returns the set's timestamp in local time.
func (s SetLog) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Peak is the value tracked for progress: weight when loaded, otherwise reps.
func (s SetLog) Peak() float64 {
	if s.Weight > 0 {
		return s.Weight
	}
	return s.Reps
}

// Validate rejects sets without an exercise or timestamp.
func (s *SetLog) Validate() error {
	if s.ExerciseID <= 0 {
		return invalid("set", "exerciseId", "must reference an exercise")
	}
	if s.Timestamp <= 0 {
		return invalid("set", "timestamp", "is required")
	}
	if s.Weight < 0 || s.Reps < 0 {
		return invalid("set", "weight/reps", "must not be negative")
	}
	return nil
}

// BacklogTimestamp places now's time of day on day's calendar date, so a
// set logged "for yesterday" lands inside yesterday.
func BacklogTimestamp(day, now time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), 0, day.Location())
}

// DayBounds returns the [00:00:00.000, 23:59:59.999] window of t's day in
// epoch milliseconds.
func DayBounds(t time.Time) (start, end int64) {
	return StartOfDay(t).UnixMilli(), EndOfDay(t).UnixMilli()
}
