// ABOUTME: Routine, RoutineElement, and ScheduleEntry models.
// ABOUTME: Elements are embedded in their routine and persisted as one JSON column.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RoutineElement is an exercise's target prescription within a routine.
// TargetReps is reps for strength, seconds for isometric and minutes for
// cardio. TargetWeight is kg, or km for cardio.
type RoutineElement struct {
	ExerciseID   int64    `json:"exerciseId" yaml:"exercise_id"`
	TargetSets   int      `json:"targetSets" yaml:"target_sets"`
	TargetReps   int      `json:"targetReps" yaml:"target_reps"`
	TargetWeight float64  `json:"targetWeight" yaml:"target_weight"`
	TargetSpeed  *float64 `json:"targetSpeed,omitempty" yaml:"target_speed,omitempty"`
}

// RoutineElements is the ordered element list. It maps to a TEXT column.
type RoutineElements []RoutineElement

// Value implements driver.Valuer.
func (e RoutineElements) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]RoutineElement(e))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (e *RoutineElements) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*e = RoutineElements{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("scan routine elements: unsupported type %T", src)
	}
	var out []RoutineElement
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("scan routine elements: %w", err)
	}
	*e = out
	return nil
}

// Find returns the element targeting exerciseID.
func (e RoutineElements) Find(exerciseID int64) (RoutineElement, bool) {
	for _, el := range e {
		if el.ExerciseID == exerciseID {
			return el, true
		}
	}
	return RoutineElement{}, false
}

// Routine is a named, ordered template of exercise targets.
type Routine struct {
	ID       int64           `json:"id,omitempty" yaml:"id" db:"id"`
	Name     string          `json:"name" yaml:"name" db:"name"`
	Elements RoutineElements `json:"elements" yaml:"elements" db:"elements"`
}

// NewRoutine creates a routine from its elements, keeping their order.
func NewRoutine(name string, elements ...RoutineElement) *Routine {
	return &Routine{
		Name:     strings.TrimSpace(name),
		Elements: append(RoutineElements{}, elements...),
	}
}

// RecordID implements Record.
func (r Routine) RecordID() int64 { return r.ID }

// Validate rejects routines without a name or with malformed elements.
func (r *Routine) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("routine", "name", "is required")
	}
	return validateElements(r.Elements)
}

func validateElements(elements RoutineElements) error {
	for i, el := range elements {
		if el.ExerciseID <= 0 {
			return invalid("routine", fmt.Sprintf("elements[%d].exerciseId", i), "must reference an exercise")
		}
		if el.TargetSets < 1 {
			return invalid("routine", fmt.Sprintf("elements[%d].targetSets", i), "must be at least 1")
		}
		if el.TargetReps < 0 || el.TargetWeight < 0 {
			return invalid("routine", fmt.Sprintf("elements[%d]", i), "targets must not be negative")
		}
	}
	return nil
}

// RoutinePatch holds the fields to change in a partial update.
type RoutinePatch struct {
	Name     *string
	Elements *RoutineElements
}

// Validate checks only the fields that are being changed.
func (p RoutinePatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("routine", "name", "is required")
	}
	if p.Elements != nil {
		return validateElements(*p.Elements)
	}
	return nil
}

// Apply merges the patch into r.
func (p RoutinePatch) Apply(r *Routine) {
	if p.Name != nil {
		r.Name = strings.TrimSpace(*p.Name)
	}
	if p.Elements != nil {
		r.Elements = append(RoutineElements{}, (*p.Elements)...)
	}
}

// DaysPerWeek is the number of schedule entries that always exist.
const DaysPerWeek = 7

// DayNames indexes short weekday names by day index (0 = Sunday).
var DayNames = [DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ScheduleEntry maps a day of the week to a routine. A nil RoutineID is a
// rest day.
type ScheduleEntry struct {
	ID        int64  `json:"id,omitempty" yaml:"id" db:"id"`
	DayIndex  int    `json:"dayIndex" yaml:"day_index" db:"day_index"`
	RoutineID *int64 `json:"routineId" yaml:"routine_id" db:"routine_id"`
}

// RecordID implements Record.
func (s ScheduleEntry) RecordID() int64 { return s.ID }

// Validate checks the day index range.
func (s *ScheduleEntry) Validate() error {
	if s.DayIndex < 0 || s.DayIndex >= DaysPerWeek {
		return invalid("schedule", "dayIndex", "must be between 0 and 6")
	}
	return nil
}

// ParseDay accepts a day index ("0".."6") or a weekday name ("mon", "Monday").
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	for i, name := range DayNames {
		short := strings.ToLower(name)
		if s == short || (len(s) > 3 && strings.HasPrefix(s, short)) {
			return i, nil
		}
	}
	return 0, invalid("schedule", "day", fmt.Sprintf("%q is not a weekday", s))
}
