// ABOUTME: Exercise model and Category enum for trainable movements.
// ABOUTME: Includes the seven default exercises seeded on first run.
package models

import "strings"

// Category decides how a set's weight and reps fields are interpreted.
type Category string

const (
	CategoryStrength  Category = "strength"
	CategoryCardio    Category = "cardio"
	CategoryIsometric Category = "isometric"
)

// AllCategories lists every valid exercise category.
var AllCategories = []Category{CategoryStrength, CategoryCardio, CategoryIsometric}

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Units returns the display units for the weight and reps fields of a set.
func (c Category) Units() (primary, secondary string) {
	switch c {
	case CategoryCardio:
		return "km", "min"
	case CategoryIsometric:
		return "kg", "sec"
	default:
		return "kg", "reps"
	}
}

// Exercise is a trainable movement.
type Exercise struct {
	ID           int64    `json:"id,omitempty" yaml:"id" db:"id"`
	Name         string   `json:"name" yaml:"name" db:"name"`
	TargetMuscle string   `json:"targetMuscle" yaml:"target_muscle" db:"target_muscle"`
	Category     Category `json:"category" yaml:"category" db:"category"`
	IsCustom     bool     `json:"isCustom,omitempty" yaml:"is_custom,omitempty" db:"is_custom"`
}

// NewExercise creates a user-defined exercise.
func NewExercise(name, targetMuscle string, category Category) *Exercise {
	return &Exercise{
		Name:         strings.TrimSpace(name),
		TargetMuscle: strings.TrimSpace(targetMuscle),
		Category:     category,
		IsCustom:     true,
	}
}

// RecordID implements Record.
func (e Exercise) RecordID() int64 { return e.ID }

// Validate rejects exercises the store must never see.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("exercise", "name", "is required")
	}
	if !IsValidCategory(string(e.Category)) {
		return invalid("exercise", "category", "must be strength, cardio or isometric")
	}
	return nil
}

// ExercisePatch holds the fields to change in a partial update.
// Nil fields are preserved.
type ExercisePatch struct {
	Name         *string
	TargetMuscle *string
	Category     *Category
}

// Validate checks only the fields that are being changed.
func (p ExercisePatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("exercise", "name", "is required")
	}
	if p.Category != nil && !IsValidCategory(string(*p.Category)) {
		return invalid("exercise", "category", "must be strength, cardio or isometric")
	}
	return nil
}

// Apply merges the patch into e.
func (p ExercisePatch) Apply(e *Exercise) {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.TargetMuscle != nil {
		e.TargetMuscle = *p.TargetMuscle
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
}

// DefaultExercises is the set seeded into a brand new store.
var DefaultExercises = []Exercise{
	{Name: "Bench Press", TargetMuscle: "Chest", Category: CategoryStrength},
	{Name: "Squat", TargetMuscle: "Legs", Category: CategoryStrength},
	{Name: "Deadlift", TargetMuscle: "Back", Category: CategoryStrength},
	{Name: "Overhead Press", TargetMuscle: "Shoulders", Category: CategoryStrength},
	{Name: "Pull Up", TargetMuscle: "Back", Category: CategoryStrength},
	{Name: "Incline Walk", TargetMuscle: "Cardio", Category: CategoryCardio},
	{Name: "Plank", TargetMuscle: "Core", Category: CategoryIsometric},
}
