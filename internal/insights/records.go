// ABOUTME: Personal record detection and the "ghost" last set of an exercise.
// ABOUTME: RecordSet stores a new set and runs the record check against its history.
package insights

import (
	"context"
	"fmt"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

// PersonalRecord is the outcome of checking a new set against history.
type PersonalRecord struct {
	IsRecord bool    `json:"isRecord"`
	Previous float64 `json:"previous"`
}

// CheckPersonalRecord reports whether weight beats every earlier set of a
// strength exercise. The first ever set is not a record.
func CheckPersonalRecord(history []models.SetLog, category models.Category, weight float64) PersonalRecord {
	var best float64
	for _, s := range history {
		best = max(best, s.Weight)
	}
	if category != models.CategoryStrength || weight <= 0 || len(history) == 0 {
		return PersonalRecord{Previous: best}
	}
	return PersonalRecord{IsRecord: weight > best, Previous: best}
}

// LastSet returns the most recent set of exerciseID, or nil.
func LastSet(sets []models.SetLog, exerciseID int64) *models.SetLog {
	var last *models.SetLog
	for i := range sets {
		s := &sets[i]
		if s.ExerciseID != exerciseID {
			continue
		}
		if last == nil || s.Timestamp > last.Timestamp || (s.Timestamp == last.Timestamp && s.ID > last.ID) {
			last = s
		}
	}
	if last == nil {
		return nil
	}
	out := *last
	return &out
}

// RecordSet stores s and reports whether it set a new personal record for
// its exercise. The exercise must exist.
func RecordSet(ctx context.Context, repo storage.Repository, s *models.SetLog) (*models.Exercise, PersonalRecord, error) {
	ex, err := repo.GetExercise(ctx, s.ExerciseID)
	if err != nil {
		return nil, PersonalRecord{}, fmt.Errorf("load exercise: %w", err)
	}
	if ex == nil {
		return nil, PersonalRecord{}, &models.ValidationError{Entity: "set", Field: "exerciseId", Reason: fmt.Sprintf("exercise %d does not exist", s.ExerciseID)}
	}
	history, err := repo.SetsForExercise(ctx, s.ExerciseID, storage.Ascending)
	if err != nil {
		return nil, PersonalRecord{}, fmt.Errorf("load history: %w", err)
	}
	pr := CheckPersonalRecord(history, ex.Category, s.Weight)
	if _, err := repo.AddSet(ctx, s); err != nil {
		return nil, PersonalRecord{}, fmt.Errorf("add set: %w", err)
	}
	return ex, pr, nil
}
