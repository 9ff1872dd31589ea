// ABOUTME: Completion of a day's displayed exercises against routine targets.
// ABOUTME: Free-training days list every exercise and are never complete.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

// ItemProgress is one displayed exercise. Target is nil in free training or
// when the exercise has no element in the routine.
type ItemProgress struct {
	Exercise models.Exercise        `json:"exercise"`
	Target   *models.RoutineElement `json:"target,omitempty"`
	Done     int                    `json:"done"`
	Complete bool                   `json:"complete"`
}

// DayProgress is the state of one date's training.
type DayProgress struct {
	Date     string          `json:"date"`
	Routine  *models.Routine `json:"routine,omitempty"`
	Items    []ItemProgress  `json:"items"`
	Sets     []models.SetLog `json:"sets"`
	Complete bool            `json:"complete"`
}

// FreeTraining reports whether no routine is active.
func (p *DayProgress) FreeTraining() bool {
	return p.Routine == nil
}

// LoadProgress reads the exercise library and date's sets, then builds the
// progress for routine (nil for free training).
func LoadProgress(ctx context.Context, r storage.Reader, date time.Time, routine *models.Routine) (*DayProgress, error) {
	exercises, err := r.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}
	start, end := models.DayBounds(date)
	sets, err := r.SetsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load day sets: %w", err)
	}
	p := BuildProgress(routine, exercises, sets)
	p.Date = models.DateKey(date)
	return &p, nil
}

// BuildProgress lists the routine's exercises in element order, skipping
// elements whose exercise no longer exists, or every exercise in free
// training. The day is complete when the list is non-empty and every item
// reached its target set count.
func BuildProgress(routine *models.Routine, exercises []models.Exercise, daySets []models.SetLog) DayProgress {
	done := make(map[int64]int)
	for _, s := range daySets {
		done[s.ExerciseID]++
	}

	var items []ItemProgress
	if routine != nil {
		byID := models.IndexByID(exercises)
		for _, el := range routine.Elements {
			ex, ok := byID[el.ExerciseID]
			if !ok {
				continue
			}
			target := el
			items = append(items, ItemProgress{
				Exercise: ex,
				Target:   &target,
				Done:     done[ex.ID],
				Complete: done[ex.ID] >= target.TargetSets,
			})
		}
	} else {
		for _, ex := range exercises {
			items = append(items, ItemProgress{Exercise: ex, Done: done[ex.ID]})
		}
	}

	complete := len(items) > 0
	for _, it := range items {
		if !it.Complete {
			complete = false
			break
		}
	}

	if items == nil {
		items = []ItemProgress{}
	}
	if daySets == nil {
		daySets = []models.SetLog{}
	}
	return DayProgress{Routine: routine, Items: items, Sets: daySets, Complete: complete}
}
