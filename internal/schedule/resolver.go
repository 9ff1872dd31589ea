// ABOUTME: Resolves which routine is active for a calendar date.
// ABOUTME: Rest days and dangling routine references both mean free training.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

// ActiveRoutine returns the routine scheduled for date's weekday, or nil for
// free training. A schedule entry pointing at a deleted routine is a rest day.
func ActiveRoutine(ctx context.Context, r storage.Reader, date time.Time) (*models.Routine, error) {
	entry, err := r.ScheduleForDay(ctx, int(date.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("resolve schedule: %w", err)
	}
	if entry == nil || entry.RoutineID == nil {
		return nil, nil
	}
	routine, err := r.GetRoutine(ctx, *entry.RoutineID)
	if err != nil {
		return nil, fmt.Errorf("resolve routine: %w", err)
	}
	return routine, nil
}

// Week returns the routine (or nil) for every day index, Sunday first.
func Week(ctx context.Context, r storage.Reader) ([models.DaysPerWeek]*models.Routine, error) {
	var week [models.DaysPerWeek]*models.Routine
	entries, err := r.ListSchedule(ctx)
	if err != nil {
		return week, fmt.Errorf("list schedule: %w", err)
	}
	routines, err := r.ListRoutines(ctx)
	if err != nil {
		return week, fmt.Errorf("list routines: %w", err)
	}
	for _, e := range entries {
		if e.RoutineID == nil {
			continue
		}
		if routine, ok := models.LookupByID(routines, *e.RoutineID); ok {
			week[e.DayIndex] = &routine
		}
	}
	return week, nil
}

// Missed describes a scheduled day with no logged sets.
type Missed struct {
	Date    time.Time      `json:"date"`
	Routine models.Routine `json:"routine"`
}

// CheckMissed looks at the day before now. It returns nil unless that day
// had a routine scheduled and not a single set was logged.
func CheckMissed(ctx context.Context, r storage.Reader, now time.Time) (*Missed, error) {
	yesterday := models.StartOfDay(now).AddDate(0, 0, -1)
	routine, err := ActiveRoutine(ctx, r, yesterday)
	if err != nil || routine == nil {
		return nil, err
	}

	start, end := models.DayBounds(yesterday)
	sets, err := r.SetsBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("check missed day: %w", err)
	}
	if len(sets) > 0 {
		return nil, nil
	}
	return &Missed{Date: yesterday, Routine: *routine}, nil
}
