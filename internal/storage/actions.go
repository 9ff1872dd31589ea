// ABOUTME: Multi-step store operations built on the Repository interface.
// ABOUTME: Nutrition and weight check-ins, starter-plan routines, and reset.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

// LogNutrition records the day's calorie and protein totals, replacing any
// previous totals for that date and keeping its weight check-in.
func LogNutrition(ctx context.Context, repo Repository, day time.Time, calories, protein float64) (*models.DailyLog, error) {
	l := &models.DailyLog{
		Date:     models.DateKey(day),
		Calories: calories,
		Protein:  protein,
	}
	if _, err := repo.UpsertDailyLog(ctx, l); err != nil {
		return nil, fmt.Errorf("log nutrition: %w", err)
	}
	return l, nil
}

// CheckInWeight updates the profile's current weight and records the weight
// on the day's log. Existing intake totals for the day are kept.
func CheckInWeight(ctx context.Context, repo Repository, day time.Time, weight float64) (*models.DailyLog, error) {
	if weight <= 0 {
		return nil, &models.ValidationError{Entity: "profile", Field: "currentWeight", Reason: "must be positive"}
	}

	l, err := repo.RecordWeight(ctx, models.DateKey(day), weight)
	if err != nil {
		return nil, fmt.Errorf("check in weight: %w", err)
	}
	return l, nil
}

// PlanNames returns the starter plan names in sorted order.
func PlanNames() []string {
	names := make([]string, 0, len(models.StarterPlans))
	for name := range models.StarterPlans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateRoutineFromPlan builds a routine from a starter plan. Plan exercises
// are matched to the library by name; missing ones are added first.
func CreateRoutineFromPlan(ctx context.Context, repo Repository, plan, name string) (*models.Routine, error) {
	templates, ok := models.StarterPlans[strings.ToLower(plan)]
	if !ok {
		return nil, &models.ValidationError{Entity: "routine", Field: "plan", Reason: fmt.Sprintf("%q is not a starter plan", plan)}
	}
	if strings.TrimSpace(name) == "" {
		name = plan
	}

	library, err := repo.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("create routine from plan: %w", err)
	}
	byName := make(map[string]models.Exercise, len(library))
	for _, ex := range library {
		byName[strings.ToLower(ex.Name)] = ex
	}

	elements := make([]models.RoutineElement, 0, len(templates))
	for _, tmpl := range templates {
		ex, ok := byName[strings.ToLower(tmpl.Name)]
		if !ok {
			ex = tmpl
			if _, err := repo.AddExercise(ctx, &ex); err != nil {
				return nil, fmt.Errorf("create routine from plan: %w", err)
			}
		}
		elements = append(elements, models.DefaultElement(ex))
	}

	r := models.NewRoutine(name, elements...)
	if _, err := repo.AddRoutine(ctx, r); err != nil {
		return nil, fmt.Errorf("create routine from plan: %w", err)
	}
	return r, nil
}

// Reset deletes all data and restores the first-run contents.
func Reset(ctx context.Context, repo Repository) error {
	if err := repo.ReplaceAll(ctx, SeedDataset()); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	return nil
}
