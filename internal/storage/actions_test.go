// ABOUTME: Tests for multi-step store operations.
// ABOUTME: Covers nutrition logging, weight check-ins, plan routines, and reset.
package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

func onboard(t *testing.T, repo Repository) {
	t.Helper()
	p := models.NewProfile(models.OnboardingInput{
		Name: "Sam", Gender: models.GenderMale, BirthYear: 1990, Height: 180, Weight: 80, GoalWeight: 75,
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	if _, err := repo.SaveProfile(context.Background(), p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
}

func TestLogNutritionKeepsWeight(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		onboard(t, repo)
		day := time.Date(2024, 5, 4, 18, 0, 0, 0, time.Local)

		if _, err := CheckInWeight(ctx, repo, day, 79.2); err != nil {
			t.Fatalf("CheckInWeight failed: %v", err)
		}
		l, err := LogNutrition(ctx, repo, day, 2200, 160)
		if err != nil {
			t.Fatalf("LogNutrition failed: %v", err)
		}
		if l.Date != "2024-05-04" {
			t.Errorf("expected date key 2024-05-04, got %s", l.Date)
		}

		got, _ := repo.DailyLogByDate(ctx, "2024-05-04")
		if got.Calories != 2200 || got.Protein != 160 {
			t.Errorf("intake not saved: %+v", got)
		}
		if got.LoggedWeight == nil || *got.LoggedWeight != 79.2 {
			t.Errorf("weight lost on nutrition log: %+v", got.LoggedWeight)
		}
	})
}

func TestCheckInWeightKeepsIntake(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		onboard(t, repo)
		day := time.Date(2024, 5, 4, 8, 0, 0, 0, time.Local)

		if _, err := LogNutrition(ctx, repo, day, 1800, 140); err != nil {
			t.Fatalf("LogNutrition failed: %v", err)
		}
		if _, err := CheckInWeight(ctx, repo, day, 78.5); err != nil {
			t.Fatalf("CheckInWeight failed: %v", err)
		}

		got, _ := repo.DailyLogByDate(ctx, "2024-05-04")
		if got.Calories != 1800 || got.Protein != 140 {
			t.Errorf("intake changed by weight check-in: %+v", got)
		}
		p, _ := repo.Profile(ctx)
		if p.CurrentWeight != 78.5 {
			t.Errorf("expected current weight 78.5, got %v", p.CurrentWeight)
		}
	})
}

func TestCheckInWeightRequiresProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		_, err := CheckInWeight(context.Background(), repo, time.Now(), 80)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound without a profile, got %v", err)
		}
		_, err = CheckInWeight(context.Background(), repo, time.Now(), -1)
		if !errors.Is(err, models.ErrInvalid) {
			t.Errorf("expected ErrInvalid for negative weight, got %v", err)
		}
	})
}

func TestRecordWeightIsAtomic(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		onboard(t, repo)

		if _, err := repo.RecordWeight(ctx, "05/04/2024", 70); !errors.Is(err, models.ErrInvalid) {
			t.Fatalf("expected ErrInvalid for a bad date, got %v", err)
		}
		p, _ := repo.Profile(ctx)
		if p.CurrentWeight != 80 {
			t.Errorf("profile weight changed by a failed check-in: %v", p.CurrentWeight)
		}
		if n, _ := repo.Count(ctx, DailyLogs); n != 0 {
			t.Errorf("expected no daily logs, got %d", n)
		}

		l, err := repo.RecordWeight(ctx, "2024-05-04", 79)
		if err != nil {
			t.Fatalf("RecordWeight failed: %v", err)
		}
		if l.ID == 0 || l.LoggedWeight == nil || *l.LoggedWeight != 79 {
			t.Errorf("unexpected daily log: %+v", l)
		}
		if p, _ := repo.Profile(ctx); p.CurrentWeight != 79 {
			t.Errorf("expected current weight 79, got %v", p.CurrentWeight)
		}
	})
}

func TestCreateRoutineFromPlan(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		r, err := CreateRoutineFromPlan(ctx, repo, "strength", "")
		if err != nil {
			t.Fatalf("CreateRoutineFromPlan failed: %v", err)
		}
		if r.Name != "strength" || len(r.Elements) != 5 {
			t.Fatalf("unexpected routine: %+v", r)
		}

		// Barbell Row is the only plan exercise missing from the seed.
		n, _ := repo.Count(ctx, Exercises)
		if n != 8 {
			t.Errorf("expected 8 exercises, got %d", n)
		}

		for _, el := range r.Elements {
			ex, _ := repo.GetExercise(ctx, el.ExerciseID)
			if ex == nil {
				t.Errorf("element references missing exercise %d", el.ExerciseID)
			}
			if el.TargetSets != 3 || el.TargetReps != 10 {
				t.Errorf("expected 3x10 default, got %dx%d", el.TargetSets, el.TargetReps)
			}
		}

		if _, err := CreateRoutineFromPlan(ctx, repo, "yoga", "x"); !errors.Is(err, models.ErrInvalid) {
			t.Errorf("expected ErrInvalid for unknown plan, got %v", err)
		}
	})
}

func TestReset(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		onboard(t, repo)
		if _, err := repo.AddSet(ctx, models.NewSetLog(1, 100, 5, time.Now())); err != nil {
			t.Fatalf("AddSet failed: %v", err)
		}

		if err := Reset(ctx, repo); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}

		if n, _ := repo.Count(ctx, Sets); n != 0 {
			t.Errorf("expected sets cleared, got %d", n)
		}
		if p, _ := repo.Profile(ctx); p != nil {
			t.Errorf("expected profile cleared, got %+v", p)
		}
		if n, _ := repo.Count(ctx, Exercises); n != 7 {
			t.Errorf("expected seed exercises, got %d", n)
		}
		if n, _ := repo.Count(ctx, Schedule); n != 7 {
			t.Errorf("expected seed schedule, got %d", n)
		}
	})
}

func TestPlanNames(t *testing.T) {
	names := PlanNames()
	want := []string{"endurance", "hypertrophy", "loss", "strength"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
