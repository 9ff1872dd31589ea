// ABOUTME: Tests for ironlog models.
// ABOUTME: Validates constructors, validation rules, onboarding targets, and date helpers.
package models

import (
	"errors"
	"testing"
	"time"
)

func TestExerciseValidate(t *testing.T) {
	tests := []struct {
		name    string
		ex      Exercise
		wantErr bool
	}{
		{"valid strength", Exercise{Name: "Squat", Category: CategoryStrength}, false},
		{"valid cardio", Exercise{Name: "Row", Category: CategoryCardio}, false},
		{"empty name", Exercise{Name: "  ", Category: CategoryStrength}, true},
		{"bad category", Exercise{Name: "Yoga", Category: "mobility"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ex.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewExerciseIsCustom(t *testing.T) {
	ex := NewExercise(" Farmer Carry ", "Grip", CategoryStrength)
	if !ex.IsCustom {
		t.Error("expected user-created exercise to be custom")
	}
	if ex.Name != "Farmer Carry" {
		t.Errorf("Name = %q, want trimmed", ex.Name)
	}
}

func TestRoutineValidate(t *testing.T) {
	ok := NewRoutine("Push", RoutineElement{ExerciseID: 1, TargetSets: 3, TargetReps: 10})
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	noName := NewRoutine("")
	if err := noName.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for empty name, got %v", err)
	}

	zeroSets := NewRoutine("Legs", RoutineElement{ExerciseID: 2, TargetSets: 0})
	if err := zeroSets.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for zero target sets, got %v", err)
	}
}

func TestRoutineElementsScanValue(t *testing.T) {
	speed := 6.5
	in := RoutineElements{
		{ExerciseID: 3, TargetSets: 3, TargetReps: 5, TargetWeight: 100},
		{ExerciseID: 6, TargetSets: 1, TargetReps: 30, TargetWeight: 12, TargetSpeed: &speed},
	}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var out RoutineElements
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(out) != 2 || out[0].ExerciseID != 3 || out[1].ExerciseID != 6 {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[1].TargetSpeed == nil || *out[1].TargetSpeed != 6.5 {
		t.Errorf("TargetSpeed lost: %+v", out[1])
	}

	var empty RoutineElements
	if err := empty.Scan(nil); err != nil || len(empty) != 0 {
		t.Errorf("Scan(nil) = %v, %v", empty, err)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"6", 6, false},
		{"mon", 1, false},
		{"Wednesday", 3, false},
		{"SAT", 6, false},
		{"7", 0, true},
		{"funday", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDay(%q) expected error", tt.in)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDay(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestDeriveGoal(t *testing.T) {
	if DeriveGoal(90, 80) != GoalLoss {
		t.Error("expected loss")
	}
	if DeriveGoal(70, 80) != GoalGain {
		t.Error("expected gain")
	}
	if DeriveGoal(80, 80) != GoalMaintain {
		t.Error("expected maintain")
	}
}

func TestCalculateTargets(t *testing.T) {
	// BMR = 800 + 1125 - 150 + 5 = 1780; TDEE = round(2403) = 2403
	got := CalculateTargets(80, 180, 30, GenderMale, GoalMaintain)
	if got.TDEE != 2403 {
		t.Errorf("TDEE = %d, want 2403", got.TDEE)
	}
	if got.Calories != 2403 {
		t.Errorf("Calories = %d, want 2403", got.Calories)
	}
	if got.Protein != 160 {
		t.Errorf("Protein = %d, want 160", got.Protein)
	}

	loss := CalculateTargets(80, 180, 30, GenderMale, GoalLoss)
	if loss.Calories != 1903 {
		t.Errorf("loss Calories = %d, want 1903", loss.Calories)
	}

	// BMR = 600 + 1000 - 125 - 161 = 1314; TDEE = round(1773.9) = 1774
	female := CalculateTargets(60, 160, 25, GenderFemale, GoalGain)
	if female.TDEE != 1774 || female.Calories != 2074 {
		t.Errorf("female targets = %+v, want TDEE 1774 calories 2074", female)
	}
}

func TestNewProfile(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	p := NewProfile(OnboardingInput{
		Name:       "Sam",
		Gender:     GenderMale,
		BirthYear:  1996,
		Height:     180,
		Weight:     80,
		GoalWeight: 75,
	}, now)

	if p.Goal != GoalLoss {
		t.Errorf("Goal = %s, want loss", p.Goal)
	}
	if !p.Onboarded() {
		t.Error("expected profile to be onboarded")
	}
	if p.StartingWeight != 80 || p.CurrentWeight != 80 {
		t.Errorf("weights = %v/%v, want 80/80", p.StartingWeight, p.CurrentWeight)
	}
	if p.DailyCalorieTarget != 1903 {
		t.Errorf("DailyCalorieTarget = %d, want 1903", p.DailyCalorieTarget)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	var missing *UserProfile
	if missing.Onboarded() {
		t.Error("nil profile must not be onboarded")
	}
}

func TestBacklogTimestamp(t *testing.T) {
	now := time.Date(2026, 5, 10, 14, 30, 15, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	ts := BacklogTimestamp(yesterday, now)
	start, end := DayBounds(yesterday)
	if ts.UnixMilli() < start || ts.UnixMilli() > end {
		t.Errorf("backlogged timestamp %v not inside yesterday", ts)
	}
	if ts.Hour() != 14 || ts.Minute() != 30 || ts.Second() != 15 {
		t.Errorf("time of day not preserved: %v", ts)
	}
	if SameDay(ts, now) {
		t.Error("backlogged set must not land on today")
	}
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2026, 1, 15, 12, 0, 0, 0, time.Local)
	start, end := DayBounds(day)
	if end-start != 24*60*60*1000-1 {
		t.Errorf("window = %d ms, want one day minus 1ms", end-start)
	}
	if time.UnixMilli(start).Hour() != 0 {
		t.Error("start must be midnight")
	}
}

func TestSetPeak(t *testing.T) {
	if (SetLog{Weight: 100, Reps: 5}).Peak() != 100 {
		t.Error("loaded set should track weight")
	}
	if (SetLog{Weight: 0, Reps: 12}).Peak() != 12 {
		t.Error("bodyweight set should track reps")
	}
}

func TestLookupByID(t *testing.T) {
	exercises := []Exercise{{ID: 1, Name: "Squat"}, {ID: 2, Name: "Bench"}}
	if ex, ok := LookupByID(exercises, 2); !ok || ex.Name != "Bench" {
		t.Errorf("LookupByID(2) = %+v, %v", ex, ok)
	}
	if _, ok := LookupByID(exercises, 99); ok {
		t.Error("dangling id must resolve to absent")
	}
	idx := IndexByID(exercises)
	if ExerciseName(idx, 99) != "Unknown Exercise" {
		t.Error("expected Unknown Exercise label for dangling reference")
	}
}

func TestDailyLogValidate(t *testing.T) {
	ok := DailyLog{Date: "2026-02-01", Calories: 1800, Protein: 120}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	bad := DailyLog{Date: "02/01/2026"}
	if err := bad.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestDefaultElement(t *testing.T) {
	el := DefaultElement(Exercise{ID: 6, Category: CategoryCardio})
	if el.TargetSets != 1 || el.TargetReps != 30 {
		t.Errorf("cardio default = %+v", el)
	}
	el = DefaultElement(Exercise{ID: 1, Category: CategoryStrength})
	if el.TargetSets != 3 || el.TargetReps != 10 {
		t.Errorf("strength default = %+v", el)
	}
}
