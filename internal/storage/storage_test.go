// ABOUTME: Tests for the Repository implementations.
// ABOUTME: Every case runs against both the SQLite and Badger engines.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

func TestSeedOnFirstOpen(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		n, err := repo.Count(ctx, Exercises)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 7 {
			t.Errorf("expected 7 seeded exercises, got %d", n)
		}

		schedule, err := repo.ListSchedule(ctx)
		if err != nil {
			t.Fatalf("ListSchedule failed: %v", err)
		}
		if len(schedule) != models.DaysPerWeek {
			t.Fatalf("expected 7 schedule entries, got %d", len(schedule))
		}
		for i, e := range schedule {
			if e.DayIndex != i {
				t.Errorf("entry %d has day index %d", i, e.DayIndex)
			}
			if e.RoutineID != nil {
				t.Errorf("day %d should be a rest day, got routine %d", i, *e.RoutineID)
			}
		}

		p, err := repo.Profile(ctx)
		if err != nil {
			t.Fatalf("Profile failed: %v", err)
		}
		if p.Onboarded() {
			t.Error("new store should not be onboarded")
		}
	})
}

func TestSeedHappensOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ironlog.db")
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := db.DeleteExercise(ctx, 1); err != nil {
			t.Fatalf("DeleteExercise failed: %v", err)
		}
		db.Close()

		db, err = Open(path)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer db.Close()

		n, _ := db.Count(ctx, Exercises)
		if n != 6 {
			t.Errorf("expected 6 exercises after reopen, got %d", n)
		}
		v, err := db.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion failed: %v", err)
		}
		if v < 1 {
			t.Errorf("expected schema version >= 1, got %d", v)
		}
	})

	t.Run("badger", func(t *testing.T) {
		dir := t.TempDir()
		kv, err := OpenKV(dir)
		if err != nil {
			t.Fatalf("OpenKV failed: %v", err)
		}
		if err := kv.DeleteExercise(ctx, 1); err != nil {
			t.Fatalf("DeleteExercise failed: %v", err)
		}
		kv.Close()

		kv, err = OpenKV(dir)
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer kv.Close()

		n, _ := kv.Count(ctx, Exercises)
		if n != 6 {
			t.Errorf("expected 6 exercises after reopen, got %d", n)
		}
	})
}

func TestAddAssignsUnusedID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ex := models.NewExercise("Dips", "Chest", models.CategoryStrength)
		id, err := repo.AddExercise(ctx, ex)
		if err != nil {
			t.Fatalf("AddExercise failed: %v", err)
		}
		if id == 0 || ex.ID != id {
			t.Fatalf("expected id stored on record, got id=%d record=%d", id, ex.ID)
		}

		if err := repo.DeleteExercise(ctx, id); err != nil {
			t.Fatalf("DeleteExercise failed: %v", err)
		}

		again := models.NewExercise("Dips", "Chest", models.CategoryStrength)
		id2, err := repo.AddExercise(ctx, again)
		if err != nil {
			t.Fatalf("AddExercise failed: %v", err)
		}
		if id2 == id {
			t.Errorf("deleted id %d was reused", id)
		}

		got, err := repo.GetExercise(ctx, id2)
		if err != nil {
			t.Fatalf("GetExercise failed: %v", err)
		}
		if got == nil || got.Name != "Dips" || !got.IsCustom {
			t.Errorf("unexpected exercise: %+v", got)
		}
	})
}

func TestGetMissingReturnsNil(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ex, err := repo.GetExercise(ctx, 999)
		if err != nil || ex != nil {
			t.Errorf("GetExercise(999) = %v, %v; want nil, nil", ex, err)
		}
		r, err := repo.GetRoutine(ctx, 999)
		if err != nil || r != nil {
			t.Errorf("GetRoutine(999) = %v, %v; want nil, nil", r, err)
		}
		l, err := repo.DailyLogByDate(ctx, "2024-01-01")
		if err != nil || l != nil {
			t.Errorf("DailyLogByDate = %v, %v; want nil, nil", l, err)
		}
		s, err := repo.GetSet(ctx, 999)
		if err != nil || s != nil {
			t.Errorf("GetSet(999) = %v, %v; want nil, nil", s, err)
		}
	})
}

func TestUpdateIsPartialMerge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ex := models.NewExercise("Row", "Back", models.CategoryStrength)
		id, err := repo.AddExercise(ctx, ex)
		if err != nil {
			t.Fatalf("AddExercise failed: %v", err)
		}

		if err := repo.UpdateExercise(ctx, id, models.ExercisePatch{Name: ptr("Barbell Row")}); err != nil {
			t.Fatalf("UpdateExercise failed: %v", err)
		}

		got, _ := repo.GetExercise(ctx, id)
		if got.Name != "Barbell Row" {
			t.Errorf("expected name updated, got %q", got.Name)
		}
		if got.TargetMuscle != "Back" || got.Category != models.CategoryStrength || !got.IsCustom {
			t.Errorf("unpatched fields changed: %+v", got)
		}
	})
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		err := repo.UpdateExercise(ctx, 999, models.ExercisePatch{Name: ptr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		err = repo.UpdateRoutine(ctx, 999, models.RoutinePatch{Name: ptr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		err = repo.UpdateProfile(ctx, models.ProfilePatch{Name: ptr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing profile, got %v", err)
		}
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		if err := repo.DeleteSet(ctx, 12345); err != nil {
			t.Errorf("deleting a missing set should succeed, got %v", err)
		}
		if err := repo.DeleteRoutine(ctx, 12345); err != nil {
			t.Errorf("deleting a missing routine should succeed, got %v", err)
		}
		if err := repo.DeleteProfile(ctx); err != nil {
			t.Errorf("deleting a missing profile should succeed, got %v", err)
		}
	})
}

func TestInvalidRecordsRejected(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		tests := []struct {
			name string
			fn   func() error
		}{
			{"blank exercise name", func() error {
				_, err := repo.AddExercise(ctx, &models.Exercise{Name: " ", Category: models.CategoryStrength})
				return err
			}},
			{"bad category", func() error {
				_, err := repo.AddExercise(ctx, &models.Exercise{Name: "Yoga", Category: "flexibility"})
				return err
			}},
			{"blank routine name", func() error {
				_, err := repo.AddRoutine(ctx, models.NewRoutine(""))
				return err
			}},
			{"day out of range", func() error {
				return repo.AssignRoutine(ctx, 7, nil)
			}},
			{"bad date key", func() error {
				_, err := repo.UpsertDailyLog(ctx, &models.DailyLog{Date: "01/02/2024"})
				return err
			}},
			{"set without timestamp", func() error {
				_, err := repo.AddSet(ctx, &models.SetLog{ExerciseID: 1, Weight: 50, Reps: 5})
				return err
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.fn(); !errors.Is(err, models.ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
			})
		}

		n, _ := repo.Count(ctx, Routines)
		if n != 0 {
			t.Errorf("invalid routine was stored")
		}
	})
}

func TestSetQueries(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
		start, end := models.DayBounds(day)

		at := []int64{start - 1, start, start + 1000, end, end + 1}
		for i, ts := range at {
			s := &models.SetLog{ExerciseID: int64(1 + i%2), Weight: float64(40 + i), Reps: 5, Timestamp: ts}
			if _, err := repo.AddSet(ctx, s); err != nil {
				t.Fatalf("AddSet failed: %v", err)
			}
		}

		inDay, err := repo.SetsBetween(ctx, start, end)
		if err != nil {
			t.Fatalf("SetsBetween failed: %v", err)
		}
		if len(inDay) != 3 {
			t.Fatalf("expected 3 sets inside the day bounds, got %d", len(inDay))
		}
		if inDay[0].Timestamp != start || inDay[2].Timestamp != end {
			t.Errorf("bounds should be inclusive and ascending: %+v", inDay)
		}

		desc, err := repo.SetsForExercise(ctx, 1, Descending)
		if err != nil {
			t.Fatalf("SetsForExercise failed: %v", err)
		}
		if len(desc) != 3 {
			t.Fatalf("expected 3 sets for exercise 1, got %d", len(desc))
		}
		for i := 1; i < len(desc); i++ {
			if desc[i].Timestamp > desc[i-1].Timestamp {
				t.Errorf("sets not descending: %d after %d", desc[i].Timestamp, desc[i-1].Timestamp)
			}
		}

		all, _ := repo.ListSets(ctx, Ascending)
		if len(all) != 5 || all[0].Timestamp != start-1 {
			t.Errorf("ListSets ascending wrong: %+v", all)
		}
	})
}

func TestAssignRoutineKeepsSevenDays(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		r := models.NewRoutine("Push", models.RoutineElement{ExerciseID: 1, TargetSets: 3, TargetReps: 8, TargetWeight: 60})
		id, err := repo.AddRoutine(ctx, r)
		if err != nil {
			t.Fatalf("AddRoutine failed: %v", err)
		}

		if err := repo.AssignRoutine(ctx, 1, &id); err != nil {
			t.Fatalf("AssignRoutine failed: %v", err)
		}
		if err := repo.AssignRoutine(ctx, 1, &id); err != nil {
			t.Fatalf("AssignRoutine twice failed: %v", err)
		}

		schedule, _ := repo.ListSchedule(ctx)
		if len(schedule) != 7 {
			t.Fatalf("expected 7 entries, got %d", len(schedule))
		}
		monday, err := repo.ScheduleForDay(ctx, 1)
		if err != nil {
			t.Fatalf("ScheduleForDay failed: %v", err)
		}
		if monday.RoutineID == nil || *monday.RoutineID != id {
			t.Errorf("expected Monday to use routine %d, got %v", id, monday.RoutineID)
		}

		if err := repo.AssignRoutine(ctx, 1, nil); err != nil {
			t.Fatalf("clearing day failed: %v", err)
		}
		monday, _ = repo.ScheduleForDay(ctx, 1)
		if monday.RoutineID != nil {
			t.Errorf("expected rest day, got %v", *monday.RoutineID)
		}

		got, _ := repo.GetRoutine(ctx, id)
		if len(got.Elements) != 1 || got.Elements[0].TargetWeight != 60 {
			t.Errorf("routine elements not round-tripped: %+v", got.Elements)
		}
	})
}

func TestSaveProfileKeepsOne(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)

		first := models.NewProfile(models.OnboardingInput{
			Name: "Sam", Gender: models.GenderMale, BirthYear: 1990, Height: 180, Weight: 80, GoalWeight: 75,
		}, now)
		if _, err := repo.SaveProfile(ctx, first); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		second := models.NewProfile(models.OnboardingInput{
			Name: "Alex", Gender: models.GenderFemale, BirthYear: 1995, Height: 165, Weight: 60, GoalWeight: 60,
		}, now)
		if _, err := repo.SaveProfile(ctx, second); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		profiles, _ := repo.ListProfiles(ctx)
		if len(profiles) != 1 {
			t.Fatalf("expected exactly one profile, got %d", len(profiles))
		}
		p, _ := repo.Profile(ctx)
		if p.Name != "Alex" || p.Goal != models.GoalMaintain || !p.Onboarded() {
			t.Errorf("unexpected profile: %+v", p)
		}

		if err := repo.UpdateProfile(ctx, models.ProfilePatch{CurrentWeight: ptr(59.0)}); err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		p, _ = repo.Profile(ctx)
		if p.CurrentWeight != 59 || p.StartingWeight != 60 {
			t.Errorf("expected current 59 starting 60, got %+v", p)
		}
	})
}

func TestUpsertDailyLog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		first := &models.DailyLog{Date: "2024-03-01", Calories: 1500, Protein: 100, LoggedWeight: ptr(80.0)}
		id, err := repo.UpsertDailyLog(ctx, first)
		if err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}

		second := &models.DailyLog{Date: "2024-03-01", Calories: 2100, Protein: 150}
		id2, err := repo.UpsertDailyLog(ctx, second)
		if err != nil {
			t.Fatalf("UpsertDailyLog failed: %v", err)
		}
		if id2 != id {
			t.Errorf("expected same record for same date, got %d and %d", id, id2)
		}

		logs, _ := repo.ListDailyLogs(ctx)
		if len(logs) != 1 {
			t.Fatalf("expected one log, got %d", len(logs))
		}
		if logs[0].Calories != 2100 || logs[0].LoggedWeight == nil || *logs[0].LoggedWeight != 80 {
			t.Errorf("unexpected log: %+v", logs[0])
		}

		if err := repo.UpdateDailyLog(ctx, id, models.DailyLogPatch{Protein: ptr(90.0)}); err != nil {
			t.Fatalf("UpdateDailyLog failed: %v", err)
		}
		got, _ := repo.GetDailyLog(ctx, id)
		if got.Protein != 90 || got.Calories != 2100 {
			t.Errorf("partial update wrong: %+v", got)
		}
	})
}

func TestReplaceAllPreservesIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ds := &Dataset{
			Exercises: []models.Exercise{{ID: 40, Name: "Lunge", TargetMuscle: "Legs", Category: models.CategoryStrength}},
			Routines: []models.Routine{{ID: 9, Name: "Legs", Elements: models.RoutineElements{
				{ExerciseID: 40, TargetSets: 3, TargetReps: 12},
			}}},
			Schedule:  []models.ScheduleEntry{{ID: 3, DayIndex: 2, RoutineID: ptr(int64(9))}},
			DailyLogs: []models.DailyLog{{ID: 5, Date: "2024-01-02", Calories: 1800, Protein: 120}},
			Sets:      []models.SetLog{{ID: 77, ExerciseID: 40, Weight: 20, Reps: 12, Timestamp: 1704186000000}},
		}
		if err := repo.ReplaceAll(ctx, ds); err != nil {
			t.Fatalf("ReplaceAll failed: %v", err)
		}

		if ex, _ := repo.GetExercise(ctx, 40); ex == nil || ex.Name != "Lunge" {
			t.Errorf("exercise id not preserved: %+v", ex)
		}
		if n, _ := repo.Count(ctx, Exercises); n != 1 {
			t.Errorf("expected seed exercises cleared, got %d", n)
		}
		if s, _ := repo.GetSet(ctx, 77); s == nil || s.ExerciseID != 40 {
			t.Errorf("set id not preserved: %+v", s)
		}

		schedule, _ := repo.ListSchedule(ctx)
		if len(schedule) != 7 {
			t.Fatalf("expected missing days filled, got %d entries", len(schedule))
		}
		if schedule[2].RoutineID == nil || *schedule[2].RoutineID != 9 {
			t.Errorf("Tuesday should keep routine 9: %+v", schedule[2])
		}

		next, err := repo.AddSet(ctx, &models.SetLog{ExerciseID: 40, Weight: 22, Reps: 10, Timestamp: 1704186100000})
		if err != nil {
			t.Fatalf("AddSet failed: %v", err)
		}
		if next <= 77 {
			t.Errorf("new id %d collides with restored ids", next)
		}
	})
}

func TestFailedAddLeavesRecordUntouched(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := &models.Exercise{Name: "Lunge", TargetMuscle: "Legs", Category: models.CategoryStrength}
	id, err := db.AddExercise(ctx, first)
	if err != nil {
		t.Fatalf("AddExercise failed: %v", err)
	}

	dup := &models.Exercise{ID: id, Name: "Step Up", TargetMuscle: "Legs", Category: models.CategoryStrength}
	if _, err := db.AddExercise(ctx, dup); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed for a duplicate id, got %v", err)
	}
	if dup.ID != id {
		t.Errorf("failed add changed the record id to %d", dup.ID)
	}

	set := &models.SetLog{ID: 500, ExerciseID: id, Weight: 20, Reps: 10, Timestamp: 1704186000000}
	if _, err := db.AddSet(ctx, set); err != nil {
		t.Fatalf("AddSet failed: %v", err)
	}
	again := &models.SetLog{ID: 500, ExerciseID: id, Weight: 25, Reps: 8, Timestamp: 1704186100000}
	if _, err := db.AddSet(ctx, again); err == nil {
		t.Fatal("expected duplicate set id to fail")
	}
	if again.ID != 500 {
		t.Errorf("failed add changed the set id to %d", again.ID)
	}
}

func TestReplaceAllMixedIDs(t *testing.T) {
	for _, explicit := range []int64{1, 8} {
		forEachBackend(t, func(t *testing.T, repo Repository) {
			ctx := context.Background()

			ds := &Dataset{Exercises: []models.Exercise{
				{Name: "NoID", TargetMuscle: "Legs", Category: models.CategoryStrength},
				{ID: explicit, Name: "HasID", TargetMuscle: "Chest", Category: models.CategoryStrength},
			}}
			if err := repo.ReplaceAll(ctx, ds); err != nil {
				t.Fatalf("ReplaceAll failed: %v", err)
			}

			if n, _ := repo.Count(ctx, Exercises); n != 2 {
				t.Fatalf("expected 2 exercises, got %d", n)
			}
			if ex, _ := repo.GetExercise(ctx, explicit); ex == nil || ex.Name != "HasID" {
				t.Errorf("explicit id %d not preserved: %+v", explicit, ex)
			}
			list, err := repo.ListExercises(ctx)
			if err != nil {
				t.Fatalf("ListExercises failed: %v", err)
			}
			for _, ex := range list {
				if ex.Name == "NoID" && ex.ID == explicit {
					t.Errorf("generated id collides with explicit id %d", explicit)
				}
			}
		})
	}
}

func TestReplaceAllRejectsInvalidWithoutChanges(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ds := &Dataset{
			Exercises: []models.Exercise{{ID: 1, Name: "Lunge", Category: models.CategoryStrength}},
			DailyLogs: []models.DailyLog{
				{ID: 1, Date: "2024-01-02"},
				{ID: 2, Date: "2024-01-02"},
			},
		}
		if err := repo.ReplaceAll(ctx, ds); !errors.Is(err, models.ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}

		n, _ := repo.Count(ctx, Exercises)
		if n != 7 {
			t.Errorf("store changed after rejected restore: %d exercises", n)
		}
	})
}

func TestObserveReportsCollections(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		var mu sync.Mutex
		var got []Collection
		repo.Observe(func(cols ...Collection) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, cols...)
		})

		if _, err := repo.AddSet(ctx, models.NewSetLog(1, 50, 5, time.Now())); err != nil {
			t.Fatalf("AddSet failed: %v", err)
		}
		if err := repo.AssignRoutine(ctx, 0, nil); err != nil {
			t.Fatalf("AssignRoutine failed: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if len(got) != 2 || got[0] != Sets || got[1] != Schedule {
			t.Errorf("expected [sets schedule], got %v", got)
		}
	})
}

func TestFailedWriteDoesNotNotify(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		notified := false
		repo.Observe(func(cols ...Collection) { notified = true })

		_, _ = repo.AddExercise(ctx, &models.Exercise{Name: ""})
		_ = repo.UpdateRoutine(ctx, 404, models.RoutinePatch{Name: ptr("x")})

		if notified {
			t.Error("observers notified for a rejected write")
		}
	})
}

func TestViewReadsConsistently(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		ds, err := Snapshot(ctx, repo)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(ds.Exercises) != 7 || len(ds.Schedule) != 7 {
			t.Errorf("unexpected snapshot sizes: %d exercises, %d schedule", len(ds.Exercises), len(ds.Schedule))
		}
		if ds.Sets == nil || ds.Profile == nil {
			t.Error("empty collections should be empty slices, not nil")
		}
	})
}

func TestListExercisesSortedByName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		exercises, err := repo.ListExercises(context.Background())
		if err != nil {
			t.Fatalf("ListExercises failed: %v", err)
		}
		for i := 1; i < len(exercises); i++ {
			if exercises[i-1].Name > exercises[i].Name {
				t.Errorf("%q sorted before %q", exercises[i-1].Name, exercises[i].Name)
			}
		}
	})
}
