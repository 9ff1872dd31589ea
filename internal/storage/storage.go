// ABOUTME: Repository interfaces for the ironlog persistent store.
// ABOUTME: Defines the six collections, read/write contracts, and change observers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harperreed/ironlog/internal/models"
)

// Collection names one of the six persisted collections.
type Collection string

const (
	Exercises Collection = "exercises"
	Routines  Collection = "routines"
	Schedule  Collection = "schedule"
	Profile   Collection = "profile"
	DailyLogs Collection = "dailyLogs"
	Sets      Collection = "sets"
)

// AllCollections lists every collection in restore order.
var AllCollections = []Collection{Exercises, Routines, Schedule, Profile, DailyLogs, Sets}

// Order selects timestamp ordering for set queries.
type Order int

const (
	Ascending Order = iota
	Descending
)

var (
	// ErrNotFound is returned when updating a record that does not exist.
	// Reads of a missing record return nil instead.
	ErrNotFound = errors.New("not found")

	// ErrWriteFailed marks a write the storage engine rejected.
	ErrWriteFailed = errors.New("write failed")
)

func writeFailed(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrWriteFailed, err)
}

// Reader is the read side of the store. Get-style methods return nil, nil
// when the record does not exist.
type Reader interface {
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)

	GetRoutine(ctx context.Context, id int64) (*models.Routine, error)
	ListRoutines(ctx context.Context) ([]models.Routine, error)

	GetScheduleEntry(ctx context.Context, id int64) (*models.ScheduleEntry, error)
	ScheduleForDay(ctx context.Context, dayIndex int) (*models.ScheduleEntry, error)
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)

	Profile(ctx context.Context) (*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)

	GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error)
	DailyLogByDate(ctx context.Context, date string) (*models.DailyLog, error)
	ListDailyLogs(ctx context.Context) ([]models.DailyLog, error)

	GetSet(ctx context.Context, id int64) (*models.SetLog, error)
	ListSets(ctx context.Context, order Order) ([]models.SetLog, error)
	// SetsBetween returns sets with start <= timestamp <= end, ascending.
	SetsBetween(ctx context.Context, start, end int64) ([]models.SetLog, error)
	SetsForExercise(ctx context.Context, exerciseID int64, order Order) ([]models.SetLog, error)

	Count(ctx context.Context, c Collection) (int, error)
}

// Writer is the write side of the store. Add methods assign a fresh id
// (or keep a non-zero one) and store it back on the record.
type Writer interface {
	AddExercise(ctx context.Context, ex *models.Exercise) (int64, error)
	UpdateExercise(ctx context.Context, id int64, p models.ExercisePatch) error
	DeleteExercise(ctx context.Context, id int64) error

	AddRoutine(ctx context.Context, r *models.Routine) (int64, error)
	UpdateRoutine(ctx context.Context, id int64, p models.RoutinePatch) error
	DeleteRoutine(ctx context.Context, id int64) error

	// AssignRoutine sets the routine for a day index; nil makes it a rest day.
	AssignRoutine(ctx context.Context, dayIndex int, routineID *int64) error

	// SaveProfile replaces any existing profile, keeping at most one.
	SaveProfile(ctx context.Context, p *models.UserProfile) (int64, error)
	UpdateProfile(ctx context.Context, p models.ProfilePatch) error
	DeleteProfile(ctx context.Context) error

	// UpsertDailyLog updates the log for l.Date or inserts one. A nil
	// LoggedWeight keeps the stored weight.
	UpsertDailyLog(ctx context.Context, l *models.DailyLog) (int64, error)
	// RecordWeight sets the profile's current weight and the logged weight
	// for date in one transaction, keeping that day's intake totals.
	RecordWeight(ctx context.Context, date string, weight float64) (*models.DailyLog, error)
	UpdateDailyLog(ctx context.Context, id int64, p models.DailyLogPatch) error
	DeleteDailyLog(ctx context.Context, id int64) error

	AddSet(ctx context.Context, s *models.SetLog) (int64, error)
	DeleteSet(ctx context.Context, id int64) error

	// ReplaceAll clears all six collections and loads ds in one transaction.
	// Identifiers in ds are preserved.
	ReplaceAll(ctx context.Context, ds *Dataset) error
}

// Repository is a complete storage backend.
type Repository interface {
	Reader
	Writer

	// View runs fn against a consistent snapshot of the store.
	View(ctx context.Context, fn func(Reader) error) error

	// Observe registers fn to be called after every committed mutation with
	// the collections it changed.
	Observe(fn ChangeFunc)

	Close() error
}

// Dataset holds the full contents of every collection.
type Dataset struct {
	Exercises []models.Exercise      `json:"exercises" yaml:"exercises"`
	Sets      []models.SetLog        `json:"sets" yaml:"sets"`
	Profile   []models.UserProfile   `json:"profile" yaml:"profile"`
	Routines  []models.Routine       `json:"routines" yaml:"routines"`
	Schedule  []models.ScheduleEntry `json:"schedule" yaml:"schedule"`
	DailyLogs []models.DailyLog      `json:"dailyLogs" yaml:"daily_logs"`
}

// Validate checks every record and the at-most-one profile rule.
func (ds *Dataset) Validate() error {
	if len(ds.Profile) > 1 {
		return fmt.Errorf("profile: %w: at most one profile allowed", models.ErrInvalid)
	}
	if err := firstDuplicate(Exercises, ds.Exercises); err != nil {
		return err
	}
	if err := firstDuplicate(Routines, ds.Routines); err != nil {
		return err
	}
	if err := firstDuplicate(Schedule, ds.Schedule); err != nil {
		return err
	}
	if err := firstDuplicate(DailyLogs, ds.DailyLogs); err != nil {
		return err
	}
	if err := firstDuplicate(Sets, ds.Sets); err != nil {
		return err
	}
	dates := make(map[string]bool, len(ds.DailyLogs))
	for _, l := range ds.DailyLogs {
		if dates[l.Date] {
			return fmt.Errorf("daily logs: %w: duplicate date %s", models.ErrInvalid, l.Date)
		}
		dates[l.Date] = true
	}
	for i := range ds.Exercises {
		if err := ds.Exercises[i].Validate(); err != nil {
			return err
		}
	}
	for i := range ds.Routines {
		if err := ds.Routines[i].Validate(); err != nil {
			return err
		}
	}
	days := make(map[int]bool, models.DaysPerWeek)
	for i := range ds.Schedule {
		if err := ds.Schedule[i].Validate(); err != nil {
			return err
		}
		if days[ds.Schedule[i].DayIndex] {
			return fmt.Errorf("schedule: %w: duplicate day %d", models.ErrInvalid, ds.Schedule[i].DayIndex)
		}
		days[ds.Schedule[i].DayIndex] = true
	}
	for i := range ds.Profile {
		if err := ds.Profile[i].Validate(); err != nil {
			return err
		}
	}
	for i := range ds.DailyLogs {
		if err := ds.DailyLogs[i].Validate(); err != nil {
			return err
		}
	}
	for i := range ds.Sets {
		if err := ds.Sets[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// firstDuplicate reports a repeated non-zero id within one collection.
func firstDuplicate[T models.Record](c Collection, items []T) error {
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		id := item.RecordID()
		if id == 0 {
			continue
		}
		if seen[id] {
			return fmt.Errorf("%s: %w: duplicate id %d", c, models.ErrInvalid, id)
		}
		seen[id] = true
	}
	return nil
}

// Snapshot reads every collection inside one View.
func Snapshot(ctx context.Context, repo Repository) (*Dataset, error) {
	var ds *Dataset
	err := repo.View(ctx, func(r Reader) error {
		var err error
		ds, err = ReadAll(ctx, r)
		return err
	})
	return ds, err
}

// ReadAll reads every collection from r.
func ReadAll(ctx context.Context, r Reader) (*Dataset, error) {
	ds := &Dataset{}
	var err error
	if ds.Exercises, err = r.ListExercises(ctx); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if ds.Sets, err = r.ListSets(ctx, Ascending); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	if ds.Profile, err = r.ListProfiles(ctx); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if ds.Routines, err = r.ListRoutines(ctx); err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	if ds.Schedule, err = r.ListSchedule(ctx); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	if ds.DailyLogs, err = r.ListDailyLogs(ctx); err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return ds, nil
}

// SeedDataset is the first-run content: the default exercises and a rest
// day for every day of the week.
func SeedDataset() *Dataset {
	ds := &Dataset{
		Exercises: make([]models.Exercise, len(models.DefaultExercises)),
		Schedule:  make([]models.ScheduleEntry, 0, models.DaysPerWeek),
	}
	for i, ex := range models.DefaultExercises {
		ex.ID = int64(i + 1)
		ds.Exercises[i] = ex
	}
	for day := 0; day < models.DaysPerWeek; day++ {
		ds.Schedule = append(ds.Schedule, models.ScheduleEntry{ID: int64(day + 1), DayIndex: day})
	}
	return ds
}

// missingDays returns the day indexes without a schedule entry.
func missingDays(entries []models.ScheduleEntry) []int {
	have := make(map[int]bool, len(entries))
	for _, e := range entries {
		have[e.DayIndex] = true
	}
	var missing []int
	for day := 0; day < models.DaysPerWeek; day++ {
		if !have[day] {
			missing = append(missing, day)
		}
	}
	return missing
}

// ChangeFunc receives the collections touched by a committed mutation.
type ChangeFunc func(cols ...Collection)

type observers struct {
	mu  sync.RWMutex
	fns []ChangeFunc
}

// Observe registers fn for change notifications.
func (o *observers) Observe(fn ChangeFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fns = append(o.fns, fn)
}

func (o *observers) notify(cols ...Collection) {
	o.mu.RLock()
	fns := append([]ChangeFunc(nil), o.fns...)
	o.mu.RUnlock()
	for _, fn := range fns {
		fn(cols...)
	}
}
