// ABOUTME: Read queries for the SQLite backend.
// ABOUTME: Works on either the pool or a transaction so View can share it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/jmoiron/sqlx"
)

const (
	exerciseColumns = `id, name, target_muscle, category, is_custom`
	routineColumns  = `id, name, elements`
	scheduleColumns = `id, day_index, routine_id`
	profileColumns  = `id, name, gender, birth_year, height, starting_weight, current_weight,
		goal_weight, goal, daily_calorie_target, daily_protein_target, onboarding_complete`
	dailyLogColumns = `id, date, calories, protein, logged_weight`
	setColumns      = `id, exercise_id, weight, reps, calories, is_warmup, timestamp`
)

// tableNames maps collections to their SQLite tables.
var tableNames = map[Collection]string{
	Exercises: "exercises",
	Routines:  "routines",
	Schedule:  "schedule",
	Profile:   "profile",
	DailyLogs: "daily_logs",
	Sets:      "sets",
}

type sqlReader struct {
	q sqlx.QueryerContext
}

var _ Reader = sqlReader{}

// getOne returns nil, nil when no row matches.
func getOne[T any](ctx context.Context, q sqlx.QueryerContext, what, query string, args ...any) (*T, error) {
	var out T
	if err := sqlx.GetContext(ctx, q, &out, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	return &out, nil
}

func selectAll[T any](ctx context.Context, q sqlx.QueryerContext, what, query string, args ...any) ([]T, error) {
	out := []T{}
	if err := sqlx.SelectContext(ctx, q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	return out, nil
}

func orderSQL(o Order) string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

func (r sqlReader) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return getOne[models.Exercise](ctx, r.q, "exercise",
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id)
}

// ListExercises returns exercises sorted by name.
func (r sqlReader) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return selectAll[models.Exercise](ctx, r.q, "exercises",
		`SELECT `+exerciseColumns+` FROM exercises ORDER BY name COLLATE NOCASE, id`)
}

func (r sqlReader) GetRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	return getOne[models.Routine](ctx, r.q, "routine",
		`SELECT `+routineColumns+` FROM routines WHERE id = ?`, id)
}

func (r sqlReader) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	return selectAll[models.Routine](ctx, r.q, "routines",
		`SELECT `+routineColumns+` FROM routines ORDER BY id`)
}

func (r sqlReader) GetScheduleEntry(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	return getOne[models.ScheduleEntry](ctx, r.q, "schedule entry",
		`SELECT `+scheduleColumns+` FROM schedule WHERE id = ?`, id)
}

func (r sqlReader) ScheduleForDay(ctx context.Context, dayIndex int) (*models.ScheduleEntry, error) {
	return getOne[models.ScheduleEntry](ctx, r.q, "schedule entry",
		`SELECT `+scheduleColumns+` FROM schedule WHERE day_index = ?`, dayIndex)
}

// ListSchedule returns entries ordered by day index.
func (r sqlReader) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	return selectAll[models.ScheduleEntry](ctx, r.q, "schedule",
		`SELECT `+scheduleColumns+` FROM schedule ORDER BY day_index`)
}

// Profile returns the single profile or nil when onboarding has not run.
func (r sqlReader) Profile(ctx context.Context) (*models.UserProfile, error) {
	return getOne[models.UserProfile](ctx, r.q, "profile",
		`SELECT `+profileColumns+` FROM profile ORDER BY id LIMIT 1`)
}

func (r sqlReader) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return selectAll[models.UserProfile](ctx, r.q, "profiles",
		`SELECT `+profileColumns+` FROM profile ORDER BY id`)
}

func (r sqlReader) GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error) {
	return getOne[models.DailyLog](ctx, r.q, "daily log",
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE id = ?`, id)
}

func (r sqlReader) DailyLogByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	return getOne[models.DailyLog](ctx, r.q, "daily log",
		`SELECT `+dailyLogColumns+` FROM daily_logs WHERE date = ?`, date)
}

// ListDailyLogs returns logs ordered by date.
func (r sqlReader) ListDailyLogs(ctx context.Context) ([]models.DailyLog, error) {
	return selectAll[models.DailyLog](ctx, r.q, "daily logs",
		`SELECT `+dailyLogColumns+` FROM daily_logs ORDER BY date`)
}

func (r sqlReader) GetSet(ctx context.Context, id int64) (*models.SetLog, error) {
	return getOne[models.SetLog](ctx, r.q, "set",
		`SELECT `+setColumns+` FROM sets WHERE id = ?`, id)
}

func (r sqlReader) ListSets(ctx context.Context, order Order) ([]models.SetLog, error) {
	return selectAll[models.SetLog](ctx, r.q, "sets",
		`SELECT `+setColumns+` FROM sets ORDER BY timestamp `+orderSQL(order)+`, id `+orderSQL(order))
}

func (r sqlReader) SetsBetween(ctx context.Context, start, end int64) ([]models.SetLog, error) {
	return selectAll[models.SetLog](ctx, r.q, "sets",
		`SELECT `+setColumns+` FROM sets WHERE timestamp BETWEEN ? AND ? ORDER BY timestamp, id`,
		start, end)
}

func (r sqlReader) SetsForExercise(ctx context.Context, exerciseID int64, order Order) ([]models.SetLog, error) {
	return selectAll[models.SetLog](ctx, r.q, "sets",
		`SELECT `+setColumns+` FROM sets WHERE exercise_id = ? ORDER BY timestamp `+orderSQL(order)+`, id `+orderSQL(order),
		exerciseID)
}

func (r sqlReader) Count(ctx context.Context, c Collection) (int, error) {
	table, ok := tableNames[c]
	if !ok {
		return 0, fmt.Errorf("count: unknown collection %q", c)
	}
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM `+table); err != nil {
		return 0, fmt.Errorf("count %s: %w", c, err)
	}
	return n, nil
}
