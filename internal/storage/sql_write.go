// ABOUTME: Write operations for the SQLite backend.
// ABOUTME: A zero id lets SQLite assign one; a non-zero id is kept as-is.
package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/jmoiron/sqlx"
)

const (
	insertExerciseSQL = `INSERT INTO exercises (id, name, target_muscle, category, is_custom)
		VALUES (NULLIF(:id, 0), :name, :target_muscle, :category, :is_custom)`
	insertRoutineSQL = `INSERT INTO routines (id, name, elements)
		VALUES (NULLIF(:id, 0), :name, :elements)`
	insertScheduleSQL = `INSERT INTO schedule (id, day_index, routine_id)
		VALUES (NULLIF(:id, 0), :day_index, :routine_id)`
	insertProfileSQL = `INSERT INTO profile (id, name, gender, birth_year, height, starting_weight,
		current_weight, goal_weight, goal, daily_calorie_target, daily_protein_target, onboarding_complete)
		VALUES (NULLIF(:id, 0), :name, :gender, :birth_year, :height, :starting_weight,
		:current_weight, :goal_weight, :goal, :daily_calorie_target, :daily_protein_target, :onboarding_complete)`
	insertDailyLogSQL = `INSERT INTO daily_logs (id, date, calories, protein, logged_weight)
		VALUES (NULLIF(:id, 0), :date, :calories, :protein, :logged_weight)`
	insertSetSQL = `INSERT INTO sets (id, exercise_id, weight, reps, calories, is_warmup, timestamp)
		VALUES (NULLIF(:id, 0), :exercise_id, :weight, :reps, :calories, :is_warmup, :timestamp)`
)

func insertNamed(ctx context.Context, tx *sqlx.Tx, op, query string, arg any) (int64, error) {
	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return 0, writeFailed(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeFailed(op, err)
	}
	return id, nil
}

// execAffected runs a statement and reports how many rows it touched.
func execAffected(ctx context.Context, tx *sqlx.Tx, op, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, writeFailed(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, writeFailed(op, err)
	}
	return n, nil
}

func (d *DB) AddExercise(ctx context.Context, ex *models.Exercise) (int64, error) {
	if err := ex.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := d.write(ctx, "add exercise", Exercises, func(tx *sqlx.Tx) error {
		var err error
		id, err = insertNamed(ctx, tx, "add exercise", insertExerciseSQL, ex)
		return err
	})
	if err != nil {
		return 0, err
	}
	ex.ID = id
	log.Debug("added record", "collection", Exercises, "id", ex.ID)
	return ex.ID, nil
}

func (d *DB) UpdateExercise(ctx context.Context, id int64, p models.ExercisePatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return d.write(ctx, "update exercise", Exercises, func(tx *sqlx.Tx) error {
		ex, err := sqlReader{q: tx}.GetExercise(ctx, id)
		if err != nil {
			return err
		}
		if ex == nil {
			return fmt.Errorf("update exercise %d: %w", id, ErrNotFound)
		}
		p.Apply(ex)
		_, err = execAffected(ctx, tx, "update exercise",
			`UPDATE exercises SET name = ?, target_muscle = ?, category = ? WHERE id = ?`,
			ex.Name, ex.TargetMuscle, ex.Category, id)
		return err
	})
}

// DeleteExercise does not cascade; sets and routine elements keep the id.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, Exercises, id)
}

func (d *DB) AddRoutine(ctx context.Context, r *models.Routine) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := d.write(ctx, "add routine", Routines, func(tx *sqlx.Tx) error {
		var err error
		id, err = insertNamed(ctx, tx, "add routine", insertRoutineSQL, r)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.ID = id
	log.Debug("added record", "collection", Routines, "id", r.ID)
	return r.ID, nil
}

func (d *DB) UpdateRoutine(ctx context.Context, id int64, p models.RoutinePatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return d.write(ctx, "update routine", Routines, func(tx *sqlx.Tx) error {
		r, err := sqlReader{q: tx}.GetRoutine(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("update routine %d: %w", id, ErrNotFound)
		}
		p.Apply(r)
		_, err = execAffected(ctx, tx, "update routine",
			`UPDATE routines SET name = ?, elements = ? WHERE id = ?`, r.Name, r.Elements, id)
		return err
	})
}

// DeleteRoutine leaves schedule entries pointing at it; they resolve as rest days.
func (d *DB) DeleteRoutine(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, Routines, id)
}

func (d *DB) AssignRoutine(ctx context.Context, dayIndex int, routineID *int64) error {
	entry := models.ScheduleEntry{DayIndex: dayIndex, RoutineID: routineID}
	if err := entry.Validate(); err != nil {
		return err
	}
	return d.write(ctx, "assign routine", Schedule, func(tx *sqlx.Tx) error {
		n, err := execAffected(ctx, tx, "assign routine",
			`UPDATE schedule SET routine_id = ? WHERE day_index = ?`, routineID, dayIndex)
		if err != nil || n > 0 {
			return err
		}
		_, err = insertNamed(ctx, tx, "assign routine", insertScheduleSQL, &entry)
		return err
	})
}

// SaveProfile replaces any stored profile with p.
func (d *DB) SaveProfile(ctx context.Context, p *models.UserProfile) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := d.write(ctx, "save profile", Profile, func(tx *sqlx.Tx) error {
		if _, err := execAffected(ctx, tx, "save profile", `DELETE FROM profile`); err != nil {
			return err
		}
		var err error
		id, err = insertNamed(ctx, tx, "save profile", insertProfileSQL, p)
		return err
	})
	if err != nil {
		return 0, err
	}
	p.ID = id
	log.Debug("saved profile", "id", p.ID)
	return p.ID, nil
}

func (d *DB) UpdateProfile(ctx context.Context, pp models.ProfilePatch) error {
	return d.write(ctx, "update profile", Profile, func(tx *sqlx.Tx) error {
		return updateProfileTx(ctx, tx, pp)
	})
}

func updateProfileTx(ctx context.Context, tx *sqlx.Tx, pp models.ProfilePatch) error {
	p, err := sqlReader{q: tx}.Profile(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("update profile: %w", ErrNotFound)
	}
	pp.Apply(p)
	if err := p.Validate(); err != nil {
		return err
	}
	_, err = execAffected(ctx, tx, "update profile",
		`UPDATE profile SET name = ?, current_weight = ?, goal_weight = ?,
			daily_calorie_target = ?, daily_protein_target = ? WHERE id = ?`,
		p.Name, p.CurrentWeight, p.GoalWeight, p.DailyCalorieTarget, p.DailyProteinTarget, p.ID)
	return err
}

func (d *DB) DeleteProfile(ctx context.Context) error {
	return d.write(ctx, "delete profile", Profile, func(tx *sqlx.Tx) error {
		_, err := execAffected(ctx, tx, "delete profile", `DELETE FROM profile`)
		return err
	})
}

func (d *DB) UpsertDailyLog(ctx context.Context, l *models.DailyLog) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	var rec models.DailyLog
	err := d.write(ctx, "upsert daily log", DailyLogs, func(tx *sqlx.Tx) error {
		var err error
		rec, err = upsertDailyLogTx(ctx, tx, *l)
		return err
	})
	if err != nil {
		return 0, err
	}
	*l = rec
	log.Debug("upserted record", "collection", DailyLogs, "date", l.Date, "id", l.ID)
	return l.ID, nil
}

// upsertDailyLogTx writes l inside tx and returns the stored record.
func upsertDailyLogTx(ctx context.Context, tx *sqlx.Tx, l models.DailyLog) (models.DailyLog, error) {
	existing, err := sqlReader{q: tx}.DailyLogByDate(ctx, l.Date)
	if err != nil {
		return l, err
	}
	if existing == nil {
		l.ID, err = insertNamed(ctx, tx, "upsert daily log", insertDailyLogSQL, &l)
		return l, err
	}
	l.ID = existing.ID
	if l.LoggedWeight == nil {
		l.LoggedWeight = existing.LoggedWeight
	}
	_, err = execAffected(ctx, tx, "upsert daily log",
		`UPDATE daily_logs SET calories = ?, protein = ?, logged_weight = ? WHERE id = ?`,
		l.Calories, l.Protein, l.LoggedWeight, l.ID)
	return l, err
}

func (d *DB) RecordWeight(ctx context.Context, date string, weight float64) (*models.DailyLog, error) {
	var rec models.DailyLog
	err := d.writeAll(ctx, "record weight", []Collection{Profile, DailyLogs}, func(tx *sqlx.Tx) error {
		if err := updateProfileTx(ctx, tx, models.ProfilePatch{CurrentWeight: &weight}); err != nil {
			return err
		}
		l := models.DailyLog{Date: date}
		existing, err := sqlReader{q: tx}.DailyLogByDate(ctx, date)
		if err != nil {
			return err
		}
		if existing != nil {
			l = *existing
		}
		l.LoggedWeight = &weight
		if err := l.Validate(); err != nil {
			return err
		}
		rec, err = upsertDailyLogTx(ctx, tx, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("recorded weight", "date", date, "weight", weight)
	return &rec, nil
}

func (d *DB) UpdateDailyLog(ctx context.Context, id int64, p models.DailyLogPatch) error {
	return d.write(ctx, "update daily log", DailyLogs, func(tx *sqlx.Tx) error {
		l, err := sqlReader{q: tx}.GetDailyLog(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("update daily log %d: %w", id, ErrNotFound)
		}
		p.Apply(l)
		if err := l.Validate(); err != nil {
			return err
		}
		_, err = execAffected(ctx, tx, "update daily log",
			`UPDATE daily_logs SET calories = ?, protein = ?, logged_weight = ? WHERE id = ?`,
			l.Calories, l.Protein, l.LoggedWeight, id)
		return err
	})
}

func (d *DB) DeleteDailyLog(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, DailyLogs, id)
}

func (d *DB) AddSet(ctx context.Context, s *models.SetLog) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := d.write(ctx, "add set", Sets, func(tx *sqlx.Tx) error {
		var err error
		id, err = insertNamed(ctx, tx, "add set", insertSetSQL, s)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.ID = id
	log.Debug("added record", "collection", Sets, "id", s.ID, "exercise", s.ExerciseID)
	return s.ID, nil
}

func (d *DB) DeleteSet(ctx context.Context, id int64) error {
	return d.deleteByID(ctx, Sets, id)
}

// deleteByID is idempotent: a missing id is not an error.
func (d *DB) deleteByID(ctx context.Context, c Collection, id int64) error {
	op := "delete " + string(c)
	return d.write(ctx, op, c, func(tx *sqlx.Tx) error {
		n, err := execAffected(ctx, tx, op, `DELETE FROM `+tableNames[c]+` WHERE id = ?`, id)
		if err == nil {
			log.Debug("deleted record", "collection", c, "id", id, "found", n > 0)
		}
		return err
	})
}
