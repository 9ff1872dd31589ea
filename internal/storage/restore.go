// ABOUTME: Atomic replacement of every collection for the SQLite backend.
// ABOUTME: Used by backup restore, backend migration, reset, and first-run seeding.
package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/jmoiron/sqlx"
)

// ReplaceAll clears all six tables and loads ds in one transaction. Either
// every collection is replaced or none is. Missing schedule days are filled
// with rest days so seven entries always exist.
func (d *DB) ReplaceAll(ctx context.Context, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return writeFailed("replace all", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range AllCollections {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+tableNames[c]); err != nil {
			return writeFailed("clear "+string(c), err)
		}
	}

	if err := insertDataset(ctx, tx, ds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return writeFailed("replace all", err)
	}

	log.Info("replaced store contents",
		"exercises", len(ds.Exercises), "routines", len(ds.Routines),
		"sets", len(ds.Sets), "daily_logs", len(ds.DailyLogs))
	d.notify(AllCollections...)
	return nil
}

// explicitFirst orders records so those carrying an id are written before
// any that need one generated. Generated ids then start above every explicit one.
func explicitFirst[T any](items []T, id func(*T) int64) []*T {
	out := make([]*T, 0, len(items))
	for i := range items {
		if id(&items[i]) != 0 {
			out = append(out, &items[i])
		}
	}
	for i := range items {
		if id(&items[i]) == 0 {
			out = append(out, &items[i])
		}
	}
	return out
}

// fullSchedule returns ds.Schedule with rest days added for any missing day.
func fullSchedule(ds *Dataset) []models.ScheduleEntry {
	schedule := append([]models.ScheduleEntry{}, ds.Schedule...)
	for _, day := range missingDays(ds.Schedule) {
		schedule = append(schedule, models.ScheduleEntry{DayIndex: day})
	}
	return schedule
}

func insertDataset(ctx context.Context, tx *sqlx.Tx, ds *Dataset) error {
	for _, ex := range explicitFirst(ds.Exercises, func(e *models.Exercise) int64 { return e.ID }) {
		if _, err := insertNamed(ctx, tx, "restore exercise", insertExerciseSQL, ex); err != nil {
			return err
		}
	}
	for _, r := range explicitFirst(ds.Routines, func(r *models.Routine) int64 { return r.ID }) {
		if _, err := insertNamed(ctx, tx, "restore routine", insertRoutineSQL, r); err != nil {
			return err
		}
	}
	for _, e := range explicitFirst(fullSchedule(ds), func(e *models.ScheduleEntry) int64 { return e.ID }) {
		if _, err := insertNamed(ctx, tx, "restore schedule", insertScheduleSQL, e); err != nil {
			return err
		}
	}
	for _, p := range explicitFirst(ds.Profile, func(p *models.UserProfile) int64 { return p.ID }) {
		if _, err := insertNamed(ctx, tx, "restore profile", insertProfileSQL, p); err != nil {
			return err
		}
	}
	for _, l := range explicitFirst(ds.DailyLogs, func(l *models.DailyLog) int64 { return l.ID }) {
		if _, err := insertNamed(ctx, tx, "restore daily log", insertDailyLogSQL, l); err != nil {
			return fmt.Errorf("daily log %s: %w", l.Date, err)
		}
	}
	for _, set := range explicitFirst(ds.Sets, func(s *models.SetLog) int64 { return s.ID }) {
		if _, err := insertNamed(ctx, tx, "restore set", insertSetSQL, set); err != nil {
			return err
		}
	}
	return nil
}
