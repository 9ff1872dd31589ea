// ABOUTME: Loads the inputs for a statistics period and computes the full report.
// ABOUTME: Reads through a storage.Reader so live queries track its dependencies.
package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/ironlog/internal/storage"
)

// Report is everything the stats view shows for one period.
type Report struct {
	Period    Period         `json:"period"`
	Current   Range          `json:"current"`
	Previous  Range          `json:"previous"`
	Stats     PeriodStats    `json:"stats"`
	Prior     PeriodStats    `json:"prior"`
	Nutrition NutritionStats `json:"nutrition"`
	Plateau   *Plateau       `json:"plateau,omitempty"`
	Trend     []Bucket       `json:"trend,omitempty"`
}

// ReportOptions selects the optional per-exercise parts of a report.
type ReportOptions struct {
	ExerciseID  int64
	Aggregation Aggregation
}

// BuildReport reads the sets, exercises, logs and profile it needs from r and
// computes stats for the period containing at, its previous period, and,
// when an exercise is selected, the plateau check and trend series.
func BuildReport(ctx context.Context, r storage.Reader, p Period, at, now time.Time, opts ReportOptions) (*Report, error) {
	cur := RangeFor(p, at)
	prev := PreviousRange(p, at)

	sets, err := r.SetsBetween(ctx, prev.Start.UnixMilli(), cur.End.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("load sets: %w", err)
	}
	exercises, err := r.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("load exercises: %w", err)
	}
	logs, err := r.ListDailyLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load daily logs: %w", err)
	}
	profile, err := r.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	rep := &Report{
		Period:    p,
		Current:   cur,
		Previous:  prev,
		Stats:     ComputePeriodStats(sets, exercises, cur, now),
		Prior:     ComputePeriodStats(sets, exercises, prev, now),
		Nutrition: NutritionCompliance(logs, profile, cur),
	}

	if opts.ExerciseID != 0 {
		recent, err := r.SetsBetween(ctx, now.Add(-plateauWindow).UnixMilli(), now.UnixMilli())
		if err != nil {
			return nil, fmt.Errorf("load recent sets: %w", err)
		}
		plateau := DetectPlateau(recent, opts.ExerciseID, now)
		rep.Plateau = &plateau

		mode := opts.Aggregation
		if mode == "" {
			mode = AggregatePeak
		}
		rep.Trend = TrendSeries(sets, opts.ExerciseID, cur, GranularityFor(p), mode)
	}

	return rep, nil
}

// VolumeDelta is the percent change in strength volume versus the prior period.
func (r *Report) VolumeDelta() (float64, bool) {
	return Delta(r.Stats.StrengthVolume, r.Prior.StrengthVolume)
}

// AttendanceDelta is the percent change in attendance versus the prior period.
func (r *Report) AttendanceDelta() (float64, bool) {
	return Delta(float64(r.Stats.AttendanceRate), float64(r.Prior.AttendanceRate))
}

// DistanceDelta is the percent change in cardio distance versus the prior period.
func (r *Report) DistanceDelta() (float64, bool) {
	return Delta(r.Stats.CardioDistance, r.Prior.CardioDistance)
}
