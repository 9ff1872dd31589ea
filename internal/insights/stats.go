// ABOUTME: Period statistics: attendance, strength volume, cardio distance, deltas.
// ABOUTME: Also counts nutrition calorie and protein wins for a range.
package insights

import (
	"math"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

const msPerDay = 24 * 60 * 60 * 1000

// PeriodStats summarizes training over a range.
type PeriodStats struct {
	DaysWorkedOut  int     `json:"daysWorkedOut"`
	PotentialDays  int     `json:"potentialDays"`
	AttendanceRate int     `json:"attendanceRate"`
	StrengthVolume float64 `json:"strengthVolume"`
	CardioDistance float64 `json:"cardioDistance"`
	Sets           int     `json:"sets"`
}

// ComputePeriodStats aggregates the sets that fall in r. A set whose
// exercise no longer exists counts toward strength volume.
func ComputePeriodStats(sets []models.SetLog, exercises []models.Exercise, r Range, now time.Time) PeriodStats {
	byID := models.IndexByID(exercises)
	days := make(map[string]struct{})
	var stats PeriodStats

	for _, s := range sets {
		if !r.Contains(s.Timestamp) {
			continue
		}
		stats.Sets++
		days[models.DateKey(s.Time())] = struct{}{}

		if ex, ok := byID[s.ExerciseID]; ok && ex.Category == models.CategoryCardio {
			stats.CardioDistance += s.Weight
			continue
		}
		stats.StrengthVolume += s.Weight * math.Max(s.Reps, 1)
	}

	stats.DaysWorkedOut = len(days)
	stats.PotentialDays = PotentialDays(r, now)
	rate := int(math.Round(float64(stats.DaysWorkedOut) / float64(stats.PotentialDays) * 100))
	stats.AttendanceRate = min(max(rate, 0), 100)
	return stats
}

// PotentialDays is the number of days a user could have trained in r: up to
// now when r includes the present, otherwise the whole range. Never below 1.
func PotentialDays(r Range, now time.Time) int {
	end := r.End
	if end.After(now) {
		end = now
	}
	elapsed := end.UnixMilli() - r.Start.UnixMilli()
	if elapsed <= 0 {
		return 1
	}
	return max(int(math.Ceil(float64(elapsed)/msPerDay)), 1)
}

// Delta returns the percent change from previous to current. ok is false
// when previous is zero and the change is undefined.
func Delta(current, previous float64) (pct float64, ok bool) {
	if previous == 0 {
		return 0, false
	}
	return (current - previous) / previous * 100, true
}

// NutritionStats counts the days in a range that hit the profile's targets.
type NutritionStats struct {
	Days        int `json:"days"`
	CalorieWins int `json:"calorieWins"`
	ProteinWins int `json:"proteinWins"`
}

// NutritionCompliance counts calorie and protein wins for the logs dated in
// r. Without a profile there are no targets and so no wins.
func NutritionCompliance(logs []models.DailyLog, profile *models.UserProfile, r Range) NutritionStats {
	var stats NutritionStats
	if profile == nil {
		return stats
	}
	for _, l := range logs {
		day, err := models.ParseDateKey(l.Date)
		if err != nil || !r.ContainsTime(day) {
			continue
		}
		stats.Days++
		if CalorieWin(l.Calories, profile.DailyCalorieTarget, profile.Goal) {
			stats.CalorieWins++
		}
		if l.Protein >= float64(profile.DailyProteinTarget) {
			stats.ProteinWins++
		}
	}
	return stats
}

// CalorieWin decides a single day. For weight loss, staying at or under
// target counts but zero calories means nothing was logged.
func CalorieWin(calories float64, target int, goal models.Goal) bool {
	if goal == models.GoalLoss {
		return calories > 0 && calories <= float64(target)
	}
	return calories >= float64(target)
}
