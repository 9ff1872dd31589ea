// ABOUTME: Training history grouped by local calendar day.
// ABOUTME: Unknown exercise ids render as "Unknown Exercise" instead of failing.
package insights

import (
	"sort"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

// ExerciseSets is one exercise's sets within a day, in logged order.
type ExerciseSets struct {
	ExerciseID int64           `json:"exerciseId"`
	Name       string          `json:"name"`
	Sets       []models.SetLog `json:"sets"`
}

// DayHistory is one day of training.
type DayHistory struct {
	Date      string         `json:"date"`
	Day       time.Time      `json:"day"`
	Volume    float64        `json:"volume"`
	SetCount  int            `json:"setCount"`
	Exercises []ExerciseSets `json:"exercises"`
}

// HistoryByDay groups sets by local day, newest day first. Within a day,
// exercises appear in the order they were first trained.
func HistoryByDay(sets []models.SetLog, exercises []models.Exercise) []DayHistory {
	names := models.IndexByID(exercises)

	sorted := append([]models.SetLog(nil), sets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	byDay := make(map[string]*DayHistory)
	var order []string
	for _, s := range sorted {
		if s.Timestamp <= 0 {
			continue
		}
		key := models.DateKey(s.Time())
		day, ok := byDay[key]
		if !ok {
			day = &DayHistory{Date: key, Day: models.StartOfDay(s.Time())}
			byDay[key] = day
			order = append(order, key)
		}
		day.SetCount++
		day.Volume += s.Weight * s.Reps

		idx := -1
		for i := range day.Exercises {
			if day.Exercises[i].ExerciseID == s.ExerciseID {
				idx = i
				break
			}
		}
		if idx < 0 {
			day.Exercises = append(day.Exercises, ExerciseSets{
				ExerciseID: s.ExerciseID,
				Name:       models.ExerciseName(names, s.ExerciseID),
			})
			idx = len(day.Exercises) - 1
		}
		day.Exercises[idx].Sets = append(day.Exercises[idx].Sets, s)
	}

	out := make([]DayHistory, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, *byDay[order[i]])
	}
	return out
}
