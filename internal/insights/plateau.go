// ABOUTME: Plateau detection over the trailing four weeks of one exercise.
// ABOUTME: Compares the latest ISO week's peak against the earliest week's peak.
package insights

import (
	"sort"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

const (
	plateauWindow   = 28 * 24 * time.Hour
	plateauMinWeeks = 3
	plateauGrowth   = 1.01
)

// Plateau is the result of DetectPlateau. Metric is the latest week's peak
// and Weeks the number of distinct weeks with data.
type Plateau struct {
	Detected bool    `json:"detected"`
	Metric   float64 `json:"metric"`
	Weeks    int     `json:"weeks"`
}

// WeekPeak is the best set of one ISO week.
type WeekPeak struct {
	Year int
	Week int
	Peak float64
}

// DetectPlateau looks at exerciseID's sets from the last 28 days before now,
// regardless of any selected range.
func DetectPlateau(sets []models.SetLog, exerciseID int64, now time.Time) Plateau {
	since := now.Add(-plateauWindow).UnixMilli()
	var recent []models.SetLog
	for _, s := range sets {
		if s.ExerciseID == exerciseID && s.Timestamp >= since {
			recent = append(recent, s)
		}
	}
	return PlateauFromPeaks(WeeklyPeaks(recent))
}

// WeeklyPeaks groups sets by ISO week, oldest week first.
func WeeklyPeaks(sets []models.SetLog) []WeekPeak {
	type key struct{ year, week int }
	peaks := make(map[key]float64)
	for _, s := range sets {
		y, w := s.Time().ISOWeek()
		k := key{y, w}
		if p, ok := peaks[k]; !ok || s.Peak() > p {
			peaks[k] = s.Peak()
		}
	}

	out := make([]WeekPeak, 0, len(peaks))
	for k, p := range peaks {
		out = append(out, WeekPeak{Year: k.year, Week: k.week, Peak: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

// PlateauFromPeaks fires when at least three weeks grew by no more than 1%.
func PlateauFromPeaks(weeks []WeekPeak) Plateau {
	if len(weeks) < plateauMinWeeks {
		return Plateau{Weeks: len(weeks)}
	}
	first := weeks[0].Peak
	latest := weeks[len(weeks)-1].Peak
	return Plateau{
		Detected: latest <= first*plateauGrowth,
		Metric:   latest,
		Weeks:    len(weeks),
	}
}
