// ABOUTME: Chart series for one exercise, bucketed by day or by month.
// ABOUTME: Buckets carry both peak and mean aggregates; empty buckets are flagged.
package insights

import (
	"math"
	"time"

	"github.com/harperreed/ironlog/internal/models"
)

// Granularity is the bucket width of a trend series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

// Aggregation picks which value a bucket reports.
type Aggregation string

const (
	// AggregatePeak reports the best set: weight if loaded, else reps.
	AggregatePeak Aggregation = "peak"
	// AggregateAverage reports mean weight, or mean reps when no set was loaded.
	AggregateAverage Aggregation = "average"
)

// Bucket is one point of a trend series. Empty buckets have no sets and a
// zero Value that must not be read as a real measurement.
type Bucket struct {
	Start     time.Time `json:"start"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Peak      float64   `json:"peak"`
	AvgWeight float64   `json:"avgWeight"`
	AvgReps   float64   `json:"avgReps"`
	Sets      int       `json:"sets"`
	Empty     bool      `json:"empty"`
}

// TrendSeries buckets exerciseID's sets in r. Every bucket in the range is
// returned, in order, including empty ones.
func TrendSeries(sets []models.SetLog, exerciseID int64, r Range, g Granularity, mode Aggregation) []Bucket {
	var buckets []Bucket
	index := make(map[string]int)
	for start := bucketStart(r.Start, g); !start.After(r.End); start = nextBucket(start, g) {
		index[bucketKey(start, g)] = len(buckets)
		buckets = append(buckets, Bucket{Start: start, Label: bucketLabel(start, g), Empty: true})
	}

	sumWeight := make([]float64, len(buckets))
	sumReps := make([]float64, len(buckets))
	for _, s := range sets {
		if s.ExerciseID != exerciseID || !r.Contains(s.Timestamp) {
			continue
		}
		i, ok := index[bucketKey(s.Time(), g)]
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Sets++
		b.Empty = false
		b.Peak = math.Max(b.Peak, s.Peak())
		sumWeight[i] += s.Weight
		sumReps[i] += s.Reps
	}

	for i := range buckets {
		b := &buckets[i]
		if b.Empty {
			continue
		}
		b.AvgWeight = sumWeight[i] / float64(b.Sets)
		b.AvgReps = sumReps[i] / float64(b.Sets)
		if mode == AggregateAverage {
			b.Value = b.AvgWeight
			if b.Value == 0 {
				b.Value = b.AvgReps
			}
		} else {
			b.Value = b.Peak
		}
	}
	return buckets
}

// GranularityFor matches the bucket width to a statistics period.
func GranularityFor(p Period) Granularity {
	if p == PeriodYear {
		return ByMonth
	}
	return ByDay
}

func bucketStart(t time.Time, g Granularity) time.Time {
	if g == ByMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return models.StartOfDay(t)
}

func nextBucket(t time.Time, g Granularity) time.Time {
	if g == ByMonth {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func bucketKey(t time.Time, g Granularity) string {
	if g == ByMonth {
		return t.Format("2006-01")
	}
	return models.DateKey(t)
}

func bucketLabel(t time.Time, g Granularity) string {
	if g == ByMonth {
		return t.Format("Jan")
	}
	return t.Format("2 Jan")
}
