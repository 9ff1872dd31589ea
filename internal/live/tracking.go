// ABOUTME: Reader wrapper that records which collections a query touches.
// ABOUTME: The recorded set becomes the subscription's dependency list.
package live

import (
	"context"
	"sync"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

type depSet map[storage.Collection]struct{}

func allCollections() depSet {
	d := depSet{}
	for _, c := range storage.AllCollections {
		d[c] = struct{}{}
	}
	return d
}

func (d depSet) intersects(cols []storage.Collection) bool {
	for _, c := range cols {
		if _, ok := d[c]; ok {
			return true
		}
	}
	return false
}

func (d depSet) list() []storage.Collection {
	out := make([]storage.Collection, 0, len(d))
	for _, c := range storage.AllCollections {
		if _, ok := d[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

type trackingReader struct {
	r    storage.Reader
	mu   sync.Mutex
	deps depSet
}

var _ storage.Reader = (*trackingReader)(nil)

func newTrackingReader(r storage.Reader) *trackingReader {
	return &trackingReader{r: r, deps: depSet{}}
}

func (t *trackingReader) touch(c storage.Collection) {
	t.mu.Lock()
	t.deps[c] = struct{}{}
	t.mu.Unlock()
}

func (t *trackingReader) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	t.touch(storage.Exercises)
	return t.r.GetExercise(ctx, id)
}

func (t *trackingReader) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	t.touch(storage.Exercises)
	return t.r.ListExercises(ctx)
}

func (t *trackingReader) GetRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	t.touch(storage.Routines)
	return t.r.GetRoutine(ctx, id)
}

func (t *trackingReader) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	t.touch(storage.Routines)
	return t.r.ListRoutines(ctx)
}

func (t *trackingReader) GetScheduleEntry(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	t.touch(storage.Schedule)
	return t.r.GetScheduleEntry(ctx, id)
}

func (t *trackingReader) ScheduleForDay(ctx context.Context, dayIndex int) (*models.ScheduleEntry, error) {
	t.touch(storage.Schedule)
	return t.r.ScheduleForDay(ctx, dayIndex)
}

func (t *trackingReader) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	t.touch(storage.Schedule)
	return t.r.ListSchedule(ctx)
}

func (t *trackingReader) Profile(ctx context.Context) (*models.UserProfile, error) {
	t.touch(storage.Profile)
	return t.r.Profile(ctx)
}

func (t *trackingReader) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	t.touch(storage.Profile)
	return t.r.ListProfiles(ctx)
}

func (t *trackingReader) GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error) {
	t.touch(storage.DailyLogs)
	return t.r.GetDailyLog(ctx, id)
}

func (t *trackingReader) DailyLogByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	t.touch(storage.DailyLogs)
	return t.r.DailyLogByDate(ctx, date)
}

func (t *trackingReader) ListDailyLogs(ctx context.Context) ([]models.DailyLog, error) {
	t.touch(storage.DailyLogs)
	return t.r.ListDailyLogs(ctx)
}

func (t *trackingReader) GetSet(ctx context.Context, id int64) (*models.SetLog, error) {
	t.touch(storage.Sets)
	return t.r.GetSet(ctx, id)
}

func (t *trackingReader) ListSets(ctx context.Context, order storage.Order) ([]models.SetLog, error) {
	t.touch(storage.Sets)
	return t.r.ListSets(ctx, order)
}

func (t *trackingReader) SetsBetween(ctx context.Context, start, end int64) ([]models.SetLog, error) {
	t.touch(storage.Sets)
	return t.r.SetsBetween(ctx, start, end)
}

func (t *trackingReader) SetsForExercise(ctx context.Context, exerciseID int64, order storage.Order) ([]models.SetLog, error) {
	t.touch(storage.Sets)
	return t.r.SetsForExercise(ctx, exerciseID, order)
}

func (t *trackingReader) Count(ctx context.Context, c storage.Collection) (int, error) {
	t.touch(c)
	return t.r.Count(ctx, c)
}
