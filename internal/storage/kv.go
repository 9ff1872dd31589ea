// ABOUTME: Badger-backed key/value storage engine for ironlog.
// ABOUTME: Records are JSON values under "<collection>/<zero-padded id>" keys.
package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/ironlog/internal/models"
)

const (
	kvSeededKey  = "meta/seeded"
	kvVersionKey = "meta/version"
	kvVersion    = 1
)

// KV stores every collection in a single Badger database.
type KV struct {
	kvReader
	observers

	db  *badger.DB
	dir string
}

var _ Repository = (*KV)(nil)

// OpenKV opens or creates a Badger store in dir. An empty dir keeps the
// store in memory, which tests use.
func OpenKV(dir string) (*KV, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	k := &KV{kvReader: kvReader{db: db}, db: db, dir: dir}

	seeded, err := k.seeded()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if !seeded {
		if err := k.ReplaceAll(context.Background(), SeedDataset()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		log.Info("seeded new store", "path", dir)
	}

	return k, nil
}

func (k *KV) seeded() (bool, error) {
	var ok bool
	err := k.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(kvSeededKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		ok = err == nil
		return err
	})
	if err != nil {
		return false, fmt.Errorf("read store metadata: %w", err)
	}
	return ok, nil
}

// Path returns the store directory ("" when in memory).
func (k *KV) Path() string {
	return k.dir
}

// Close closes the Badger database.
func (k *KV) Close() error {
	return k.db.Close()
}

// View runs fn inside one read transaction.
func (k *KV) View(ctx context.Context, fn func(Reader) error) error {
	return k.db.View(func(txn *badger.Txn) error {
		return fn(kvReader{txn: txn})
	})
}

// update runs fn in a read-write transaction and notifies after commit.
func (k *KV) update(op string, col Collection, fn func(txn *badger.Txn) error) error {
	return k.updateAll(op, []Collection{col}, fn)
}

// updateAll is update for transactions that touch several collections.
func (k *KV) updateAll(op string, cols []Collection, fn func(txn *badger.Txn) error) error {
	err := k.db.Update(fn)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) || errors.Is(err, ErrNotFound) {
			return err
		}
		return writeFailed(op, err)
	}
	k.notify(cols...)
	return nil
}

func kvKey(c Collection, id int64) []byte {
	return []byte(fmt.Sprintf("%s/%020d", c, id))
}

func kvPrefix(c Collection) []byte {
	return []byte(string(c) + "/")
}

func seqKey(c Collection) []byte {
	return []byte("seq/" + string(c))
}

func kvPut(txn *badger.Txn, c Collection, id int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", c, id, err)
	}
	return txn.Set(kvKey(c, id), data)
}

func readSeq(txn *badger.Txn, c Collection) (int64, error) {
	item, err := txn.Get(seqKey(c))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt sequence for %s", c)
		}
		n = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return n, err
}

func writeSeq(txn *badger.Txn, c Collection, n int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return txn.Set(seqKey(c), buf)
}

// assignID returns id when it is set, otherwise the next unused id. The
// sequence never moves backwards so deleted ids are not reused.
func assignID(txn *badger.Txn, c Collection, id int64) (int64, error) {
	seq, err := readSeq(txn, c)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		id = seq + 1
	}
	if id > seq {
		if err := writeSeq(txn, c, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// kvReader reads through txn when set, otherwise opens a View per call.
type kvReader struct {
	db  *badger.DB
	txn *badger.Txn
}

var _ Reader = kvReader{}

func (r kvReader) view(fn func(txn *badger.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}
	return r.db.View(fn)
}

func kvGet[T any](r kvReader, c Collection, id int64) (*T, error) {
	var out *T
	err := r.view(func(txn *badger.Txn) error {
		var err error
		out, err = txnGet[T](txn, c, id)
		return err
	})
	return out, err
}

func txnGet[T any](txn *badger.Txn, c Collection, id int64) (*T, error) {
	item, err := txn.Get(kvKey(c, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", c, id, err)
	}
	var v T
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &v) }); err != nil {
		return nil, fmt.Errorf("decode %s %d: %w", c, id, err)
	}
	return &v, nil
}

// kvList returns the collection in id order, keeping only records keep accepts.
func kvList[T any](r kvReader, c Collection, keep func(*T) bool) ([]T, error) {
	out := []T{}
	err := r.view(func(txn *badger.Txn) error {
		var err error
		out, err = txnList(txn, c, keep)
		return err
	})
	return out, err
}

func txnList[T any](txn *badger.Txn, c Collection, keep func(*T) bool) ([]T, error) {
	prefix := kvPrefix(c)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	out := []T{}
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &v) }); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c, err)
		}
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func txnKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func sortSets(sets []models.SetLog, order Order) {
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		if order == Descending {
			a, b = b, a
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.ID < b.ID
	})
}

func (r kvReader) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return kvGet[models.Exercise](r, Exercises, id)
}

func (r kvReader) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	out, err := kvList[models.Exercise](r, Exercises, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r kvReader) GetRoutine(ctx context.Context, id int64) (*models.Routine, error) {
	return kvGet[models.Routine](r, Routines, id)
}

func (r kvReader) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	return kvList[models.Routine](r, Routines, nil)
}

func (r kvReader) GetScheduleEntry(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	return kvGet[models.ScheduleEntry](r, Schedule, id)
}

func (r kvReader) ScheduleForDay(ctx context.Context, dayIndex int) (*models.ScheduleEntry, error) {
	entries, err := kvList(r, Schedule, func(e *models.ScheduleEntry) bool { return e.DayIndex == dayIndex })
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (r kvReader) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	out, err := kvList[models.ScheduleEntry](r, Schedule, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayIndex < out[j].DayIndex })
	return out, nil
}

func (r kvReader) Profile(ctx context.Context) (*models.UserProfile, error) {
	out, err := kvList[models.UserProfile](r, Profile, nil)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r kvReader) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return kvList[models.UserProfile](r, Profile, nil)
}

func (r kvReader) GetDailyLog(ctx context.Context, id int64) (*models.DailyLog, error) {
	return kvGet[models.DailyLog](r, DailyLogs, id)
}

func (r kvReader) DailyLogByDate(ctx context.Context, date string) (*models.DailyLog, error) {
	out, err := kvList(r, DailyLogs, func(l *models.DailyLog) bool { return l.Date == date })
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r kvReader) ListDailyLogs(ctx context.Context) ([]models.DailyLog, error) {
	out, err := kvList[models.DailyLog](r, DailyLogs, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r kvReader) GetSet(ctx context.Context, id int64) (*models.SetLog, error) {
	return kvGet[models.SetLog](r, Sets, id)
}

func (r kvReader) ListSets(ctx context.Context, order Order) ([]models.SetLog, error) {
	out, err := kvList[models.SetLog](r, Sets, nil)
	if err != nil {
		return nil, err
	}
	sortSets(out, order)
	return out, nil
}

func (r kvReader) SetsBetween(ctx context.Context, start, end int64) ([]models.SetLog, error) {
	out, err := kvList(r, Sets, func(s *models.SetLog) bool {
		return s.Timestamp >= start && s.Timestamp <= end
	})
	if err != nil {
		return nil, err
	}
	sortSets(out, Ascending)
	return out, nil
}

func (r kvReader) SetsForExercise(ctx context.Context, exerciseID int64, order Order) ([]models.SetLog, error) {
	out, err := kvList(r, Sets, func(s *models.SetLog) bool { return s.ExerciseID == exerciseID })
	if err != nil {
		return nil, err
	}
	sortSets(out, order)
	return out, nil
}

func (r kvReader) Count(ctx context.Context, c Collection) (int, error) {
	if _, ok := tableNames[c]; !ok {
		return 0, fmt.Errorf("count: unknown collection %q", c)
	}
	var n int
	err := r.view(func(txn *badger.Txn) error {
		n = len(txnKeys(txn, kvPrefix(c)))
		return nil
	})
	return n, err
}

// kvAdd assigns an id, stores it back through setID, and writes the record.
func kvAdd(txn *badger.Txn, c Collection, id int64, setID func(int64), v any) error {
	id, err := assignID(txn, c, id)
	if err != nil {
		return err
	}
	setID(id)
	return kvPut(txn, c, id, v)
}

func (k *KV) AddExercise(ctx context.Context, ex *models.Exercise) (int64, error) {
	if err := ex.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := k.update("add exercise", Exercises, func(txn *badger.Txn) error {
		rec := *ex
		if err := kvAdd(txn, Exercises, rec.ID, func(n int64) { rec.ID = n }, &rec); err != nil {
			return err
		}
		id = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	ex.ID = id
	log.Debug("added record", "collection", Exercises, "id", ex.ID)
	return ex.ID, nil
}

func (k *KV) UpdateExercise(ctx context.Context, id int64, p models.ExercisePatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return k.update("update exercise", Exercises, func(txn *badger.Txn) error {
		ex, err := txnGet[models.Exercise](txn, Exercises, id)
		if err != nil {
			return err
		}
		if ex == nil {
			return fmt.Errorf("update exercise %d: %w", id, ErrNotFound)
		}
		p.Apply(ex)
		return kvPut(txn, Exercises, id, ex)
	})
}

func (k *KV) DeleteExercise(ctx context.Context, id int64) error {
	return k.deleteByID(Exercises, id)
}

func (k *KV) AddRoutine(ctx context.Context, r *models.Routine) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := k.update("add routine", Routines, func(txn *badger.Txn) error {
		rec := *r
		if err := kvAdd(txn, Routines, rec.ID, func(n int64) { rec.ID = n }, &rec); err != nil {
			return err
		}
		id = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.ID = id
	log.Debug("added record", "collection", Routines, "id", r.ID)
	return r.ID, nil
}

func (k *KV) UpdateRoutine(ctx context.Context, id int64, p models.RoutinePatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return k.update("update routine", Routines, func(txn *badger.Txn) error {
		r, err := txnGet[models.Routine](txn, Routines, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("update routine %d: %w", id, ErrNotFound)
		}
		p.Apply(r)
		return kvPut(txn, Routines, id, r)
	})
}

func (k *KV) DeleteRoutine(ctx context.Context, id int64) error {
	return k.deleteByID(Routines, id)
}

func (k *KV) AssignRoutine(ctx context.Context, dayIndex int, routineID *int64) error {
	entry := models.ScheduleEntry{DayIndex: dayIndex, RoutineID: routineID}
	if err := entry.Validate(); err != nil {
		return err
	}
	return k.update("assign routine", Schedule, func(txn *badger.Txn) error {
		entries, err := txnList(txn, Schedule, func(e *models.ScheduleEntry) bool { return e.DayIndex == dayIndex })
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			entry.ID = entries[0].ID
			return kvPut(txn, Schedule, entry.ID, &entry)
		}
		return kvAdd(txn, Schedule, 0, func(id int64) { entry.ID = id }, &entry)
	})
}

func (k *KV) SaveProfile(ctx context.Context, p *models.UserProfile) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := k.update("save profile", Profile, func(txn *badger.Txn) error {
		for _, key := range txnKeys(txn, kvPrefix(Profile)) {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		rec := *p
		if err := kvAdd(txn, Profile, rec.ID, func(n int64) { rec.ID = n }, &rec); err != nil {
			return err
		}
		id = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.ID = id
	log.Debug("saved profile", "id", p.ID)
	return p.ID, nil
}

func (k *KV) UpdateProfile(ctx context.Context, pp models.ProfilePatch) error {
	return k.update("update profile", Profile, func(txn *badger.Txn) error {
		return updateProfileTxn(txn, pp)
	})
}

func updateProfileTxn(txn *badger.Txn, pp models.ProfilePatch) error {
	profiles, err := txnList[models.UserProfile](txn, Profile, nil)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("update profile: %w", ErrNotFound)
	}
	p := &profiles[0]
	pp.Apply(p)
	if err := p.Validate(); err != nil {
		return err
	}
	return kvPut(txn, Profile, p.ID, p)
}

func (k *KV) DeleteProfile(ctx context.Context) error {
	return k.update("delete profile", Profile, func(txn *badger.Txn) error {
		for _, key := range txnKeys(txn, kvPrefix(Profile)) {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (k *KV) UpsertDailyLog(ctx context.Context, l *models.DailyLog) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	var rec models.DailyLog
	err := k.update("upsert daily log", DailyLogs, func(txn *badger.Txn) error {
		var err error
		rec, err = upsertDailyLogTxn(txn, *l)
		return err
	})
	if err != nil {
		return 0, err
	}
	*l = rec
	log.Debug("upserted record", "collection", DailyLogs, "date", l.Date, "id", l.ID)
	return l.ID, nil
}

// upsertDailyLogTxn writes l inside txn and returns the stored record.
func upsertDailyLogTxn(txn *badger.Txn, l models.DailyLog) (models.DailyLog, error) {
	existing, err := txnList(txn, DailyLogs, func(d *models.DailyLog) bool { return d.Date == l.Date })
	if err != nil {
		return l, err
	}
	if len(existing) == 0 {
		err = kvAdd(txn, DailyLogs, 0, func(id int64) { l.ID = id }, &l)
		return l, err
	}
	l.ID = existing[0].ID
	if l.LoggedWeight == nil {
		l.LoggedWeight = existing[0].LoggedWeight
	}
	return l, kvPut(txn, DailyLogs, l.ID, &l)
}

func (k *KV) RecordWeight(ctx context.Context, date string, weight float64) (*models.DailyLog, error) {
	var rec models.DailyLog
	err := k.updateAll("record weight", []Collection{Profile, DailyLogs}, func(txn *badger.Txn) error {
		if err := updateProfileTxn(txn, models.ProfilePatch{CurrentWeight: &weight}); err != nil {
			return err
		}
		l := models.DailyLog{Date: date}
		existing, err := txnList(txn, DailyLogs, func(d *models.DailyLog) bool { return d.Date == date })
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			l = existing[0]
		}
		l.LoggedWeight = &weight
		if err := l.Validate(); err != nil {
			return err
		}
		rec, err = upsertDailyLogTxn(txn, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("recorded weight", "date", date, "weight", weight)
	return &rec, nil
}

func (k *KV) UpdateDailyLog(ctx context.Context, id int64, p models.DailyLogPatch) error {
	return k.update("update daily log", DailyLogs, func(txn *badger.Txn) error {
		l, err := txnGet[models.DailyLog](txn, DailyLogs, id)
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
		return kvPut(txn, DailyLogs, id, l)
	})
}

func (k *KV) DeleteDailyLog(ctx context.Context, id int64) error {
	return k.deleteByID(DailyLogs, id)
}

func (k *KV) AddSet(ctx context.Context, s *models.SetLog) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := k.update("add set", Sets, func(txn *badger.Txn) error {
		rec := *s
		if err := kvAdd(txn, Sets, rec.ID, func(n int64) { rec.ID = n }, &rec); err != nil {
			return err
		}
		id = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.ID = id
	log.Debug("added record", "collection", Sets, "id", s.ID, "exercise", s.ExerciseID)
	return s.ID, nil
}

func (k *KV) DeleteSet(ctx context.Context, id int64) error {
	return k.deleteByID(Sets, id)
}

// deleteByID is idempotent: a missing id is not an error.
func (k *KV) deleteByID(c Collection, id int64) error {
	err := k.update("delete "+string(c), c, func(txn *badger.Txn) error {
		return txn.Delete(kvKey(c, id))
	})
	if err == nil {
		log.Debug("deleted record", "collection", c, "id", id)
	}
	return err
}

// ReplaceAll clears every collection and loads ds in one Badger transaction.
// Sequences are kept at least as high as the largest restored id.
func (k *KV) ReplaceAll(ctx context.Context, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	err := k.db.Update(func(txn *badger.Txn) error {
		for _, c := range AllCollections {
			for _, key := range txnKeys(txn, kvPrefix(c)) {
				if err := txn.Delete(key); err != nil {
					return err
				}
			}
		}

		for _, ex := range explicitFirst(ds.Exercises, func(e *models.Exercise) int64 { return e.ID }) {
			if err := kvAdd(txn, Exercises, ex.ID, func(id int64) { ex.ID = id }, ex); err != nil {
				return err
			}
		}
		for _, r := range explicitFirst(ds.Routines, func(r *models.Routine) int64 { return r.ID }) {
			if err := kvAdd(txn, Routines, r.ID, func(id int64) { r.ID = id }, r); err != nil {
				return err
			}
		}
		for _, e := range explicitFirst(fullSchedule(ds), func(e *models.ScheduleEntry) int64 { return e.ID }) {
			if err := kvAdd(txn, Schedule, e.ID, func(id int64) { e.ID = id }, e); err != nil {
				return err
			}
		}
		for _, p := range explicitFirst(ds.Profile, func(p *models.UserProfile) int64 { return p.ID }) {
			if err := kvAdd(txn, Profile, p.ID, func(id int64) { p.ID = id }, p); err != nil {
				return err
			}
		}
		for _, l := range explicitFirst(ds.DailyLogs, func(l *models.DailyLog) int64 { return l.ID }) {
			if err := kvAdd(txn, DailyLogs, l.ID, func(id int64) { l.ID = id }, l); err != nil {
				return err
			}
		}
		for _, s := range explicitFirst(ds.Sets, func(s *models.SetLog) int64 { return s.ID }) {
			if err := kvAdd(txn, Sets, s.ID, func(id int64) { s.ID = id }, s); err != nil {
				return err
			}
		}

		if err := txn.Set([]byte(kvSeededKey), []byte{1}); err != nil {
			return err
		}
		return txn.Set([]byte(kvVersionKey), []byte{kvVersion})
	})
	if err != nil {
		return writeFailed("replace all", err)
	}

	log.Info("replaced store contents",
		"exercises", len(ds.Exercises), "routines", len(ds.Routines),
		"sets", len(ds.Sets), "daily_logs", len(ds.DailyLogs))
	k.notify(AllCollections...)
	return nil
}
