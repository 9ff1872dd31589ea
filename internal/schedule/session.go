// ABOUTME: Session tracks the active date and a date-pinned routine override.
// ABOUTME: Accepting a missed-day prompt pins that day's routine while backlogging it.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

type override struct {
	date    string
	routine models.Routine
}

// Session is the "which day am I logging" context shared by a long-running
// surface such as the MCP server or the watch dashboard.
type Session struct {
	mu       sync.Mutex
	active   time.Time
	override *override
}

// NewSession starts on now's date with no override.
func NewSession(now time.Time) *Session {
	return &Session{active: now}
}

// ActiveDate returns the date currently being viewed.
func (s *Session) ActiveDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetDate switches the active date. An override stays pinned to its own date.
func (s *Session) SetDate(d time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = d
}

// Accept moves the session to the missed day and pins its routine there.
func (s *Session) Accept(m *Missed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = m.Date
	s.override = &override{date: models.DateKey(m.Date), routine: m.Routine}
}

// Dismiss drops any override.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = nil
}

// Override returns the pinned routine and its date key, if any.
func (s *Session) Override() (models.Routine, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override == nil {
		return models.Routine{}, "", false
	}
	return s.override.routine, s.override.date, true
}

// Resolve returns the routine for the active date. The pinned override wins
// only while viewing its own date and that date is not today.
func (s *Session) Resolve(ctx context.Context, r storage.Reader, now time.Time) (*models.Routine, error) {
	s.mu.Lock()
	active := s.active
	ov := s.override
	s.mu.Unlock()

	if ov != nil && models.DateKey(active) == ov.date && !models.SameDay(active, now) {
		routine := ov.routine
		return &routine, nil
	}
	return ActiveRoutine(ctx, r, active)
}

// Progress resolves the routine for the active date and reports completion.
func (s *Session) Progress(ctx context.Context, r storage.Reader, now time.Time) (*DayProgress, error) {
	routine, err := s.Resolve(ctx, r, now)
	if err != nil {
		return nil, err
	}
	return LoadProgress(ctx, r, s.ActiveDate(), routine)
}
