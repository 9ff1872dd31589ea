// ABOUTME: JSON backup envelope covering all six collections.
// ABOUTME: Export snapshots the store; Import validates, confirms, then replaces atomically.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/ironlog/internal/storage"
)

// Version is the only envelope version this build reads and writes.
const Version = 1

// ErrInvalidBackup is returned for any document that is not a well-formed
// version 1 envelope. The store is never touched when it is returned.
var ErrInvalidBackup = errors.New("invalid backup file")

// ErrDeclined is returned by Import when the confirm hook refuses.
var ErrDeclined = errors.New("restore declined")

// Envelope is the on-disk backup document.
type Envelope struct {
	Version   int   `json:"version" yaml:"version"`
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
	storage.Dataset `yaml:",inline"`
}

// Time returns the export time.
func (e *Envelope) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// envelopeKeys are the exact top-level keys of a backup document.
var envelopeKeys = []string{"version", "timestamp", "exercises", "sets", "profile", "routines", "schedule", "dailyLogs"}

// Export reads every collection from one snapshot and wraps it.
func Export(ctx context.Context, repo storage.Repository, now time.Time) (*Envelope, error) {
	ds, err := storage.Snapshot(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	return &Envelope{Version: Version, Timestamp: now.UnixMilli(), Dataset: *ds}, nil
}

// Marshal encodes env as indented JSON.
func Marshal(env *Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

// ExportJSON is Export followed by Marshal.
func ExportJSON(ctx context.Context, repo storage.Repository, now time.Time) ([]byte, error) {
	env, err := Export(ctx, repo, now)
	if err != nil {
		return nil, err
	}
	return Marshal(env)
}

// Filename returns "<app>_backup_YYYY-MM-DD.json" for the local date of t.
func Filename(app string, t time.Time) string {
	if app == "" {
		app = "ironlog"
	}
	return fmt.Sprintf("%s_backup_%s.json", app, t.Format("2006-01-02"))
}

// Parse decodes and validates a backup document. Every failure wraps
// ErrInvalidBackup.
func Parse(data []byte) (*Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalid("not a JSON object: %v", err)
	}
	if raw == nil {
		return nil, invalid("not a JSON object")
	}

	var missing []string
	for _, k := range envelopeKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, invalid("missing %s", strings.Join(missing, ", "))
	}
	if len(raw) != len(envelopeKeys) {
		var extra []string
		for k := range raw {
			if !slices.Contains(envelopeKeys, k) {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		return nil, invalid("unexpected %s", strings.Join(extra, ", "))
	}
	for _, k := range envelopeKeys[2:] {
		if !isArray(raw[k]) {
			return nil, invalid("%s must be an array", k)
		}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, invalid("%v", err)
	}
	if env.Version != Version {
		return nil, invalid("unsupported version %d", env.Version)
	}
	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	return &env, nil
}

// Restore replaces the store's contents with env's collections verbatim.
func Restore(ctx context.Context, repo storage.Repository, env *Envelope) error {
	if err := repo.ReplaceAll(ctx, &env.Dataset); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	log.Info("restored backup", "exported_at", env.Time().Format(time.RFC3339))
	return nil
}

// ConfirmFunc is shown the backup's export time and decides whether to
// overwrite the current data.
type ConfirmFunc func(exportedAt time.Time) bool

// Import parses data, asks confirm, and restores. A nil confirm proceeds.
func Import(ctx context.Context, repo storage.Repository, data []byte, confirm ConfirmFunc) (*Envelope, error) {
	env, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if confirm != nil && !confirm(env.Time()) {
		return env, ErrDeclined
	}
	if err := Restore(ctx, repo, env); err != nil {
		return env, err
	}
	return env, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBackup, fmt.Sprintf(format, args...))
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}
