// ABOUTME: Data migration between ironlog storage backends.
// ABOUTME: Copies every collection from source to destination with ids preserved.
package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Exercises int
	Routines  int
	Schedule  int
	Profiles  int
	DailyLogs int
	Sets      int
}

// MigrateData copies all data from src to dst. The snapshot is read in one
// View and written with ReplaceAll, so dst either holds a full copy of src
// or is left untouched.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	ds, err := Snapshot(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ReplaceAll(ctx, ds); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Exercises: len(ds.Exercises),
		Routines:  len(ds.Routines),
		Schedule:  len(ds.Schedule),
		Profiles:  len(ds.Profile),
		DailyLogs: len(ds.DailyLogs),
		Sets:      len(ds.Sets),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
