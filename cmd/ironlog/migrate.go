// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies every collection from the configured backend to another, ids preserved.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/config"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateForce  bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another storage backend",
	Long: `Copy every collection from the current backend to another one.

Identifiers are preserved, so routines, schedule entries and sets keep
pointing at the same exercises. The destination is replaced as a whole.

IMPORTANT:

  - The destination must be empty unless --force is given
  - The source is left untouched
  - Use --switch to make the destination the configured backend

USAGE:

  ironlog migrate --to badger             # SQLite -> Badger
  ironlog migrate --to sqlite --switch    # Badger -> SQLite and use it from now on`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		from := cfg.GetBackend()
		dataDir := cfg.GetDataDir()

		if !slices.Contains(config.Backends, migrateTo) {
			return fmt.Errorf("unknown backend %q (use sqlite or badger)", migrateTo)
		}
		if migrateTo == from {
			return fmt.Errorf("data is already stored in %s", from)
		}

		dstPath, err := config.StoragePath(migrateTo, dataDir)
		if err != nil {
			return err
		}
		if !migrateForce {
			if exists, err := destinationExists(migrateTo, dstPath); err != nil {
				return err
			} else if exists {
				return fmt.Errorf("destination %s already has data (use --force to overwrite)", dstPath)
			}
		}

		src, err := config.Open(from, dataDir)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", from, err)
		}
		defer src.Close()

		dst, err := config.Open(migrateTo, dataDir)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(ctx, src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", from, migrateTo)
		fmt.Printf("  %s %d exercises, %d routines, %d schedule days\n",
			faint("copied"), summary.Exercises, summary.Routines, summary.Schedule)
		fmt.Printf("  %s %d profiles, %d daily logs, %d sets\n",
			faint("      "), summary.Profiles, summary.DailyLogs, summary.Sets)

		if migrateSwitch {
			cfg.Backend = migrateTo
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Now using %s", migrateTo)
		} else {
			fmt.Printf("\nRun with --backend %s, or set \"backend\": %q in %s\n",
				migrateTo, migrateTo, config.GetConfigPath())
		}
		return nil
	},
}

// destinationExists reports whether the target store already holds files.
func destinationExists(backend, path string) (bool, error) {
	if backend == config.BackendBadger {
		return storage.IsDirNonEmpty(path)
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or badger")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a destination that already has data")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "use the destination backend from now on")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
