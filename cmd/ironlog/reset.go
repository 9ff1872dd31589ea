// ABOUTME: CLI command that deletes all data and restores the first-run state.
// ABOUTME: Asks for confirmation unless --yes is given.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and start over",
	Long: `Delete your profile, routines, schedule, nutrition logs and every logged
set, then restore the default exercise library and an empty week.

CAUTION:

  This cannot be undone. Export a backup first:
    ironlog export json -f`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes && !confirm(os.Stdin, os.Stdout, "Delete ALL ironlog data?") {
			color.Yellow("Reset cancelled.")
			return nil
		}
		if err := storage.Reset(cmd.Context(), repo); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		color.Yellow("✗ All data deleted. Run 'ironlog onboard' to start again.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation")
	rootCmd.AddCommand(resetCmd)
}
