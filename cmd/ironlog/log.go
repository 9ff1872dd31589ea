// ABOUTME: CLI command for logging a set.
// ABOUTME: Shows the previous set, backdates with --date, and reports personal records.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logDate     string
	logWarmup   bool
	logCalories float64
)

var logCmd = &cobra.Command{
	Use:     "log <exercise> <weight> <reps>",
	Aliases: []string{"set", "add"},
	Short:   "Log a set",
	Long: `Log one set of an exercise, by name or id.

For cardio, weight is distance in km and reps is minutes. For isometric
work, reps is seconds held.

A strength set heavier than every earlier set of the same exercise is a
new personal record.

EXAMPLES:

  ironlog log "Bench Press" 60 8                 # Log a set now
  ironlog log Squat 100 5 --date yesterday       # Backdate to yesterday
  ironlog log Squat 40 10 --warmup               # Mark as a warmup
  ironlog log "Running (5k)" 5 27 --calories 380 # Cardio: 5 km in 27 min`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := time.Now()

		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}
		day, err := parseDay(logDate, now)
		if err != nil {
			return err
		}

		ex, err := findExercise(ctx, repo, args[0])
		if err != nil {
			return err
		}

		prior, err := repo.SetsForExercise(ctx, ex.ID, storage.Descending)
		if err != nil {
			return fmt.Errorf("failed to load previous sets: %w", err)
		}
		ghost := insights.LastSet(prior, ex.ID)

		at := now
		if !models.SameDay(day, now) {
			at = models.BacklogTimestamp(day, now)
		}
		set := models.NewSetLog(ex.ID, weight, reps, at)
		set.IsWarmup = logWarmup
		if logCalories > 0 {
			set.WithCalories(logCalories)
		}

		_, pr, err := insights.RecordSet(ctx, repo, set)
		if err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		color.Green("✓ %s: %s", ex.Name, formatSet(*set, ex.Category))
		if ghost != nil {
			fmt.Printf("  %s %s\n", faint("last time"), faint(formatSet(*ghost, ex.Category)))
		}
		if pr.IsRecord {
			primary, _ := ex.Category.Units()
			color.Yellow("  🏆 New personal record! Previous best %g %s", pr.Previous, primary)
		}
		if !models.SameDay(day, now) {
			fmt.Printf("  %s\n", faint("backdated to "+models.DateKey(day)))
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "day to log for (YYYY-MM-DD, yesterday, or weekday)")
	logCmd.Flags().BoolVar(&logWarmup, "warmup", false, "mark the set as a warmup")
	logCmd.Flags().Float64Var(&logCalories, "calories", 0, "calories burned")
	rootCmd.AddCommand(logCmd)
}
