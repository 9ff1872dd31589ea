// ABOUTME: CLI commands for listing and deleting logged sets.
// ABOUTME: Lists newest first, filtered by day or exercise.
package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	setsDate     string
	setsExercise string
	setsLimit    int
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List logged sets",
	Long: `List logged sets, newest first.

EXAMPLES:

  ironlog sets                       # Recent sets
  ironlog sets --date today          # Everything logged today
  ironlog sets --exercise Squat      # Squat sets only
  ironlog sets delete 42             # Delete set #42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var ex *models.Exercise
		if setsExercise != "" {
			var err error
			if ex, err = findExercise(ctx, repo, setsExercise); err != nil {
				return err
			}
		}

		var sets []models.SetLog
		var err error
		switch {
		case setsDate != "":
			day, perr := parseDay(setsDate, time.Now())
			if perr != nil {
				return perr
			}
			start, end := models.DayBounds(day)
			sets, err = repo.SetsBetween(ctx, start, end)
			slices.Reverse(sets)
			if ex != nil {
				sets = slices.DeleteFunc(sets, func(s models.SetLog) bool { return s.ExerciseID != ex.ID })
			}
		case ex != nil:
			sets, err = repo.SetsForExercise(ctx, ex.ID, storage.Descending)
		default:
			sets, err = repo.ListSets(ctx, storage.Descending)
		}
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}
		if len(sets) == 0 {
			fmt.Println("No sets found.")
			return nil
		}
		if setsLimit > 0 && len(sets) > setsLimit {
			sets = sets[:setsLimit]
		}

		exercises, err := repo.ListExercises(ctx)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		byID := models.IndexByID(exercises)

		for _, s := range sets {
			e, ok := byID[s.ExerciseID]
			if !ok {
				e = models.Exercise{Name: "Unknown Exercise", Category: models.CategoryStrength}
			}
			fmt.Printf("%s  %s  %s  %s\n",
				faint(padRight(fmt.Sprintf("#%d", s.ID), 6)),
				s.Time().Format("2006-01-02 15:04"),
				padRight(truncate(e.Name, 24), 24),
				formatSet(s, e.Category))
		}
		return nil
	},
}

var setsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a logged set",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid set id: %s", args[0])
		}
		s, err := repo.GetSet(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load set: %w", err)
		}
		if s == nil {
			return fmt.Errorf("set not found: %d", id)
		}
		if err := repo.DeleteSet(ctx, id); err != nil {
			return fmt.Errorf("failed to delete set: %w", err)
		}
		color.Yellow("✗ Deleted set #%d", id)
		fmt.Printf("  %s %g x %g\n", faint(s.Time().Format("2006-01-02 15:04")), s.Weight, s.Reps)
		return nil
	},
}

func init() {
	setsCmd.Flags().StringVar(&setsDate, "date", "", "only sets from this day")
	setsCmd.Flags().StringVarP(&setsExercise, "exercise", "e", "", "only sets of this exercise (name or id)")
	setsCmd.Flags().IntVarP(&setsLimit, "limit", "n", 20, "max number of results")

	setsCmd.AddCommand(setsDeleteCmd)
	rootCmd.AddCommand(setsCmd)
}
