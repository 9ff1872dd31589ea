// ABOUTME: CLI command for training history grouped by day.
// ABOUTME: Newest day first with per-day volume and each exercise's sets.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show training history by day",
	Long: `Show logged training grouped by day, newest first.

EXAMPLES:

  ironlog history           # Last 7 training days
  ironlog history -n 30     # Last 30 training days`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			days      []insights.DayHistory
			exercises []models.Exercise
		)
		err := repo.View(ctx, func(r storage.Reader) error {
			sets, err := r.ListSets(ctx, storage.Descending)
			if err != nil {
				return err
			}
			if exercises, err = r.ListExercises(ctx); err != nil {
				return err
			}
			days = insights.HistoryByDay(sets, exercises)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(days) == 0 {
			fmt.Println("No training logged yet.")
			return nil
		}
		if historyDays > 0 && len(days) > historyDays {
			days = days[:historyDays]
		}

		byID := models.IndexByID(exercises)
		bold := color.New(color.Bold).SprintFunc()
		for i, d := range days {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s  %s\n", bold(d.Day.Format("Mon 2 Jan 2006")),
				faint(fmt.Sprintf("%d sets, volume %.0f", d.SetCount, d.Volume)))
			for _, es := range d.Exercises {
				category := byID[es.ExerciseID].Category
				fmt.Printf("  %s\n", es.Name)
				for _, s := range es.Sets {
					fmt.Printf("    %s  %s\n", faint(s.Time().Format("15:04")), formatSet(s, category))
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "n", 7, "number of training days to show")
	rootCmd.AddCommand(historyCmd)
}
