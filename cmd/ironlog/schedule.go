// ABOUTME: CLI commands for the weekly schedule.
// ABOUTME: Shows the routine per weekday and assigns routines or rest days.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:     "schedule",
	Aliases: []string{"week"},
	Short:   "Show or change the weekly schedule",
	Long: `Show or change which routine runs on each day of the week.

Days are given by name (mon, tuesday) or index (0 = Sunday ... 6 = Saturday).

EXAMPLES:

  ironlog schedule                  # Show the week
  ironlog schedule set mon Push     # Train Push on Mondays
  ironlog schedule set sun rest     # Make Sunday a rest day`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := schedule.Week(cmd.Context(), repo)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		today := int(time.Now().Weekday())
		for i, r := range week {
			name := faint("Rest")
			if r != nil {
				name = r.Name
			}
			marker := "  "
			if i == today {
				marker = color.CyanString("→ ")
			}
			fmt.Printf("%s%s  %s\n", marker, padRight(models.DayNames[i], 4), name)
		}
		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set <day> <routine|rest>",
	Short: "Assign a routine to a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := models.ParseDay(args[0])
		if err != nil {
			return err
		}

		if strings.EqualFold(args[1], "rest") {
			if err := repo.AssignRoutine(ctx, day, nil); err != nil {
				return fmt.Errorf("failed to update schedule: %w", err)
			}
			color.Green("✓ %s is a rest day", models.DayNames[day])
			return nil
		}

		r, err := findRoutine(ctx, repo, args[1])
		if err != nil {
			return err
		}
		if err := repo.AssignRoutine(ctx, day, &r.ID); err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}
		color.Green("✓ %s: %s", models.DayNames[day], r.Name)
		return nil
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleSetCmd)
	rootCmd.AddCommand(scheduleCmd)
}
