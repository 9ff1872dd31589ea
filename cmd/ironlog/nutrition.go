// ABOUTME: CLI commands for daily nutrition and weight check-ins.
// ABOUTME: Both upsert the day's log; each keeps the fields the other wrote.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	nutritionDate string
	weightDate    string
)

var nutritionCmd = &cobra.Command{
	Use:     "nutrition <calories> <protein>",
	Aliases: []string{"eat", "food"},
	Short:   "Log the day's calories and protein",
	Long: `Log total calories and protein (grams) for a day. Logging again for the
same day replaces the totals; a weight check-in on that day is kept.

EXAMPLES:

  ironlog nutrition 2100 150
  ironlog nutrition 1800 120 --date yesterday`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		calories, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid calories: %s", args[0])
		}
		protein, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid protein: %s", args[1])
		}
		day, err := parseDay(nutritionDate, time.Now())
		if err != nil {
			return err
		}

		l, err := storage.LogNutrition(cmd.Context(), repo, day, calories, protein)
		if err != nil {
			return fmt.Errorf("failed to log nutrition: %w", err)
		}
		color.Green("✓ %s: %.0f kcal, %.0f g protein", l.Date, l.Calories, l.Protein)

		p, err := repo.Profile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if p.Onboarded() {
			fmt.Printf("  %s %d kcal, %d g protein\n", faint("targets"), p.DailyCalorieTarget, p.DailyProteinTarget)
		}
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight <kg>",
	Short: "Check in your body weight",
	Long: `Record your body weight for a day and update your profile's current weight.

EXAMPLES:

  ironlog weight 81.4
  ironlog weight 81.9 --date 2024-03-04`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		day, err := parseDay(weightDate, time.Now())
		if err != nil {
			return err
		}

		l, err := storage.CheckInWeight(cmd.Context(), repo, day, kg)
		if err != nil {
			return fmt.Errorf("failed to check in weight: %w", err)
		}
		color.Green("✓ %s: %.1f kg", l.Date, kg)
		return nil
	},
}

func init() {
	nutritionCmd.Flags().StringVar(&nutritionDate, "date", "", "day to log for (default today)")
	weightCmd.Flags().StringVar(&weightDate, "date", "", "day to log for (default today)")
	rootCmd.AddCommand(nutritionCmd)
	rootCmd.AddCommand(weightCmd)
}
