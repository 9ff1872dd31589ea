// ABOUTME: CLI command for period statistics.
// ABOUTME: Attendance, volume, distance, nutrition wins, plus plateau and trend for one exercise.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	statsYear     bool
	statsDate     string
	statsExercise string
	statsAverage  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show training statistics for a month or year",
	Long: `Show attendance, strength volume, cardio distance and nutrition wins for a
period, compared with the period before it.

With --exercise, also checks for a plateau over the last four weeks and
prints the exercise's trend across the period.

EXAMPLES:

  ironlog stats                         # This month
  ironlog stats --year                  # This year
  ironlog stats --date 2024-02-01       # February 2024
  ironlog stats --exercise Squat        # Plus plateau check and trend
  ironlog stats --exercise Squat --avg  # Trend of average instead of peak`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := time.Now()

		at, err := parseDay(statsDate, now)
		if err != nil {
			return err
		}
		period := insights.PeriodMonth
		if statsYear {
			period = insights.PeriodYear
		}
		opts := insights.ReportOptions{Aggregation: insights.AggregatePeak}
		if statsAverage {
			opts.Aggregation = insights.AggregateAverage
		}

		var exerciseName string
		var rep *insights.Report
		err = repo.View(ctx, func(r storage.Reader) error {
			if statsExercise != "" {
				ex, err := findExercise(ctx, r, statsExercise)
				if err != nil {
					return err
				}
				opts.ExerciseID = ex.ID
				exerciseName = ex.Name
			}
			var err error
			rep, err = insights.BuildReport(ctx, r, period, at, now, opts)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to build stats: %w", err)
		}

		printReport(rep, exerciseName)
		return nil
	},
}

func printReport(rep *insights.Report, exerciseName string) {
	bold := color.New(color.Bold).SprintFunc()
	label := rep.Current.Start.Format("January 2006")
	if rep.Period == insights.PeriodYear {
		label = rep.Current.Start.Format("2006")
	}
	fmt.Println(bold(label))

	s := rep.Stats
	fmt.Printf("  %s %d/%d days (%d%%)%s\n", faint("attendance"),
		s.DaysWorkedOut, s.PotentialDays, s.AttendanceRate, change(rep.AttendanceDelta()))
	fmt.Printf("  %s %.0f kg%s\n", faint("volume    "), s.StrengthVolume, change(rep.VolumeDelta()))
	fmt.Printf("  %s %.1f km%s\n", faint("distance  "), s.CardioDistance, change(rep.DistanceDelta()))
	fmt.Printf("  %s %d\n", faint("sets      "), s.Sets)

	n := rep.Nutrition
	if n.Days > 0 {
		fmt.Printf("  %s %d/%d calorie days, %d/%d protein days\n", faint("nutrition "),
			n.CalorieWins, n.Days, n.ProteinWins, n.Days)
	}

	if exerciseName == "" {
		return
	}
	fmt.Printf("\n%s\n", bold(exerciseName))
	if rep.Plateau != nil {
		if rep.Plateau.Detected {
			color.Yellow("  Plateau: stuck at %g for %d weeks. Try a deload or a rep scheme change.",
				rep.Plateau.Metric, rep.Plateau.Weeks)
		} else {
			fmt.Printf("  %s %d weeks of data, latest best %g\n", faint("progress  "),
				rep.Plateau.Weeks, rep.Plateau.Metric)
		}
	}
	for _, b := range rep.Trend {
		if b.Empty {
			continue
		}
		fmt.Printf("  %s  %g  %s\n", padRight(b.Label, 8), b.Value, faint(fmt.Sprintf("%d sets", b.Sets)))
	}
}

// change formats a percentage delta, or nothing when there is no baseline.
func change(pct float64, ok bool) string {
	if !ok {
		return ""
	}
	s := fmt.Sprintf(" (%+.0f%%)", pct)
	if pct < 0 {
		return color.RedString(s)
	}
	return color.GreenString(s)
}

func init() {
	statsCmd.Flags().BoolVar(&statsYear, "year", false, "yearly instead of monthly")
	statsCmd.Flags().StringVar(&statsDate, "date", "", "any day inside the period (default today)")
	statsCmd.Flags().StringVarP(&statsExercise, "exercise", "e", "", "exercise for plateau and trend (name or id)")
	statsCmd.Flags().BoolVar(&statsAverage, "avg", false, "trend average instead of peak")
	rootCmd.AddCommand(statsCmd)
}
