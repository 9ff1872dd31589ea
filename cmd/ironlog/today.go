// ABOUTME: CLI command showing the active routine and progress for a day.
// ABOUTME: Offers to recalibrate onto yesterday's routine when it was missed.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	todayDate        string
	todayRecalibrate bool
	todayNoPrompt    bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's routine and progress",
	Long: `Show the routine scheduled for today and how many target sets are done.

If yesterday had a routine with nothing logged, you are offered the chance to
do it now. Accepting shows yesterday's routine; log its sets with
--date yesterday so they are backdated.

EXAMPLES:

  ironlog today                    # Today's plan
  ironlog today --date yesterday   # Yesterday's plan and progress
  ironlog today --recalibrate      # Switch to yesterday's missed routine without asking
  ironlog today --no-prompt        # Never ask about missed workouts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := time.Now()
		session := schedule.NewSession(now)

		if todayDate != "" {
			day, err := parseDay(todayDate, now)
			if err != nil {
				return err
			}
			session.SetDate(day)
		}

		if models.SameDay(session.ActiveDate(), now) && !todayNoPrompt {
			missed, err := schedule.CheckMissed(ctx, repo, now)
			if err != nil {
				return fmt.Errorf("failed to check missed workout: %w", err)
			}
			if missed != nil {
				question := fmt.Sprintf("You missed %s on %s. Do it now?",
					missed.Routine.Name, missed.Date.Format("Monday"))
				if todayRecalibrate || confirm(os.Stdin, os.Stdout, question) {
					session.Accept(missed)
					color.Cyan("Recalibrated: log with --date yesterday to backdate sets.")
				} else {
					session.Dismiss()
				}
				fmt.Println()
			}
		}

		var progress *schedule.DayProgress
		err := repo.View(ctx, func(r storage.Reader) error {
			var err error
			progress, err = session.Progress(ctx, r, now)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		renderProgress(os.Stdout, progress)
		return nil
	},
}

// renderProgress prints a day's routine, per-exercise completion, and sets.
func renderProgress(w io.Writer, p *schedule.DayProgress) {
	bold := color.New(color.Bold).SprintFunc()
	title := "Free training"
	if p.Routine != nil {
		title = p.Routine.Name
	}
	fmt.Fprintf(w, "%s  %s\n", bold(p.Date), title)

	for _, item := range p.Items {
		status := faint("·")
		if item.Complete {
			status = color.GreenString("✓")
		}
		target := ""
		if item.Target != nil {
			target = fmt.Sprintf("%d/%d sets  %s", item.Done, item.Target.TargetSets,
				faint(formatTarget(*item.Target, item.Exercise.Category)))
		} else if item.Done > 0 {
			target = fmt.Sprintf("%d sets", item.Done)
		}
		fmt.Fprintf(w, "  %s %s  %s\n", status, padRight(truncate(item.Exercise.Name, 28), 28), target)
	}

	switch {
	case p.Complete:
		color.New(color.FgGreen).Fprintln(w, "\n  Workout complete!")
	case len(p.Sets) > 0:
		fmt.Fprintf(w, "\n  %s\n", faint(fmt.Sprintf("%d sets logged", len(p.Sets))))
	}
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "day to show (YYYY-MM-DD, yesterday, or weekday)")
	todayCmd.Flags().BoolVar(&todayRecalibrate, "recalibrate", false, "accept yesterday's missed routine without asking")
	todayCmd.Flags().BoolVar(&todayNoPrompt, "no-prompt", false, "skip the missed workout check")
	rootCmd.AddCommand(todayCmd)
}
