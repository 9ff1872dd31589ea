// ABOUTME: Live gym dashboard backed by a reactive store subscription.
// ABOUTME: Commands typed on stdin write to the store; the dashboard re-renders on every change.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/live"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"gym"},
	Short:   "Live dashboard for a training session",
	Long: `Open a live dashboard showing the day's routine, progress, nutrition and
month-to-date stats. It redraws whenever the data changes.

Type commands while training:

  log <exercise> <weight> <reps>   Log a set (exercise by name or id)
  undo                             Delete the last set logged here
  eat <calories> <protein>         Log the day's nutrition
  weight <kg>                      Check in body weight
  date <day>                       Switch day (today, yesterday, YYYY-MM-DD)
  yes / no                         Answer the missed workout prompt
  quit                             Leave

EXAMPLES:

  ironlog watch
  > log Squat 100 5
  > log "Bench Press" 60 8`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		g := newGymSession(repo, time.Now(), os.Stdout)
		return g.run(ctx, os.Stdin)
	},
}

// dashboard is everything one redraw shows.
type dashboard struct {
	Progress *schedule.DayProgress
	Stats    insights.PeriodStats
	Intake   *models.DailyLog
	Profile  *models.UserProfile
	Missed   *schedule.Missed
}

// gymSession owns the live subscription and the logging session.
type gymSession struct {
	repo    storage.Repository
	hub     *live.Hub
	session *schedule.Session
	out     io.Writer
	now     func() time.Time

	// touched only by the goroutine running run
	lastSet int64
	missed  *schedule.Missed
	asked   bool
}

func newGymSession(repo storage.Repository, now time.Time, out io.Writer) *gymSession {
	return &gymSession{
		repo:    repo,
		hub:     live.NewHub(repo),
		session: schedule.NewSession(now),
		out:     out,
		now:     time.Now,
	}
}

// query is re-run by the hub whenever a collection it read changes.
func (g *gymSession) query(ctx context.Context, r storage.Reader) (dashboard, error) {
	now := g.now()
	var d dashboard
	var err error

	if d.Progress, err = g.session.Progress(ctx, r, now); err != nil {
		return d, err
	}
	active := g.session.ActiveDate()
	if d.Intake, err = r.DailyLogByDate(ctx, models.DateKey(active)); err != nil {
		return d, err
	}
	if d.Profile, err = r.Profile(ctx); err != nil {
		return d, err
	}
	rep, err := insights.BuildReport(ctx, r, insights.PeriodMonth, now, now, insights.ReportOptions{})
	if err != nil {
		return d, err
	}
	d.Stats = rep.Stats

	if models.SameDay(active, now) {
		if d.Missed, err = schedule.CheckMissed(ctx, r, now); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (g *gymSession) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	sub := live.Watch(ctx, g.hub, g.query)
	defer func() { sub.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil

		case snap, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			g.render(snap)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, resubscribe, err := g.handle(ctx, line)
			if err != nil {
				color.New(color.FgRed).Fprintf(g.out, "  %v\n", err)
			}
			if quit {
				return nil
			}
			if resubscribe {
				// session state is not a store change, so start a fresh query
				sub.Close()
				sub = live.Watch(ctx, g.hub, g.query)
			}
		}
	}
}

func (g *gymSession) render(snap live.Snapshot[dashboard]) {
	switch snap.State {
	case live.Pending:
		return
	case live.Failed:
		color.New(color.FgRed).Fprintf(g.out, "  failed to refresh: %v\n", snap.Err)
		return
	}

	d := snap.Value
	fmt.Fprintln(g.out, faint(strings.Repeat("─", 48)))
	renderProgress(g.out, d.Progress)

	if d.Intake != nil || d.Profile.Onboarded() {
		var cal, prot float64
		if d.Intake != nil {
			cal, prot = d.Intake.Calories, d.Intake.Protein
		}
		line := fmt.Sprintf("%.0f kcal, %.0f g protein", cal, prot)
		if d.Profile.Onboarded() {
			line = fmt.Sprintf("%.0f/%d kcal, %.0f/%d g protein",
				cal, d.Profile.DailyCalorieTarget, prot, d.Profile.DailyProteinTarget)
		}
		fmt.Fprintf(g.out, "  %s %s\n", faint("intake"), line)
	}
	fmt.Fprintf(g.out, "  %s %d/%d days (%d%%), %.0f kg volume, %.1f km\n", faint("month "),
		d.Stats.DaysWorkedOut, d.Stats.PotentialDays, d.Stats.AttendanceRate,
		d.Stats.StrengthVolume, d.Stats.CardioDistance)

	if d.Missed != nil && !g.asked {
		g.missed = d.Missed
		color.New(color.FgYellow).Fprintf(g.out, "  You missed %s on %s. Do it now? (yes/no)\n",
			d.Missed.Routine.Name, d.Missed.Date.Format("Monday"))
	}
	fmt.Fprint(g.out, "> ")
}

// handle runs one typed command. resubscribe is set when session state the
// query depends on has changed.
func (g *gymSession) handle(ctx context.Context, line string) (quit, resubscribe bool, err error) {
	fields := splitArgs(line)
	if len(fields) == 0 {
		return false, false, nil
	}
	now := g.now()

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true, false, nil

	case "yes", "y", "no", "n":
		if g.missed == nil {
			return false, false, fmt.Errorf("nothing to answer")
		}
		g.asked = true
		if strings.HasPrefix(strings.ToLower(fields[0]), "y") {
			g.session.Accept(g.missed)
		} else {
			g.session.Dismiss()
			g.session.SetDate(now)
		}
		g.missed = nil
		return false, true, nil

	case "date":
		if len(fields) != 2 {
			return false, false, fmt.Errorf("usage: date <day>")
		}
		day, err := parseDay(fields[1], now)
		if err != nil {
			return false, false, err
		}
		g.session.SetDate(day)
		return false, true, nil

	case "log":
		if len(fields) < 4 {
			return false, false, fmt.Errorf("usage: log <exercise> <weight> <reps>")
		}
		return false, false, g.logSet(ctx, strings.Join(fields[1:len(fields)-2], " "),
			fields[len(fields)-2], fields[len(fields)-1], now)

	case "undo":
		if g.lastSet == 0 {
			return false, false, fmt.Errorf("no set logged in this session")
		}
		if err := g.repo.DeleteSet(ctx, g.lastSet); err != nil {
			return false, false, fmt.Errorf("failed to delete set: %w", err)
		}
		g.lastSet = 0
		return false, false, nil

	case "eat":
		if len(fields) != 3 {
			return false, false, fmt.Errorf("usage: eat <calories> <protein>")
		}
		cal, err1 := strconv.ParseFloat(fields[1], 64)
		prot, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			return false, false, fmt.Errorf("calories and protein must be numbers")
		}
		_, err := storage.LogNutrition(ctx, g.repo, g.session.ActiveDate(), cal, prot)
		return false, false, err

	case "weight":
		if len(fields) != 2 {
			return false, false, fmt.Errorf("usage: weight <kg>")
		}
		kg, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, false, fmt.Errorf("weight must be a number")
		}
		_, err = storage.CheckInWeight(ctx, g.repo, g.session.ActiveDate(), kg)
		return false, false, err
	}
	return false, false, fmt.Errorf("unknown command %q", fields[0])
}

func (g *gymSession) logSet(ctx context.Context, exercise, weightArg, repsArg string, now time.Time) error {
	weight, err := strconv.ParseFloat(weightArg, 64)
	if err != nil {
		return fmt.Errorf("invalid weight: %s", weightArg)
	}
	reps, err := strconv.ParseFloat(repsArg, 64)
	if err != nil {
		return fmt.Errorf("invalid reps: %s", repsArg)
	}
	ex, err := findExercise(ctx, g.repo, exercise)
	if err != nil {
		return err
	}

	at := now
	if day := g.session.ActiveDate(); !models.SameDay(day, now) {
		at = models.BacklogTimestamp(day, now)
	}
	set := models.NewSetLog(ex.ID, weight, reps, at)
	_, pr, err := insights.RecordSet(ctx, g.repo, set)
	if err != nil {
		return fmt.Errorf("failed to log set: %w", err)
	}
	g.lastSet = set.ID
	log.Debug("set logged", "exercise", ex.Name, "id", set.ID)

	if pr.IsRecord {
		primary, _ := ex.Category.Units()
		color.New(color.FgYellow).Fprintf(g.out, "  🏆 New personal record on %s! Previous best %g %s\n",
			ex.Name, pr.Previous, primary)
	}
	return nil
}

// splitArgs splits on spaces, keeping double-quoted runs together.
func splitArgs(line string) []string {
	var out []string
	var cur strings.Builder
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == ' ' && !quoted:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
