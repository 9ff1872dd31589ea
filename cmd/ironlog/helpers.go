// ABOUTME: Shared helpers for ironlog CLI commands.
// ABOUTME: Date parsing, name-or-id lookups, confirmation prompts, and column padding.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
)

var faint = color.New(color.Faint).SprintFunc()

// parseDay accepts today, yesterday, YYYY-MM-DD, or a weekday name for the
// most recent such day (today included).
func parseDay(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	if t, err := models.ParseDateKey(s); err == nil {
		if t.After(now) {
			return time.Time{}, fmt.Errorf("date %s is in the future", s)
		}
		return t, nil
	}
	if idx, err := models.ParseDay(s); err == nil && len(s) >= 3 {
		back := (int(now.Weekday()) - idx + 7) % 7
		return now.AddDate(0, 0, -back), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD, today, yesterday, or a weekday)", s)
}

// findExercise resolves an exercise by numeric id or case-insensitive name.
func findExercise(ctx context.Context, r storage.Reader, arg string) (*models.Exercise, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		ex, err := r.GetExercise(ctx, id)
		if err != nil {
			return nil, err
		}
		if ex == nil {
			return nil, fmt.Errorf("exercise not found: %s", arg)
		}
		return ex, nil
	}

	exercises, err := r.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		if strings.EqualFold(exercises[i].Name, strings.TrimSpace(arg)) {
			return &exercises[i], nil
		}
	}
	return nil, fmt.Errorf("exercise not found: %s", arg)
}

// findRoutine resolves a routine by numeric id or case-insensitive name.
func findRoutine(ctx context.Context, r storage.Reader, arg string) (*models.Routine, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		rt, err := r.GetRoutine(ctx, id)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			return nil, fmt.Errorf("routine not found: %s", arg)
		}
		return rt, nil
	}

	routines, err := r.ListRoutines(ctx)
	if err != nil {
		return nil, err
	}
	for i := range routines {
		if strings.EqualFold(routines[i].Name, strings.TrimSpace(arg)) {
			return &routines[i], nil
		}
	}
	return nil, fmt.Errorf("routine not found: %s", arg)
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything other than y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func formatSet(s models.SetLog, category models.Category) string {
	primary, secondary := category.Units()
	out := fmt.Sprintf("%g %s x %g %s", s.Weight, primary, s.Reps, secondary)
	if s.Calories != nil {
		out += fmt.Sprintf(", %g kcal", *s.Calories)
	}
	if s.IsWarmup {
		out += " (warmup)"
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
