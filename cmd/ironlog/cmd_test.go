// ABOUTME: Tests for CLI helper functions, command wiring, and the watch session.
// ABOUTME: Store-backed tests use an in-memory Badger repository.
package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/ironlog/internal/live"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"go.uber.org/goleak"
)

func setupRepo(t *testing.T) storage.Repository {
	t.Helper()
	r, err := storage.OpenKV("")
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestParseDay(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 3, 6, 18, 0, 0, 0, time.Local)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is today", input: "", want: "2024-03-06"},
		{name: "today", input: "Today", want: "2024-03-06"},
		{name: "yesterday", input: "yesterday", want: "2024-03-05"},
		{name: "date key", input: "2024-02-29", want: "2024-02-29"},
		{name: "weekday earlier this week", input: "mon", want: "2024-03-04"},
		{name: "weekday is today", input: "wednesday", want: "2024-03-06"},
		{name: "weekday wraps to last week", input: "fri", want: "2024-03-01"},
		{name: "future date", input: "2024-03-07", wantErr: true},
		{name: "bare digit", input: "3", wantErr: true},
		{name: "garbage", input: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDay(tt.input, now)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDay(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q) unexpected error: %v", tt.input, err)
			}
			if models.DateKey(got) != tt.want {
				t.Errorf("parseDay(%q) = %s, want %s", tt.input, models.DateKey(got), tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "no truncation needed", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "truncate long string", input: "Incline Dumbbell Press", maxLen: 10, want: "Incline..."},
		{name: "very short maxLen", input: "hello", maxLen: 3, want: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"hi", 5, "hi   "},
		{"hello", 5, "hello"},
		{"toolong", 3, "toolong"},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"log Squat 100 5", []string{"log", "Squat", "100", "5"}},
		{`log "Bench Press" 60 8`, []string{"log", "Bench Press", "60", "8"}},
		{"  undo  ", []string{"undo"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := splitArgs(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "Sure?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Sure? [y/N]") {
			t.Errorf("prompt not written, got %q", out.String())
		}
	}
}

func TestFormatSet(t *testing.T) {
	s := *models.NewSetLog(1, 5, 27, time.Now()).WithCalories(380)
	if got := formatSet(s, models.CategoryCardio); got != "5 km x 27 min, 380 kcal" {
		t.Errorf("formatSet cardio = %q", got)
	}

	w := models.SetLog{Weight: 40, Reps: 10, IsWarmup: true}
	if got := formatSet(w, models.CategoryStrength); got != "40 kg x 10 reps (warmup)" {
		t.Errorf("formatSet warmup = %q", got)
	}
}

func TestFindExercise(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	byName, err := findExercise(ctx, repo, "bench press")
	if err != nil {
		t.Fatalf("findExercise by name failed: %v", err)
	}
	byID, err := findExercise(ctx, repo, "1")
	if err != nil {
		t.Fatalf("findExercise by id failed: %v", err)
	}
	if byName.ID != byID.ID || byName.Name != "Bench Press" {
		t.Errorf("got %+v and %+v, want the same Bench Press", byName, byID)
	}

	if _, err := findExercise(ctx, repo, "Zercher Squat"); err == nil {
		t.Error("expected error for unknown exercise")
	}
	if _, err := findExercise(ctx, repo, "999"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestParseElement(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	el, err := parseElement(ctx, repo, "Squat:5:5:100")
	if err != nil {
		t.Fatalf("parseElement failed: %v", err)
	}
	if el.ExerciseID != 2 || el.TargetSets != 5 || el.TargetReps != 5 || el.TargetWeight != 100 {
		t.Errorf("parseElement = %+v", el)
	}

	el, err = parseElement(ctx, repo, "Plank:3:60")
	if err != nil {
		t.Fatalf("parseElement without weight failed: %v", err)
	}
	if el.TargetWeight != 0 || el.TargetReps != 60 {
		t.Errorf("parseElement = %+v", el)
	}

	for _, bad := range []string{"Squat:5", "Squat:x:5", "Squat:5:5:heavy", "Nope:3:10", "a:b:c:d:e"} {
		if _, err := parseElement(ctx, repo, bad); err == nil {
			t.Errorf("parseElement(%q) expected error", bad)
		}
	}
}

func TestFormatTarget(t *testing.T) {
	el := models.RoutineElement{TargetSets: 4, TargetReps: 8, TargetWeight: 60}
	if got := formatTarget(el, models.CategoryStrength); got != "4 x 8 reps @ 60 kg" {
		t.Errorf("formatTarget = %q", got)
	}
	el = models.RoutineElement{TargetSets: 3, TargetReps: 60}
	if got := formatTarget(el, models.CategoryIsometric); got != "3 x 60 sec" {
		t.Errorf("formatTarget = %q", got)
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "ironlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "ironlog")
	}
	for _, name := range []string{"backend", "data-dir", "verbose"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"onboard", "profile", "exercise", "routine", "schedule", "log", "sets",
		"nutrition", "weight", "today", "stats", "history", "export", "import",
		"migrate", "reset", "watch", "mcp",
	}
	have := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		have[cmd.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		parent string
		want   []string
	}{
		{"exercise", []string{"add", "list", "edit", "delete"}},
		{"routine", []string{"add", "plan", "list", "delete"}},
		{"schedule", []string{"set"}},
		{"sets", []string{"delete"}},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find([]string{tt.parent})
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", tt.parent, err)
		}
		have := make(map[string]bool)
		for _, sub := range cmd.Commands() {
			have[sub.Name()] = true
		}
		for _, name := range tt.want {
			if !have[name] {
				t.Errorf("%s %s not registered", tt.parent, name)
			}
		}
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		args []string
		flag string
	}{
		{[]string{"log"}, "date"},
		{[]string{"log"}, "warmup"},
		{[]string{"log"}, "calories"},
		{[]string{"stats"}, "exercise"},
		{[]string{"stats"}, "avg"},
		{[]string{"stats"}, "year"},
		{[]string{"export"}, "output"},
		{[]string{"export"}, "since"},
		{[]string{"import"}, "yes"},
		{[]string{"migrate"}, "to"},
		{[]string{"today"}, "recalibrate"},
		{[]string{"routine", "add"}, "item"},
	}
	for _, tt := range tests {
		cmd, _, err := rootCmd.Find(tt.args)
		if err != nil {
			t.Fatalf("Find(%v) failed: %v", tt.args, err)
		}
		if cmd.Flags().Lookup(tt.flag) == nil {
			t.Errorf("%v: expected flag --%s", tt.args, tt.flag)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	for _, arg := range exportCmd.ValidArgs {
		if !want[arg] {
			t.Errorf("unexpected valid arg %q", arg)
		}
		delete(want, arg)
	}
	if len(want) != 0 {
		t.Errorf("missing valid args: %v", want)
	}
}

func TestGymSessionHandle(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)
	var out bytes.Buffer
	g := newGymSession(repo, time.Now(), &out)

	if _, _, err := g.handle(ctx, `log "Bench Press" 60 8`); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if _, _, err := g.handle(ctx, "log Bench Press 65 6"); err != nil {
		t.Fatalf("log with unquoted name failed: %v", err)
	}
	if !strings.Contains(out.String(), "New personal record on Bench Press") {
		t.Errorf("expected PR message, got %q", out.String())
	}
	if n, _ := repo.Count(ctx, storage.Sets); n != 2 {
		t.Fatalf("expected 2 sets, got %d", n)
	}

	if _, _, err := g.handle(ctx, "undo"); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if n, _ := repo.Count(ctx, storage.Sets); n != 1 {
		t.Errorf("expected 1 set after undo, got %d", n)
	}
	if _, _, err := g.handle(ctx, "undo"); err == nil {
		t.Error("expected error on second undo")
	}

	if _, _, err := g.handle(ctx, "eat 2000 140"); err != nil {
		t.Fatalf("eat failed: %v", err)
	}
	l, err := repo.DailyLogByDate(ctx, models.DateKey(time.Now()))
	if err != nil || l == nil || l.Calories != 2000 {
		t.Errorf("expected daily log with 2000 kcal, got %+v (%v)", l, err)
	}

	quit, _, err := g.handle(ctx, "quit")
	if err != nil || !quit {
		t.Errorf("quit = %v, %v", quit, err)
	}

	_, resub, err := g.handle(ctx, "date yesterday")
	if err != nil || !resub {
		t.Errorf("date should resubscribe, got %v, %v", resub, err)
	}

	for _, bad := range []string{"log Squat heavy 5", "eat lots", "weight", "dance", "yes"} {
		if _, _, err := g.handle(ctx, bad); err == nil {
			t.Errorf("handle(%q) expected error", bad)
		}
	}
}

func TestGymSessionRedrawsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "gym.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer repo.Close()

	var out bytes.Buffer
	g := newGymSession(repo, time.Now(), &out)
	sub := live.Watch(ctx, g.hub, g.query)

	next := func() live.Snapshot[dashboard] {
		t.Helper()
		select {
		case snap := <-sub.Updates():
			return snap
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for dashboard")
			return live.Snapshot[dashboard]{}
		}
	}

	first := next()
	if first.State != live.Ready {
		t.Fatalf("first snapshot state = %s, err %v", first.State, first.Err)
	}
	if len(first.Value.Progress.Sets) != 0 {
		t.Fatalf("expected no sets, got %d", len(first.Value.Progress.Sets))
	}

	if _, _, err := g.handle(ctx, "log Squat 100 5"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	second := next()
	if second.State != live.Ready || len(second.Value.Progress.Sets) != 1 {
		t.Fatalf("expected redraw with 1 set, got %s with %+v", second.State, second.Value.Progress)
	}
	if second.Value.Stats.Sets != 1 {
		t.Errorf("month stats sets = %d, want 1", second.Value.Stats.Sets)
	}

	g.render(second)
	if !strings.Contains(out.String(), "Squat") {
		t.Errorf("render output missing Squat: %q", out.String())
	}

	sub.Close()
	<-sub.Done()
}
