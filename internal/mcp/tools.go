// ABOUTME: MCP tool implementations for the ironlog store.
// ABOUTME: Provides CRUD for profile, exercises, routines, schedule, sets, and daily logs.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the user profile with daily calorie and protein targets",
	}, s.handleGetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "onboard",
		Description: "Create the user profile and compute nutrition targets (replaces any existing profile)",
	}, s.handleOnboard)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List the exercise library",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add a custom exercise (strength, cardio, or isometric)",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_exercise",
		Description: "Change an exercise's name, target muscle, or category",
	}, s.handleUpdateExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise by ID (logged sets are kept)",
	}, s.handleDeleteExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_routines",
		Description: "List routines with their exercise targets",
	}, s.handleListRoutines)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_routine",
		Description: "Create a routine from a list of exercise targets",
	}, s.handleCreateRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_routine_from_plan",
		Description: "Create a routine from a starter plan (loss, strength, hypertrophy, endurance)",
	}, s.handleCreateRoutineFromPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_routine",
		Description: "Delete a routine by ID (days using it become rest days)",
	}, s.handleDeleteRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_schedule",
		Description: "Get the weekly schedule, Sunday through Saturday",
	}, s.handleGetSchedule)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "assign_routine",
		Description: "Assign a routine to a day of the week, or make it a rest day",
	}, s.handleAssignRoutine)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a set and report whether it is a new personal record",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sets",
		Description: "List sets for a day or an exercise, newest first",
	}, s.handleListSets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_set",
		Description: "Delete a logged set by ID",
	}, s.handleDeleteSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_nutrition",
		Description: "Record a day's calorie and protein totals",
	}, s.handleLogNutrition)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "check_in_weight",
		Description: "Record body weight for a day and update the profile",
	}, s.handleCheckInWeight)

	s.registerInsightTools()
}

// Tool input/output types

type emptyInput struct{}

type onboardInput struct {
	Name       string  `json:"name" jsonschema:"Display name"`
	Gender     string  `json:"gender" jsonschema:"male or female"`
	BirthYear  int     `json:"birth_year" jsonschema:"Year of birth"`
	Height     float64 `json:"height" jsonschema:"Height in cm"`
	Weight     float64 `json:"weight" jsonschema:"Current weight in kg"`
	GoalWeight float64 `json:"goal_weight" jsonschema:"Goal weight in kg"`
}

type profileOutput struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Goal               string  `json:"goal"`
	CurrentWeight      float64 `json:"current_weight"`
	DailyCalorieTarget int     `json:"daily_calorie_target"`
	DailyProteinTarget int     `json:"daily_protein_target"`
	Message            string  `json:"message"`
}

type addExerciseInput struct {
	Name         string `json:"name" jsonschema:"Exercise name"`
	TargetMuscle string `json:"target_muscle,omitempty" jsonschema:"Muscle group trained"`
	Category     string `json:"category" jsonschema:"strength, cardio, or isometric"`
}

type updateExerciseInput struct {
	ID           int64  `json:"id" jsonschema:"Exercise ID"`
	Name         string `json:"name,omitempty" jsonschema:"New name"`
	TargetMuscle string `json:"target_muscle,omitempty" jsonschema:"New target muscle"`
	Category     string `json:"category,omitempty" jsonschema:"New category"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"Record ID"`
}

type idOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type elementInput struct {
	ExerciseID int64   `json:"exercise_id" jsonschema:"Exercise ID"`
	Sets       int     `json:"sets" jsonschema:"Target sets"`
	Reps       int     `json:"reps" jsonschema:"Target reps, or minutes for cardio"`
	Weight     float64 `json:"weight,omitempty" jsonschema:"Target weight in kg, or distance in km for cardio"`
}

type createRoutineInput struct {
	Name     string         `json:"name" jsonschema:"Routine name"`
	Elements []elementInput `json:"elements" jsonschema:"Exercises with their targets, in order"`
}

type planInput struct {
	Plan string `json:"plan" jsonschema:"Starter plan name"`
	Name string `json:"name,omitempty" jsonschema:"Routine name, defaults to the plan name"`
}

type assignInput struct {
	Day       string `json:"day" jsonschema:"Day of week (sun..sat or 0-6)"`
	RoutineID int64  `json:"routine_id,omitempty" jsonschema:"Routine ID, omit or 0 for a rest day"`
}

type scheduleDay struct {
	DayIndex  int    `json:"day_index"`
	Day       string `json:"day"`
	RoutineID *int64 `json:"routine_id"`
	Routine   string `json:"routine"`
}

type logSetInput struct {
	ExerciseID int64   `json:"exercise_id" jsonschema:"Exercise ID"`
	Weight     float64 `json:"weight" jsonschema:"Weight in kg, or distance in km for cardio"`
	Reps       float64 `json:"reps" jsonschema:"Reps, minutes for cardio, or seconds for isometric"`
	Calories   float64 `json:"calories,omitempty" jsonschema:"Calories burned"`
	Warmup     bool    `json:"warmup,omitempty" jsonschema:"Mark as a warmup set"`
	Date       string  `json:"date,omitempty" jsonschema:"Day to log to (YYYY-MM-DD), defaults to today"`
}

type logSetOutput struct {
	ID             int64   `json:"id"`
	Exercise       string  `json:"exercise"`
	Timestamp      int64   `json:"timestamp"`
	PersonalRecord bool    `json:"personal_record"`
	PreviousBest   float64 `json:"previous_best"`
	Message        string  `json:"message"`
}

type listSetsInput struct {
	Date       string `json:"date,omitempty" jsonschema:"Day to list (YYYY-MM-DD)"`
	ExerciseID int64  `json:"exercise_id,omitempty" jsonschema:"Filter by exercise ID"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type nutritionInput struct {
	Date     string  `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
	Calories float64 `json:"calories" jsonschema:"Total calories eaten"`
	Protein  float64 `json:"protein" jsonschema:"Total protein in grams"`
}

type weightInput struct {
	Date   string  `json:"date,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
	Weight float64 `json:"weight" jsonschema:"Body weight in kg"`
}

type dailyLogOutput struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Weight   float64 `json:"weight,omitempty"`
	Message  string  `json:"message"`
}

// jsonResult returns v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil, nil
}

// parseDay accepts "", "today", "yesterday", YYYY-MM-DD or RFC3339.
func parseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	if t, err := models.ParseDateKey(s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

// Tool handlers

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	p, err := s.repo.Profile(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return jsonResult(map[string]any{"onboarded": false, "message": "No profile yet. Use onboard first."})
	}
	return jsonResult(p)
}

func (s *Server) handleOnboard(ctx context.Context, req *mcp.CallToolRequest, input onboardInput) (*mcp.CallToolResult, profileOutput, error) {
	p := models.NewProfile(models.OnboardingInput{
		Name:       input.Name,
		Gender:     models.Gender(strings.ToLower(input.Gender)),
		BirthYear:  input.BirthYear,
		Height:     input.Height,
		Weight:     input.Weight,
		GoalWeight: input.GoalWeight,
	}, s.now())

	id, err := s.repo.SaveProfile(ctx, p)
	if err != nil {
		return nil, profileOutput{}, fmt.Errorf("failed to save profile: %w", err)
	}

	return nil, profileOutput{
		ID:                 id,
		Name:               p.Name,
		Goal:               string(p.Goal),
		CurrentWeight:      p.CurrentWeight,
		DailyCalorieTarget: p.DailyCalorieTarget,
		DailyProteinTarget: p.DailyProteinTarget,
		Message: fmt.Sprintf("Welcome %s: goal %s, %d kcal and %dg protein per day",
			p.Name, p.Goal, p.DailyCalorieTarget, p.DailyProteinTarget),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	exercises, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return jsonResult(exercises)
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, idOutput, error) {
	ex := models.NewExercise(input.Name, input.TargetMuscle, models.Category(strings.ToLower(input.Category)))
	id, err := s.repo.AddExercise(ctx, ex)
	if err != nil {
		return nil, idOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Added exercise: %s (ID: %d)", ex.Name, id)}, nil
}

func (s *Server) handleUpdateExercise(ctx context.Context, req *mcp.CallToolRequest, input updateExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	var p models.ExercisePatch
	if input.Name != "" {
		p.Name = &input.Name
	}
	if input.TargetMuscle != "" {
		p.TargetMuscle = &input.TargetMuscle
	}
	if input.Category != "" {
		c := models.Category(strings.ToLower(input.Category))
		p.Category = &c
	}
	if err := s.repo.UpdateExercise(ctx, input.ID, p); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update exercise: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Updated exercise %d", input.ID)}, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteExercise(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted exercise: %d", input.ID)}, nil
}

func (s *Server) handleListRoutines(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	routines, err := s.repo.ListRoutines(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}
	return jsonResult(routines)
}

func (s *Server) handleCreateRoutine(ctx context.Context, req *mcp.CallToolRequest, input createRoutineInput) (*mcp.CallToolResult, idOutput, error) {
	elements := make([]models.RoutineElement, 0, len(input.Elements))
	for _, el := range input.Elements {
		elements = append(elements, models.RoutineElement{
			ExerciseID:   el.ExerciseID,
			TargetSets:   el.Sets,
			TargetReps:   el.Reps,
			TargetWeight: el.Weight,
		})
	}
	r := models.NewRoutine(input.Name, elements...)
	id, err := s.repo.AddRoutine(ctx, r)
	if err != nil {
		return nil, idOutput{}, fmt.Errorf("failed to create routine: %w", err)
	}
	return nil, idOutput{ID: id, Message: fmt.Sprintf("Created routine: %s (ID: %d)", r.Name, id)}, nil
}

func (s *Server) handleCreateRoutineFromPlan(ctx context.Context, req *mcp.CallToolRequest, input planInput) (*mcp.CallToolResult, idOutput, error) {
	r, err := storage.CreateRoutineFromPlan(ctx, s.repo, input.Plan, input.Name)
	if err != nil {
		return nil, idOutput{}, fmt.Errorf("failed to create routine: %w", err)
	}
	return nil, idOutput{ID: r.ID, Message: fmt.Sprintf("Created routine: %s with %d exercises (ID: %d)", r.Name, len(r.Elements), r.ID)}, nil
}

func (s *Server) handleDeleteRoutine(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteRoutine(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete routine: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted routine: %d", input.ID)}, nil
}

func (s *Server) handleGetSchedule(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	entries, err := s.repo.ListSchedule(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	routines, err := s.repo.ListRoutines(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list routines: %w", err)
	}
	byID := models.IndexByID(routines)

	days := make([]scheduleDay, 0, len(entries))
	for _, e := range entries {
		d := scheduleDay{DayIndex: e.DayIndex, Day: models.DayNames[e.DayIndex], RoutineID: e.RoutineID, Routine: "Rest"}
		if e.RoutineID != nil {
			if r, ok := byID[*e.RoutineID]; ok {
				d.Routine = r.Name
			}
		}
		days = append(days, d)
	}
	return jsonResult(days)
}

func (s *Server) handleAssignRoutine(ctx context.Context, req *mcp.CallToolRequest, input assignInput) (*mcp.CallToolResult, simpleOutput, error) {
	day, err := models.ParseDay(input.Day)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	var routineID *int64
	label := "Rest"
	if input.RoutineID != 0 {
		r, err := s.repo.GetRoutine(ctx, input.RoutineID)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("failed to load routine: %w", err)
		}
		if r == nil {
			return nil, simpleOutput{}, fmt.Errorf("routine not found: %d", input.RoutineID)
		}
		routineID = &r.ID
		label = r.Name
	}

	if err := s.repo.AssignRoutine(ctx, day, routineID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to assign routine: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("%s: %s", models.DayNames[day], label)}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, logSetOutput, error) {
	now := s.now()
	// without a date, sets go to the session's day (yesterday after recalibrating)
	day := s.session.ActiveDate()
	if input.Date != "" {
		var err error
		if day, err = parseDay(input.Date, now); err != nil {
			return nil, logSetOutput{}, err
		}
	}
	at := now
	if !models.SameDay(day, now) {
		at = models.BacklogTimestamp(day, now)
	}

	set := models.NewSetLog(input.ExerciseID, input.Weight, input.Reps, at)
	set.IsWarmup = input.Warmup
	if input.Calories > 0 {
		set.WithCalories(input.Calories)
	}

	ex, pr, err := insights.RecordSet(ctx, s.repo, set)
	if err != nil {
		return nil, logSetOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	primary, secondary := ex.Category.Units()
	msg := fmt.Sprintf("Logged %s: %g %s x %g %s", ex.Name, set.Weight, primary, set.Reps, secondary)
	if pr.IsRecord {
		msg += fmt.Sprintf(" (new personal record, previous best %g %s)", pr.Previous, primary)
	}
	return nil, logSetOutput{
		ID:             set.ID,
		Exercise:       ex.Name,
		Timestamp:      set.Timestamp,
		PersonalRecord: pr.IsRecord,
		PreviousBest:   pr.Previous,
		Message:        msg,
	}, nil
}

func (s *Server) handleListSets(ctx context.Context, req *mcp.CallToolRequest, input listSetsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	var sets []models.SetLog
	var err error
	switch {
	case input.Date != "":
		day, perr := parseDay(input.Date, s.now())
		if perr != nil {
			return nil, nil, perr
		}
		start, end := models.DayBounds(day)
		sets, err = s.repo.SetsBetween(ctx, start, end)
		for i, j := 0, len(sets)-1; i < j; i, j = i+1, j-1 {
			sets[i], sets[j] = sets[j], sets[i]
		}
	case input.ExerciseID != 0:
		sets, err = s.repo.SetsForExercise(ctx, input.ExerciseID, storage.Descending)
	default:
		sets, err = s.repo.ListSets(ctx, storage.Descending)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sets: %w", err)
	}

	if input.Date != "" && input.ExerciseID != 0 {
		filtered := sets[:0]
		for _, set := range sets {
			if set.ExerciseID == input.ExerciseID {
				filtered = append(filtered, set)
			}
		}
		sets = filtered
	}
	if len(sets) > input.Limit {
		sets = sets[:input.Limit]
	}
	if len(sets) == 0 {
		return jsonResult(map[string]string{"message": "No sets found."})
	}
	return jsonResult(sets)
}

func (s *Server) handleDeleteSet(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteSet(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete set: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted set: %d", input.ID)}, nil
}

func (s *Server) handleLogNutrition(ctx context.Context, req *mcp.CallToolRequest, input nutritionInput) (*mcp.CallToolResult, dailyLogOutput, error) {
	day, err := parseDay(input.Date, s.now())
	if err != nil {
		return nil, dailyLogOutput{}, err
	}
	l, err := storage.LogNutrition(ctx, s.repo, day, input.Calories, input.Protein)
	if err != nil {
		return nil, dailyLogOutput{}, fmt.Errorf("failed to log nutrition: %w", err)
	}
	return nil, dailyLogOutput{
		Date:     l.Date,
		Calories: l.Calories,
		Protein:  l.Protein,
		Message:  fmt.Sprintf("Logged %s: %.0f kcal, %.0fg protein", l.Date, l.Calories, l.Protein),
	}, nil
}

func (s *Server) handleCheckInWeight(ctx context.Context, req *mcp.CallToolRequest, input weightInput) (*mcp.CallToolResult, dailyLogOutput, error) {
	day, err := parseDay(input.Date, s.now())
	if err != nil {
		return nil, dailyLogOutput{}, err
	}
	l, err := storage.CheckInWeight(ctx, s.repo, day, input.Weight)
	if err != nil {
		return nil, dailyLogOutput{}, fmt.Errorf("failed to check in weight: %w", err)
	}
	return nil, dailyLogOutput{
		Date:     l.Date,
		Calories: l.Calories,
		Protein:  l.Protein,
		Weight:   input.Weight,
		Message:  fmt.Sprintf("Checked in %.1f kg on %s", input.Weight, l.Date),
	}, nil
}
