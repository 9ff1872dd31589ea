// ABOUTME: MCP tools for today's plan, statistics, history, and backups.
// ABOUTME: Uses the schedule resolver, the metrics engine, and the backup codec.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/ironlog/internal/backup"
	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerInsightTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "today",
		Description: "Get the active routine and progress for a day, plus any missed workout from yesterday",
	}, s.handleToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recalibrate",
		Description: "Accept or dismiss yesterday's missed workout; accepting switches logging to that day",
	}, s.handleRecalibrate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stats",
		Description: "Attendance, volume, cardio distance, nutrition wins, and optional plateau and trend for an exercise",
	}, s.handleStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "history",
		Description: "Training history grouped by day, newest first",
	}, s.handleHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "last_set",
		Description: "Get the most recent set ever logged for an exercise",
	}, s.handleLastSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_backup",
		Description: "Export every collection as a JSON backup document",
	}, s.handleExportBackup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_backup",
		Description: "Replace all data with a JSON backup document",
	}, s.handleImportBackup)
}

type todayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day to view (YYYY-MM-DD), defaults to the session's day"`
}

type todayOutput struct {
	Date     string                `json:"date"`
	Routine  string                `json:"routine"`
	Progress *schedule.DayProgress `json:"progress"`
	Missed   *missedOutput         `json:"missed,omitempty"`
	Override bool                  `json:"override"`
}

type missedOutput struct {
	Date    string `json:"date"`
	Routine string `json:"routine"`
}

type recalibrateInput struct {
	Accept bool `json:"accept" jsonschema:"true to log yesterday's missed routine now, false to dismiss"`
}

type statsInput struct {
	Period      string `json:"period,omitempty" jsonschema:"month (default) or year"`
	Date        string `json:"date,omitempty" jsonschema:"Any day inside the period (YYYY-MM-DD), defaults to today"`
	ExerciseID  int64  `json:"exercise_id,omitempty" jsonschema:"Exercise for plateau and trend analysis"`
	Aggregation string `json:"aggregation,omitempty" jsonschema:"Trend value: peak (default) or average"`
}

type statsOutput struct {
	*insights.Report
	VolumeChange     *float64 `json:"volumeChange,omitempty"`
	AttendanceChange *float64 `json:"attendanceChange,omitempty"`
	DistanceChange   *float64 `json:"distanceChange,omitempty"`
}

type historyInput struct {
	Days int `json:"days,omitempty" jsonschema:"Number of training days to return (default 7)"`
}

type exerciseInput struct {
	ExerciseID int64 `json:"exercise_id" jsonschema:"Exercise ID"`
}

type importInput struct {
	Data    string `json:"data" jsonschema:"The backup JSON document"`
	Confirm bool   `json:"confirm" jsonschema:"Must be true to overwrite the current data"`
}

func (s *Server) handleToday(ctx context.Context, req *mcp.CallToolRequest, input todayInput) (*mcp.CallToolResult, any, error) {
	now := s.now()
	if input.Date != "" {
		day, err := parseDay(input.Date, now)
		if err != nil {
			return nil, nil, err
		}
		s.session.SetDate(day)
	}

	var out todayOutput
	err := s.repo.View(ctx, func(r storage.Reader) error {
		progress, err := s.session.Progress(ctx, r, now)
		if err != nil {
			return err
		}
		out.Progress = progress
		out.Date = progress.Date
		out.Routine = "Free training"
		if progress.Routine != nil {
			out.Routine = progress.Routine.Name
		}
		if _, date, ok := s.session.Override(); ok && date == progress.Date {
			out.Override = true
		}

		if models.SameDay(s.session.ActiveDate(), now) {
			missed, err := schedule.CheckMissed(ctx, r, now)
			if err != nil {
				return err
			}
			if missed != nil {
				out.Missed = &missedOutput{Date: models.DateKey(missed.Date), Routine: missed.Routine.Name}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve today: %w", err)
	}
	return jsonResult(out)
}

func (s *Server) handleRecalibrate(ctx context.Context, req *mcp.CallToolRequest, input recalibrateInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Accept {
		s.session.Dismiss()
		s.session.SetDate(s.now())
		return nil, simpleOutput{Message: "Dismissed. Logging to today."}, nil
	}

	missed, err := schedule.CheckMissed(ctx, s.repo, s.now())
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to check missed workout: %w", err)
	}
	if missed == nil {
		return nil, simpleOutput{Message: "No missed workout yesterday."}, nil
	}
	s.session.Accept(missed)
	return nil, simpleOutput{Message: fmt.Sprintf("Logging %s for %s. Sets will be backdated.",
		missed.Routine.Name, models.DateKey(missed.Date))}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input statsInput) (*mcp.CallToolResult, any, error) {
	now := s.now()
	at, err := parseDay(input.Date, now)
	if err != nil {
		return nil, nil, err
	}

	period := insights.PeriodMonth
	switch strings.ToLower(input.Period) {
	case "", "month":
	case "year":
		period = insights.PeriodYear
	default:
		return nil, nil, fmt.Errorf("unknown period %q: use month or year", input.Period)
	}

	opts := insights.ReportOptions{ExerciseID: input.ExerciseID, Aggregation: insights.AggregatePeak}
	switch strings.ToLower(input.Aggregation) {
	case "", "peak":
	case "average", "avg":
		opts.Aggregation = insights.AggregateAverage
	default:
		return nil, nil, fmt.Errorf("unknown aggregation %q: use peak or average", input.Aggregation)
	}

	var rep *insights.Report
	err = s.repo.View(ctx, func(r storage.Reader) error {
		var err error
		rep, err = insights.BuildReport(ctx, r, period, at, now, opts)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build stats: %w", err)
	}

	out := statsOutput{Report: rep}
	if d, ok := rep.VolumeDelta(); ok {
		out.VolumeChange = &d
	}
	if d, ok := rep.AttendanceDelta(); ok {
		out.AttendanceChange = &d
	}
	if d, ok := rep.DistanceDelta(); ok {
		out.DistanceChange = &d
	}
	return jsonResult(out)
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, any, error) {
	if input.Days <= 0 {
		input.Days = 7
	}

	var days []insights.DayHistory
	err := s.repo.View(ctx, func(r storage.Reader) error {
		sets, err := r.ListSets(ctx, storage.Descending)
		if err != nil {
			return err
		}
		exercises, err := r.ListExercises(ctx)
		if err != nil {
			return err
		}
		days = insights.HistoryByDay(sets, exercises)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load history: %w", err)
	}

	if len(days) > input.Days {
		days = days[:input.Days]
	}
	if len(days) == 0 {
		return jsonResult(map[string]string{"message": "No training logged yet."})
	}
	return jsonResult(days)
}

func (s *Server) handleLastSet(ctx context.Context, req *mcp.CallToolRequest, input exerciseInput) (*mcp.CallToolResult, any, error) {
	sets, err := s.repo.SetsForExercise(ctx, input.ExerciseID, storage.Descending)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sets: %w", err)
	}
	last := insights.LastSet(sets, input.ExerciseID)
	if last == nil {
		return jsonResult(map[string]string{"message": "No previous sets for this exercise."})
	}
	return jsonResult(last)
}

func (s *Server) handleExportBackup(ctx context.Context, req *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	now := s.now()
	data, err := backup.ExportJSON(ctx, s.repo, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to export backup: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Filename: " + backup.Filename(s.appName, now)},
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func (s *Server) handleImportBackup(ctx context.Context, req *mcp.CallToolRequest, input importInput) (*mcp.CallToolResult, simpleOutput, error) {
	env, err := backup.Import(ctx, s.repo, []byte(input.Data), func(time.Time) bool { return input.Confirm })
	switch {
	case errors.Is(err, backup.ErrDeclined):
		return nil, simpleOutput{Message: fmt.Sprintf("Found backup from %s. Call again with confirm=true to overwrite current data.",
			env.Time().Format("2006-01-02 15:04"))}, nil
	case err != nil:
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Restored backup from %s: %d exercises, %d routines, %d sets.",
		env.Time().Format("2006-01-02 15:04"), len(env.Exercises), len(env.Routines), len(env.Sets))}, nil
}
