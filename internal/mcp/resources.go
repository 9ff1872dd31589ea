// ABOUTME: MCP resource implementations for the ironlog store.
// ABOUTME: Provides ironlog://today, ironlog://week, and ironlog://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/schedule"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// ironlog://today - routine, progress and intake for the current day
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "ironlog://today",
		Name:        "Today's Training",
		Description: "Today's routine, logged sets, completion, and nutrition",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// ironlog://week - routine per day of the week
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "ironlog://week",
		Name:        "Weekly Schedule",
		Description: "The routine planned for each day, Sunday through Saturday",
		MIMEType:    "application/json",
	}, s.handleWeekResource)

	// ironlog://summary - month-to-date dashboard
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "ironlog://summary",
		Name:        "Training Summary",
		Description: "Profile targets plus this month's attendance, volume, distance, and nutrition wins",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()
	result := map[string]any{"date": models.DateKey(now)}

	err := s.repo.View(ctx, func(r storage.Reader) error {
		routine, err := schedule.ActiveRoutine(ctx, r, now)
		if err != nil {
			return err
		}
		progress, err := schedule.LoadProgress(ctx, r, now, routine)
		if err != nil {
			return err
		}
		intake, err := r.DailyLogByDate(ctx, models.DateKey(now))
		if err != nil {
			return err
		}
		missed, err := schedule.CheckMissed(ctx, r, now)
		if err != nil {
			return err
		}

		result["progress"] = progress
		result["nutrition"] = intake
		if missed != nil {
			result["missed"] = map[string]string{
				"date":    models.DateKey(missed.Date),
				"routine": missed.Routine.Name,
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load today: %w", err)
	}
	return jsonResource("ironlog://today", result)
}

func (s *Server) handleWeekResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	week, err := schedule.Week(ctx, s.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	days := make([]map[string]any, 0, len(week))
	for i, r := range week {
		day := map[string]any{"day": models.DayNames[i], "routine": "Rest"}
		if r != nil {
			day["routine"] = r.Name
			day["elements"] = r.Elements
		}
		days = append(days, day)
	}
	return jsonResource("ironlog://week", days)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := s.now()

	var (
		profile *models.UserProfile
		rep     *insights.Report
	)
	err := s.repo.View(ctx, func(r storage.Reader) error {
		var err error
		if profile, err = r.Profile(ctx); err != nil {
			return err
		}
		rep, err = insights.BuildReport(ctx, r, insights.PeriodMonth, now, now, insights.ReportOptions{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	result := map[string]any{
		"generated_at": now.Format(time.RFC3339),
		"profile":      profile,
		"month":        rep.Stats,
		"last_month":   rep.Prior,
		"nutrition":    rep.Nutrition,
	}
	if d, ok := rep.VolumeDelta(); ok {
		result["volume_change_pct"] = d
	}
	if d, ok := rep.AttendanceDelta(); ok {
		result["attendance_change_pct"] = d
	}
	return jsonResource("ironlog://summary", result)
}
