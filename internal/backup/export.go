// ABOUTME: Human-readable YAML and Markdown exports of the store.
// ABOUTME: These are for sharing and reading; only the JSON envelope can be restored.
package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/ironlog/internal/insights"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"gopkg.in/yaml.v3"
)

// ExportYAML renders the store with ids resolved to names.
func ExportYAML(ctx context.Context, repo storage.Repository, now time.Time) ([]byte, error) {
	env, err := Export(ctx, repo, now)
	if err != nil {
		return nil, err
	}

	exercises := models.IndexByID(env.Exercises)
	routines := models.IndexByID(env.Routines)

	doc := yamlExport{
		Version:    env.Version,
		ExportedAt: now.Format(time.RFC3339),
		Exercises:  env.Exercises,
		DailyLogs:  env.DailyLogs,
	}
	if p := firstProfile(env.Profile); p != nil {
		doc.Profile = p
	}

	for _, r := range env.Routines {
		yr := yamlRoutine{Name: r.Name}
		for _, el := range r.Elements {
			yr.Elements = append(yr.Elements, yamlElement{
				Exercise: models.ExerciseName(exercises, el.ExerciseID),
				Sets:     el.TargetSets,
				Reps:     el.TargetReps,
				Weight:   el.TargetWeight,
			})
		}
		doc.Routines = append(doc.Routines, yr)
	}

	for _, e := range env.Schedule {
		routine := "Rest"
		if e.RoutineID != nil {
			if r, ok := routines[*e.RoutineID]; ok {
				routine = r.Name
			}
		}
		doc.Schedule = append(doc.Schedule, yamlDay{Day: dayName(e.DayIndex), Routine: routine})
	}

	for _, day := range insights.HistoryByDay(env.Sets, env.Exercises) {
		yd := yamlHistoryDay{Date: day.Date, Volume: day.Volume}
		for _, ex := range day.Exercises {
			for _, s := range ex.Sets {
				yd.Sets = append(yd.Sets, yamlSet{
					Exercise: ex.Name,
					Time:     s.Time().Format("15:04"),
					Weight:   s.Weight,
					Reps:     s.Reps,
					Warmup:   s.IsWarmup,
				})
			}
		}
		doc.History = append(doc.History, yd)
	}

	return yaml.Marshal(doc)
}

type yamlExport struct {
	Version    int                 `yaml:"version"`
	ExportedAt string              `yaml:"exported_at"`
	Profile    *models.UserProfile `yaml:"profile,omitempty"`
	Exercises  []models.Exercise   `yaml:"exercises"`
	Routines   []yamlRoutine       `yaml:"routines,omitempty"`
	Schedule   []yamlDay           `yaml:"schedule"`
	DailyLogs  []models.DailyLog   `yaml:"daily_logs,omitempty"`
	History    []yamlHistoryDay    `yaml:"history,omitempty"`
}

type yamlRoutine struct {
	Name     string        `yaml:"name"`
	Elements []yamlElement `yaml:"elements"`
}

type yamlElement struct {
	Exercise string  `yaml:"exercise"`
	Sets     int     `yaml:"sets"`
	Reps     int     `yaml:"reps"`
	Weight   float64 `yaml:"weight"`
}

type yamlDay struct {
	Day     string `yaml:"day"`
	Routine string `yaml:"routine"`
}

type yamlHistoryDay struct {
	Date   string    `yaml:"date"`
	Volume float64   `yaml:"volume"`
	Sets   []yamlSet `yaml:"sets"`
}

type yamlSet struct {
	Exercise string  `yaml:"exercise"`
	Time     string  `yaml:"time"`
	Weight   float64 `yaml:"weight"`
	Reps     float64 `yaml:"reps"`
	Warmup   bool    `yaml:"warmup,omitempty"`
}

// ExportMarkdown renders training history and nutrition as Markdown tables.
// A non-nil since drops days before it.
func ExportMarkdown(ctx context.Context, repo storage.Repository, since *time.Time, now time.Time) (string, error) {
	env, err := Export(ctx, repo, now)
	if err != nil {
		return "", err
	}

	categories := make(map[int64]models.Category, len(env.Exercises))
	for _, ex := range env.Exercises {
		categories[ex.ID] = ex.Category
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# IronLog Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if p := firstProfile(env.Profile); p != nil {
		sb.WriteString("## Profile\n\n")
		sb.WriteString(fmt.Sprintf("- Name: %s\n", p.Name))
		sb.WriteString(fmt.Sprintf("- Weight: %.1f kg (goal %.1f kg)\n", p.CurrentWeight, p.GoalWeight))
		sb.WriteString(fmt.Sprintf("- Daily targets: %d kcal, %d g protein\n\n", p.DailyCalorieTarget, p.DailyProteinTarget))
	}

	history := insights.HistoryByDay(env.Sets, env.Exercises)
	if len(history) > 0 {
		sb.WriteString("## Training History\n\n")
	}
	for _, day := range history {
		if since != nil && day.Day.Before(models.StartOfDay(*since)) {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s (%d sets, volume %.0f)\n\n", day.Day.Format("Mon 2 Jan 2006"), day.SetCount, day.Volume))
		sb.WriteString("| Time | Exercise | Set | Warmup |\n")
		sb.WriteString("|------|----------|-----|--------|\n")
		for _, ex := range day.Exercises {
			primary, secondary := categories[ex.ExerciseID].Units()
			for _, s := range ex.Sets {
				warmup := ""
				if s.IsWarmup {
					warmup = "yes"
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %g %s x %g %s | %s |\n",
					s.Time().Format("15:04"), ex.Name,
					s.Weight, primary, s.Reps, secondary, warmup))
			}
		}
		sb.WriteString("\n")
	}

	var logs []models.DailyLog
	for _, l := range env.DailyLogs {
		if since != nil && l.Date < models.DateKey(*since) {
			continue
		}
		logs = append(logs, l)
	}
	if len(logs) > 0 {
		sb.WriteString("## Nutrition\n\n")
		sb.WriteString("| Date | Calories | Protein | Weight |\n")
		sb.WriteString("|------|----------|---------|--------|\n")
		for _, l := range logs {
			weight := ""
			if l.LoggedWeight != nil {
				weight = fmt.Sprintf("%.1f kg", *l.LoggedWeight)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f g | %s |\n", l.Date, l.Calories, l.Protein, weight))
		}
	}

	return sb.String(), nil
}

func firstProfile(profiles []models.UserProfile) *models.UserProfile {
	if len(profiles) == 0 {
		return nil
	}
	return &profiles[0]
}

func dayName(i int) string {
	if i < 0 || i >= len(models.DayNames) {
		return fmt.Sprintf("day %d", i)
	}
	return models.DayNames[i]
}
