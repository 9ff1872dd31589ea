// ABOUTME: CLI commands for routines and starter plans.
// ABOUTME: Elements are given as exercise:sets:reps[:weight] and resolved by name or id.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var routineItems []string

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"routines"},
	Short:   "Manage workout routines",
	Long: `Manage workout routines.

A routine is an ordered list of exercises, each with a target number of
sets, reps (seconds for isometric, minutes for cardio) and weight (km for
cardio).

STARTER PLANS:

  loss, strength, hypertrophy, endurance

EXAMPLES:

  ironlog routine add "Push" --item "Bench Press:4:8:60" --item "Overhead Press:3:10:35"
  ironlog routine plan hypertrophy "Upper Body"
  ironlog routine list
  ironlog routine delete Push`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		elements := make([]models.RoutineElement, 0, len(routineItems))
		for _, item := range routineItems {
			el, err := parseElement(ctx, repo, item)
			if err != nil {
				return err
			}
			elements = append(elements, el)
		}

		r := models.NewRoutine(args[0], elements...)
		id, err := repo.AddRoutine(ctx, r)
		if err != nil {
			return fmt.Errorf("failed to create routine: %w", err)
		}
		color.Green("✓ Created routine %s", r.Name)
		fmt.Printf("  %s %d exercises\n", faint(fmt.Sprintf("#%d", id)), len(r.Elements))
		return nil
	},
}

var routinePlanCmd = &cobra.Command{
	Use:   "plan <plan> [name]",
	Short: "Create a routine from a starter plan",
	Long: `Create a routine from a starter plan. Exercises the plan needs that are not
yet in your library are added.

PLANS:

  ` + strings.Join(storage.PlanNames(), ", "),
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: storage.PlanNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		r, err := storage.CreateRoutineFromPlan(cmd.Context(), repo, args[0], name)
		if err != nil {
			return fmt.Errorf("failed to create routine: %w", err)
		}
		color.Green("✓ Created routine %s", r.Name)
		fmt.Printf("  %s %d exercises\n", faint(fmt.Sprintf("#%d", r.ID)), len(r.Elements))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List routines with their exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		routines, err := repo.ListRoutines(ctx)
		if err != nil {
			return fmt.Errorf("failed to list routines: %w", err)
		}
		if len(routines) == 0 {
			fmt.Println("No routines yet. Try 'ironlog routine plan strength'.")
			return nil
		}
		exercises, err := repo.ListExercises(ctx)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		byID := models.IndexByID(exercises)

		for _, r := range routines {
			fmt.Printf("%s %s\n", faint(fmt.Sprintf("#%d", r.ID)), color.New(color.Bold).Sprint(r.Name))
			for _, el := range r.Elements {
				ex, ok := byID[el.ExerciseID]
				if !ok {
					continue
				}
				fmt.Printf("    %s  %s\n", padRight(truncate(ex.Name, 28), 28), formatTarget(el, ex.Category))
			}
		}
		return nil
	},
}

var routineDeleteCmd = &cobra.Command{
	Use:     "delete <routine>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a routine",
	Long:    `Delete a routine by name or id. Days scheduled with it become rest days.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := findRoutine(cmd.Context(), repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteRoutine(cmd.Context(), r.ID); err != nil {
			return fmt.Errorf("failed to delete routine: %w", err)
		}
		color.Yellow("✗ Deleted %s", r.Name)
		return nil
	},
}

// parseElement reads exercise:sets:reps[:weight].
func parseElement(ctx context.Context, r storage.Reader, s string) (models.RoutineElement, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return models.RoutineElement{}, fmt.Errorf("invalid item %q (use exercise:sets:reps[:weight])", s)
	}
	ex, err := findExercise(ctx, r, parts[0])
	if err != nil {
		return models.RoutineElement{}, err
	}
	sets, err := strconv.Atoi(parts[1])
	if err != nil {
		return models.RoutineElement{}, fmt.Errorf("invalid set count in %q", s)
	}
	reps, err := strconv.Atoi(parts[2])
	if err != nil {
		return models.RoutineElement{}, fmt.Errorf("invalid reps in %q", s)
	}
	el := models.RoutineElement{ExerciseID: ex.ID, TargetSets: sets, TargetReps: reps}
	if len(parts) == 4 {
		if el.TargetWeight, err = strconv.ParseFloat(parts[3], 64); err != nil {
			return models.RoutineElement{}, fmt.Errorf("invalid weight in %q", s)
		}
	}
	return el, nil
}

func formatTarget(el models.RoutineElement, category models.Category) string {
	primary, secondary := category.Units()
	out := fmt.Sprintf("%d x %d %s", el.TargetSets, el.TargetReps, secondary)
	if el.TargetWeight > 0 {
		out += fmt.Sprintf(" @ %g %s", el.TargetWeight, primary)
	}
	return out
}

func init() {
	routineAddCmd.Flags().StringArrayVarP(&routineItems, "item", "i", nil, "exercise:sets:reps[:weight] (repeatable)")

	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routinePlanCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineDeleteCmd)
	rootCmd.AddCommand(routineCmd)
}
