// ABOUTME: CLI commands for the exercise library.
// ABOUTME: Add, list, edit, and delete exercises; deletes never touch logged sets.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	exerciseMuscle   string
	exerciseCategory string

	editName     string
	editMuscle   string
	editCategory string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "exercises"},
	Short:   "Manage the exercise library",
	Long: `Manage the exercise library.

Categories:

  strength    weight (kg) x reps
  cardio      distance (km) x minutes
  isometric   weight (kg) x seconds

EXAMPLES:

  ironlog exercise list
  ironlog exercise add "Romanian Deadlift" --muscle Hamstrings
  ironlog exercise add Rowing --muscle Cardio --category cardio
  ironlog exercise edit 8 --name "RDL"
  ironlog exercise delete 8`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a custom exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := models.NewExercise(args[0], exerciseMuscle, models.Category(strings.ToLower(exerciseCategory)))
		id, err := repo.AddExercise(cmd.Context(), ex)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}
		color.Green("✓ Added %s", ex.Name)
		fmt.Printf("  %s %s, %s\n", faint(fmt.Sprintf("#%d", id)), ex.TargetMuscle, ex.Category)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		for _, ex := range exercises {
			custom := ""
			if ex.IsCustom {
				custom = faint(" custom")
			}
			fmt.Printf("%s  %s  %s  %s%s\n",
				faint(padRight(fmt.Sprintf("#%d", ex.ID), 5)),
				padRight(truncate(ex.Name, 28), 28),
				padRight(ex.TargetMuscle, 12),
				ex.Category, custom)
		}
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an exercise's name, muscle, or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exercise id: %s", args[0])
		}

		var p models.ExercisePatch
		if cmd.Flags().Changed("name") {
			p.Name = &editName
		}
		if cmd.Flags().Changed("muscle") {
			p.TargetMuscle = &editMuscle
		}
		if cmd.Flags().Changed("category") {
			c := models.Category(strings.ToLower(editCategory))
			p.Category = &c
		}

		if err := repo.UpdateExercise(cmd.Context(), id, p); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}
		color.Green("✓ Updated exercise #%d", id)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an exercise",
	Long: `Delete an exercise from the library.

Sets already logged against it are kept; they show as "Unknown Exercise" in
history and are ignored by routines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := findExercise(cmd.Context(), repo, args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteExercise(cmd.Context(), ex.ID); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		color.Yellow("✗ Deleted %s", ex.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseMuscle, "muscle", "m", "", "target muscle group")
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", string(models.CategoryStrength), "strength, cardio, or isometric")

	exerciseEditCmd.Flags().StringVar(&editName, "name", "", "new name")
	exerciseEditCmd.Flags().StringVarP(&editMuscle, "muscle", "m", "", "new target muscle group")
	exerciseEditCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseEditCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
