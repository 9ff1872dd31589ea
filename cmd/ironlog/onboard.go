// ABOUTME: CLI commands for onboarding and viewing the user profile.
// ABOUTME: Onboarding derives the goal and daily calorie and protein targets.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	onboardName   string
	onboardGender string
	onboardBorn   int
	onboardHeight float64
	onboardWeight float64
	onboardGoal   float64
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create your profile and daily targets",
	Long: `Create (or replace) your profile.

Your goal is derived from goal weight versus current weight: below it is
fat loss, above it is muscle gain, equal is maintenance. Daily calorie and
protein targets are calculated from these answers.

EXAMPLES:

  ironlog onboard --name Sam --gender female --born 1992 --height 168 --weight 70 --goal 65
  ironlog onboard --name Alex --gender male --born 1988 --height 182 --weight 78 --goal 84`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.NewProfile(models.OnboardingInput{
			Name:       onboardName,
			Gender:     models.Gender(strings.ToLower(onboardGender)),
			BirthYear:  onboardBorn,
			Height:     onboardHeight,
			Weight:     onboardWeight,
			GoalWeight: onboardGoal,
		}, time.Now())

		if _, err := repo.SaveProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		color.Green("✓ Welcome, %s", p.Name)
		printProfile(p)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile and daily targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.Profile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if !p.Onboarded() {
			color.Yellow("No profile yet. Run 'ironlog onboard' first.")
			return nil
		}
		printProfile(p)
		return nil
	},
}

func printProfile(p *models.UserProfile) {
	fmt.Printf("  %s %s, born %d, %.0f cm\n", faint("profile"), p.Name, p.BirthYear, p.Height)
	fmt.Printf("  %s %.1f kg (start %.1f, goal %.1f)\n", faint("weight "), p.CurrentWeight, p.StartingWeight, p.GoalWeight)
	fmt.Printf("  %s %s\n", faint("goal   "), p.Goal)
	fmt.Printf("  %s %d kcal, %d g protein\n", faint("targets"), p.DailyCalorieTarget, p.DailyProteinTarget)
}

func init() {
	onboardCmd.Flags().StringVar(&onboardName, "name", "", "your name")
	onboardCmd.Flags().StringVar(&onboardGender, "gender", "", "male or female")
	onboardCmd.Flags().IntVar(&onboardBorn, "born", 0, "birth year")
	onboardCmd.Flags().Float64Var(&onboardHeight, "height", 0, "height in cm")
	onboardCmd.Flags().Float64Var(&onboardWeight, "weight", 0, "current weight in kg")
	onboardCmd.Flags().Float64Var(&onboardGoal, "goal", 0, "goal weight in kg")
	for _, f := range []string{"name", "gender", "born", "height", "weight", "goal"} {
		_ = onboardCmd.MarkFlagRequired(f)
	}

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(profileCmd)
}
