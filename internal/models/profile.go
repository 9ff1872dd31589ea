// ABOUTME: UserProfile singleton model plus onboarding target calculation.
// ABOUTME: Uses Mifflin-St Jeor BMR with a fixed activity multiplier for TDEE.
package models

import (
	"math"
	"strings"
	"time"
)

// Gender selects the BMR constant.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Goal is derived once at onboarding from goal weight versus current weight.
type Goal string

const (
	GoalLoss     Goal = "loss"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

const (
	activityMultiplier = 1.35
	lossDeficit        = 500
	gainSurplus        = 300
	proteinPerKg       = 2
)

// UserProfile describes the single user of the store.
type UserProfile struct {
	ID                 int64   `json:"id,omitempty" yaml:"id" db:"id"`
	Name               string  `json:"name" yaml:"name" db:"name"`
	Gender             Gender  `json:"gender" yaml:"gender" db:"gender"`
	BirthYear          int     `json:"birthYear" yaml:"birth_year" db:"birth_year"`
	Height             float64 `json:"height" yaml:"height" db:"height"`
	StartingWeight     float64 `json:"startingWeight" yaml:"starting_weight" db:"starting_weight"`
	CurrentWeight      float64 `json:"currentWeight" yaml:"current_weight" db:"current_weight"`
	GoalWeight         float64 `json:"goalWeight" yaml:"goal_weight" db:"goal_weight"`
	Goal               Goal    `json:"goal" yaml:"goal" db:"goal"`
	DailyCalorieTarget int     `json:"dailyCalorieTarget" yaml:"daily_calorie_target" db:"daily_calorie_target"`
	DailyProteinTarget int     `json:"dailyProteinTarget" yaml:"daily_protein_target" db:"daily_protein_target"`
	OnboardingComplete bool    `json:"onboardingComplete" yaml:"onboarding_complete" db:"onboarding_complete"`
}

// RecordID implements Record.
func (p UserProfile) RecordID() int64 { return p.ID }

// Onboarded reports whether the user may access the rest of the app.
// A nil profile is not onboarded.
func (p *UserProfile) Onboarded() bool {
	return p != nil && p.OnboardingComplete
}

// Validate checks the enums and that the name is present.
func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("profile", "name", "is required")
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return invalid("profile", "gender", "must be male or female")
	}
	switch p.Goal {
	case GoalLoss, GoalMaintain, GoalGain:
	default:
		return invalid("profile", "goal", "must be loss, maintain or gain")
	}
	return nil
}

// ProfilePatch holds the fields to change in a partial update.
type ProfilePatch struct {
	Name               *string
	CurrentWeight      *float64
	GoalWeight         *float64
	DailyCalorieTarget *int
	DailyProteinTarget *int
}

// Apply merges the patch into p.
func (pp ProfilePatch) Apply(p *UserProfile) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.CurrentWeight != nil {
		p.CurrentWeight = *pp.CurrentWeight
	}
	if pp.GoalWeight != nil {
		p.GoalWeight = *pp.GoalWeight
	}
	if pp.DailyCalorieTarget != nil {
		p.DailyCalorieTarget = *pp.DailyCalorieTarget
	}
	if pp.DailyProteinTarget != nil {
		p.DailyProteinTarget = *pp.DailyProteinTarget
	}
}

// Targets are the daily nutrition targets computed at onboarding.
type Targets struct {
	Calories int
	Protein  int
	TDEE     int
}

// DeriveGoal compares goal weight to current weight.
func DeriveGoal(currentWeight, goalWeight float64) Goal {
	switch {
	case goalWeight < currentWeight:
		return GoalLoss
	case goalWeight > currentWeight:
		return GoalGain
	default:
		return GoalMaintain
	}
}

// CalculateTargets computes calorie and protein targets.
func CalculateTargets(weightKg, heightCm float64, age int, gender Gender, goal Goal) Targets {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := int(math.Round(bmr * activityMultiplier))
	calories := tdee
	switch goal {
	case GoalLoss:
		calories -= lossDeficit
	case GoalGain:
		calories += gainSurplus
	}

	return Targets{
		Calories: calories,
		Protein:  int(math.Round(weightKg * proteinPerKg)),
		TDEE:     tdee,
	}
}

// OnboardingInput is what the onboarding flow collects.
type OnboardingInput struct {
	Name       string
	Gender     Gender
	BirthYear  int
	Height     float64
	Weight     float64
	GoalWeight float64
}

// NewProfile builds a completed profile from onboarding answers.
func NewProfile(in OnboardingInput, now time.Time) *UserProfile {
	goal := DeriveGoal(in.Weight, in.GoalWeight)
	targets := CalculateTargets(in.Weight, in.Height, now.Year()-in.BirthYear, in.Gender, goal)
	return &UserProfile{
		Name:               strings.TrimSpace(in.Name),
		Gender:             in.Gender,
		BirthYear:          in.BirthYear,
		Height:             in.Height,
		StartingWeight:     in.Weight,
		CurrentWeight:      in.Weight,
		GoalWeight:         in.GoalWeight,
		Goal:               goal,
		DailyCalorieTarget: targets.Calories,
		DailyProteinTarget: targets.Protein,
		OnboardingComplete: true,
	}
}
