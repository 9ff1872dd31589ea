// ABOUTME: Starter plans offered when building a first routine.
// ABOUTME: Each plan is a list of exercise templates matched by name.
package models

// StarterPlans maps a plan name to its exercises.
var StarterPlans = map[string][]Exercise{
	"loss": {
		{Name: "Squat", TargetMuscle: "Legs", Category: CategoryStrength},
		{Name: "Bench Press", TargetMuscle: "Chest", Category: CategoryStrength},
		{Name: "Deadlift", TargetMuscle: "Back", Category: CategoryStrength},
		{Name: "Overhead Press", TargetMuscle: "Shoulders", Category: CategoryStrength},
		{Name: "Incline Walk", TargetMuscle: "Cardio", Category: CategoryCardio},
	},
	"strength": {
		{Name: "Squat", TargetMuscle: "Legs", Category: CategoryStrength},
		{Name: "Bench Press", TargetMuscle: "Chest", Category: CategoryStrength},
		{Name: "Deadlift", TargetMuscle: "Back", Category: CategoryStrength},
		{Name: "Barbell Row", TargetMuscle: "Back", Category: CategoryStrength},
		{Name: "Overhead Press", TargetMuscle: "Shoulders", Category: CategoryStrength},
	},
	"hypertrophy": {
		{Name: "Incline Dumbbell Press", TargetMuscle: "Chest", Category: CategoryStrength},
		{Name: "Lat Pulldown", TargetMuscle: "Back", Category: CategoryStrength},
		{Name: "Leg Press", TargetMuscle: "Legs", Category: CategoryStrength},
		{Name: "Lateral Raise", TargetMuscle: "Shoulders", Category: CategoryStrength},
		{Name: "Tricep Extension", TargetMuscle: "Arms", Category: CategoryStrength},
		{Name: "Bicep Curl", TargetMuscle: "Arms", Category: CategoryStrength},
	},
	"endurance": {
		{Name: "Running (5k)", TargetMuscle: "Cardio", Category: CategoryCardio},
		{Name: "Cycling", TargetMuscle: "Cardio", Category: CategoryCardio},
		{Name: "Jump Rope", TargetMuscle: "Cardio", Category: CategoryCardio},
		{Name: "Plank", TargetMuscle: "Core", Category: CategoryIsometric},
	},
}

// DefaultElement is the prescription used when a plan exercise is added to a
// routine: 3 x 10 for strength, 3 x 60s for isometric, 1 x 30min for cardio.
func DefaultElement(ex Exercise) RoutineElement {
	switch ex.Category {
	case CategoryCardio:
		return RoutineElement{ExerciseID: ex.ID, TargetSets: 1, TargetReps: 30}
	case CategoryIsometric:
		return RoutineElement{ExerciseID: ex.ID, TargetSets: 3, TargetReps: 60}
	default:
		return RoutineElement{ExerciseID: ex.ID, TargetSets: 3, TargetReps: 10}
	}
}
