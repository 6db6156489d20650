package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownGoal is returned when a goal name is not recognized.
var ErrUnknownGoal = errors.New("unknown workout goal")

// WorkoutGoal selects the rep range, set count and load increment of a plan.
type WorkoutGoal string

const (
	GoalStrength       WorkoutGoal = "strength"
	GoalHypertrophy    WorkoutGoal = "hypertrophy"
	GoalEndurance      WorkoutGoal = "endurance"
	GoalGeneralFitness WorkoutGoal = "general_fitness"
)

// RepRange is an inclusive range of repetitions.
type RepRange struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// GoalParams are the fixed prescription parameters of a goal.
type GoalParams struct {
	Reps RepRange
	Sets int
}

var goalParams = map[WorkoutGoal]GoalParams{
	GoalStrength:       {Reps: RepRange{3, 6}, Sets: 5},
	GoalHypertrophy:    {Reps: RepRange{8, 12}, Sets: 4},
	GoalEndurance:      {Reps: RepRange{15, 20}, Sets: 3},
	GoalGeneralFitness: {Reps: RepRange{10, 15}, Sets: 3},
}

// ParseWorkoutGoal parses names such as "hypertrophy" or "General Fitness".
func ParseWorkoutGoal(s string) (WorkoutGoal, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	g := WorkoutGoal(key)
	if _, ok := goalParams[g]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
	}
	return g, nil
}

// Params returns the goal's prescription. Unknown goals fall back to general fitness.
func (g WorkoutGoal) Params() GoalParams {
	if p, ok := goalParams[g]; ok {
		return p
	}
	return goalParams[GoalGeneralFitness]
}

// WeightIncrement is the load added when progressing, in kg.
func (g WorkoutGoal) WeightIncrement() float64 {
	if g == GoalEndurance {
		return 1.25
	}
	return 2.5
}

// OverloadStrategy is the progression decision for the next session.
type OverloadStrategy string

const (
	StrategyAddWeight OverloadStrategy = "add_weight"
	StrategyAddRep    OverloadStrategy = "add_rep"
	StrategyMaintain  OverloadStrategy = "maintain"
	StrategyFirstTime OverloadStrategy = "first_time"
)

// ProgressionTarget is the suggested load and reps for an exercise.
type ProgressionTarget struct {
	LastWeight      *float64         `json:"last_weight"`
	LastReps        *int             `json:"last_reps"`
	SuggestedWeight float64          `json:"suggested_weight"`
	SuggestedReps   int              `json:"suggested_reps"`
	Strategy        OverloadStrategy `json:"strategy"`
}

// WorkoutSlot is one exercise prescription in a generated plan.
type WorkoutSlot struct {
	Exercise    Exercise           `json:"exercise"`
	Sets        int                `json:"sets"`
	Reps        RepRange           `json:"reps"`
	Progression *ProgressionTarget `json:"progression"`
	Score       float64            `json:"score"`
}

// ActivityRecord is an activity reported by an external tracker.
type ActivityRecord struct {
	Type            string    `json:"type"`
	Start           time.Time `json:"start"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// SessionsFromRows groups workout_sets rows back into sessions. Rows must be
// ordered by session date, then exercise and set number; sessions keep that
// order.
func SessionsFromRows(rows []WorkoutSetRow) []SessionLog {
	var out []SessionLog
	lastNumber := 0
	for _, r := range rows {
		if len(out) == 0 || !out[len(out)-1].Date.Equal(r.SessionDate) {
			out = append(out, SessionLog{Name: r.SessionName, Date: r.SessionDate, Duration: r.SessionDuration})
			lastNumber = 0
		}
		s := &out[len(out)-1]
		if len(s.Exercises) == 0 || r.ExerciseNumber != lastNumber {
			lastNumber = r.ExerciseNumber
			s.Exercises = append(s.Exercises, LoggedExercise{
				ExerciseID: r.ExerciseID,
				Name:       r.ExerciseName,
				Equipment:  r.Equipment,
				TargetReps: r.TargetReps,
			})
		}
		ex := &s.Exercises[len(s.Exercises)-1]
		ex.Sets = append(ex.Sets, LoggedSet{
			WeightKg:         r.WeightKg,
			IsBodyweightPlus: r.IsBodyweightPlus,
			Reps:             r.Reps,
			RIR:              r.RIR,
			IsWarmup:         r.IsWarmup,
		})
	}
	return out
}
