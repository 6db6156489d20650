package planner

import (
	"github.com/claude/repcoach/internal/models"
)

// Policy decides the next load and reps for an exercise. A nil history
// means the exercise has never been performed.
type Policy interface {
	SuggestedWeight(last *models.ExerciseHistory, goal models.WorkoutGoal) float64
	SuggestedReps(last *models.ExerciseHistory, goal models.WorkoutGoal) int
	Strategy(last *models.ExerciseHistory, goal models.WorkoutGoal) models.OverloadStrategy
}

// DoubleProgression adds reps inside the goal's range and adds weight once
// the top of the range is reached, resetting reps to the bottom.
type DoubleProgression struct{}

var _ Policy = DoubleProgression{}

func (DoubleProgression) Strategy(last *models.ExerciseHistory, goal models.WorkoutGoal) models.OverloadStrategy {
	if last == nil {
		return models.StrategyFirstTime
	}
	r := goal.Params().Reps
	switch {
	case last.LastReps >= r.Upper:
		return models.StrategyAddWeight
	case last.LastReps < r.Lower:
		return models.StrategyMaintain
	}
	return models.StrategyAddRep
}

func (p DoubleProgression) SuggestedWeight(last *models.ExerciseHistory, goal models.WorkoutGoal) float64 {
	if last == nil {
		return 0
	}
	if p.Strategy(last, goal) == models.StrategyAddWeight {
		return last.LastWeight + goal.WeightIncrement()
	}
	return last.LastWeight
}

func (p DoubleProgression) SuggestedReps(last *models.ExerciseHistory, goal models.WorkoutGoal) int {
	r := goal.Params().Reps
	switch p.Strategy(last, goal) {
	case models.StrategyAddRep:
		return min(last.LastReps+1, r.Upper)
	default:
		return r.Lower
	}
}

// Target assembles a progression target from a policy.
func Target(p Policy, last *models.ExerciseHistory, goal models.WorkoutGoal) *models.ProgressionTarget {
	t := &models.ProgressionTarget{
		SuggestedWeight: p.SuggestedWeight(last, goal),
		SuggestedReps:   p.SuggestedReps(last, goal),
		Strategy:        p.Strategy(last, goal),
	}
	if last != nil {
		w, r := last.LastWeight, last.LastReps
		t.LastWeight = &w
		t.LastReps = &r
	}
	return t
}
