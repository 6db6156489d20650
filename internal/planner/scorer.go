package planner

import (
	"github.com/claude/repcoach/internal/models"
)

const (
	baseScore      = 100.0
	compoundBonus  = 10.0
	diversityBonus = 20.0
)

var fatiguePenalty = map[models.FatigueLevel]float64{
	models.FatigueNone:   0,
	models.FatigueLow:    5,
	models.FatigueMedium: 15,
	models.FatigueHigh:   40,
	models.FatigueSevere: 80,
}

// Score rates how desirable an exercise is given current fatigue and the
// primary muscles already claimed by the session. Higher is better, never
// below zero.
func Score(ex models.Exercise, fatigue models.FatigueMap, claimed map[models.MuscleGroup]bool) float64 {
	s := baseScore
	for _, m := range ex.Secondary {
		s -= fatiguePenalty[fatigue.Level(m)]
	}
	s -= fatiguePenalty[fatigue.Level(ex.Primary)] / 2
	if ex.Compound {
		s += compoundBonus
	}
	if !claimed[ex.Primary] {
		s += diversityBonus
	}
	return max(s, 0)
}
