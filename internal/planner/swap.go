package planner

import (
	"time"

	"github.com/claude/repcoach/internal/models"
)

const (
	equipmentVarietyBonus = 25.0
	movementVarietyBonus  = 10.0
)

// FindAlternative picks a replacement for original that trains the same
// primary muscle. Candidates must be available with the given equipment and
// not blocked by fatigue. Different equipment and a different movement class
// are preferred. It returns false when nothing qualifies.
func (b *Builder) FindAlternative(original models.Exercise, equipment models.EquipmentSet, source FatigueSource, now time.Time) (models.Exercise, bool) {
	ex, _, ok := b.bestAlternative(original, equipment, source.CurrentFatigue(now))
	return ex, ok
}

func (b *Builder) bestAlternative(original models.Exercise, equipment models.EquipmentSet, fatigue models.FatigueMap) (models.Exercise, float64, bool) {
	var (
		best      models.Exercise
		bestScore float64
		found     bool
	)
	for _, ex := range FilterByEquipment(b.catalogue.FetchExercises(), equipment) {
		if ex.ID == original.ID || ex.Primary != original.Primary || Blocked(ex, fatigue) {
			continue
		}
		s := Score(ex, fatigue, nil)
		if models.Disjoint(ex.Equipment, original.Equipment) {
			s += equipmentVarietyBonus
		}
		if ex.Compound != original.Compound {
			s += movementVarietyBonus
		}
		if !found || s > bestScore {
			best, bestScore, found = ex, s, true
		}
	}
	return best, bestScore, found
}

// AlternativeSlot is FindAlternative materialized as a workout slot for goal.
func (b *Builder) AlternativeSlot(original models.Exercise, goal models.WorkoutGoal, equipment models.EquipmentSet, source FatigueSource, now time.Time) (models.WorkoutSlot, bool) {
	ex, score, ok := b.bestAlternative(original, equipment, source.CurrentFatigue(now))
	if !ok {
		return models.WorkoutSlot{}, false
	}
	return b.slot(ex, score, goal), true
}
