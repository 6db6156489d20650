// Package planner builds fatigue-aware training sessions from an exercise catalogue.
package planner

import (
	"time"

	"github.com/claude/repcoach/internal/models"
)

// Catalogue supplies exercises and their last recorded performances.
type Catalogue interface {
	FetchExercises() []models.Exercise
	FetchHistory(exerciseID string) (models.ExerciseHistory, bool)
}

// FatigueSource supplies the current fatigue snapshot.
type FatigueSource interface {
	CurrentFatigue(now time.Time) models.FatigueMap
}

// FatigueSnapshot is a fixed fatigue map usable as a FatigueSource.
type FatigueSnapshot models.FatigueMap

func (s FatigueSnapshot) CurrentFatigue(time.Time) models.FatigueMap {
	return models.FatigueMap(s)
}

// StaticCatalogue is an in-memory catalogue snapshot.
type StaticCatalogue struct {
	exercises []models.Exercise
	history   map[string]models.ExerciseHistory
}

// NewStaticCatalogue returns a catalogue over the given exercises, in order,
// and history keyed by exercise ID.
func NewStaticCatalogue(exercises []models.Exercise, history map[string]models.ExerciseHistory) *StaticCatalogue {
	if history == nil {
		history = map[string]models.ExerciseHistory{}
	}
	return &StaticCatalogue{exercises: exercises, history: history}
}

func (c *StaticCatalogue) FetchExercises() []models.Exercise {
	out := make([]models.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

func (c *StaticCatalogue) FetchHistory(exerciseID string) (models.ExerciseHistory, bool) {
	h, ok := c.history[exerciseID]
	return h, ok
}

// Lookup returns the exercise with the given ID.
func (c *StaticCatalogue) Lookup(exerciseID string) (models.Exercise, bool) {
	for _, ex := range c.exercises {
		if ex.ID == exerciseID {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

// FilterByEquipment keeps exercises whose required equipment is all
// available, preserving order. Exercises requiring nothing always pass.
func FilterByEquipment(exercises []models.Exercise, available models.EquipmentSet) []models.Exercise {
	out := make([]models.Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if available.ContainsAll(ex.Equipment) {
			out = append(out, ex)
		}
	}
	return out
}

// Blocked reports whether the exercise's primary muscle is too fatigued to train.
func Blocked(ex models.Exercise, fatigue models.FatigueMap) bool {
	return fatigue.Level(ex.Primary) >= models.FatigueHigh
}
