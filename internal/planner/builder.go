package planner

import (
	"math"
	"sort"
	"time"

	"github.com/claude/repcoach/internal/models"
)

const (
	warmupMinutes  = 5.0
	minutesPerSlot = 3.5
	minSlots       = 1
	maxSlots       = 8
)

// SlotCount returns how many exercises fit in a session of the given length.
func SlotCount(minutes int) int {
	working := math.Max(0, float64(minutes)-warmupMinutes)
	n := int(math.Floor(working / minutesPerSlot))
	return min(max(n, minSlots), maxSlots)
}

// Builder generates sessions from a catalogue.
type Builder struct {
	catalogue Catalogue
	policy    Policy
}

// NewBuilder returns a builder. A nil policy uses DoubleProgression.
func NewBuilder(c Catalogue, p Policy) *Builder {
	if p == nil {
		p = DoubleProgression{}
	}
	return &Builder{catalogue: c, policy: p}
}

type scored struct {
	ex    models.Exercise
	score float64
}

// candidates filters by equipment, drops blocked exercises and sorts the rest
// by score, keeping catalogue order among ties.
func (b *Builder) candidates(equipment models.EquipmentSet, fatigue models.FatigueMap) []scored {
	eligible := FilterByEquipment(b.catalogue.FetchExercises(), equipment)
	out := make([]scored, 0, len(eligible))
	for _, ex := range eligible {
		if Blocked(ex, fatigue) {
			continue
		}
		out = append(out, scored{ex: ex, score: Score(ex, fatigue, nil)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// Generate selects up to SlotCount(minutes) exercises: compounds first, then
// isolations on primary muscles not yet trained. An empty result is valid.
func (b *Builder) Generate(minutes int, goal models.WorkoutGoal, equipment models.EquipmentSet, source FatigueSource, now time.Time) []models.WorkoutSlot {
	slots := SlotCount(minutes)
	fatigue := source.CurrentFatigue(now)
	ranked := b.candidates(equipment, fatigue)

	picked := make([]scored, 0, slots)
	claimed := make(map[models.MuscleGroup]bool)

	for _, c := range ranked {
		if len(picked) >= slots {
			break
		}
		if c.ex.Compound {
			picked = append(picked, c)
			claimed[c.ex.Primary] = true
		}
	}
	for _, c := range ranked {
		if len(picked) >= slots {
			break
		}
		if !c.ex.Compound && !claimed[c.ex.Primary] {
			picked = append(picked, c)
			claimed[c.ex.Primary] = true
		}
	}

	out := make([]models.WorkoutSlot, 0, len(picked))
	for _, c := range picked {
		out = append(out, b.slot(c.ex, c.score, goal))
	}
	return out
}

// Progression returns the progression target for one exercise.
func (b *Builder) Progression(exerciseID string, goal models.WorkoutGoal) *models.ProgressionTarget {
	var last *models.ExerciseHistory
	if h, ok := b.catalogue.FetchHistory(exerciseID); ok {
		last = &h
	}
	return Target(b.policy, last, goal)
}

func (b *Builder) slot(ex models.Exercise, score float64, goal models.WorkoutGoal) models.WorkoutSlot {
	p := goal.Params()
	return models.WorkoutSlot{
		Exercise:    ex,
		Sets:        p.Sets,
		Reps:        p.Reps,
		Progression: b.Progression(ex.ID, goal),
		Score:       score,
	}
}
