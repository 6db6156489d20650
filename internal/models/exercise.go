package models

import (
	"strings"
	"time"
)

// Equipment is a piece of gym equipment an exercise may require.
type Equipment string

const (
	Barbell      Equipment = "barbell"
	Dumbbell     Equipment = "dumbbell"
	Kettlebell   Equipment = "kettlebell"
	Cable        Equipment = "cable"
	Machine      Equipment = "machine"
	Bench        Equipment = "bench"
	PullupBar    Equipment = "pullup_bar"
	Bands        Equipment = "bands"
	SmithMachine Equipment = "smith_machine"
	EZBar        Equipment = "ez_bar"
	TrapBar      Equipment = "trap_bar"
	Rings        Equipment = "rings"
	Box          Equipment = "box"
	MedicineBall Equipment = "medicine_ball"
)

var knownEquipment = map[Equipment]bool{
	Barbell: true, Dumbbell: true, Kettlebell: true, Cable: true, Machine: true,
	Bench: true, PullupBar: true, Bands: true, SmithMachine: true, EZBar: true,
	TrapBar: true, Rings: true, Box: true, MedicineBall: true,
}

// ParseEquipment normalizes an equipment name and reports whether it is known.
func ParseEquipment(s string) (Equipment, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	e := Equipment(key)
	return e, knownEquipment[e]
}

// EquipmentSet is the set of equipment available to the user.
type EquipmentSet map[Equipment]struct{}

// NewEquipmentSet builds a set from the given items.
func NewEquipmentSet(items ...Equipment) EquipmentSet {
	s := make(EquipmentSet, len(items))
	for _, e := range items {
		s[e] = struct{}{}
	}
	return s
}

// ParseEquipmentSet builds a set from names, skipping unknown ones.
func ParseEquipmentSet(names []string) EquipmentSet {
	s := make(EquipmentSet, len(names))
	for _, n := range names {
		if e, ok := ParseEquipment(n); ok {
			s[e] = struct{}{}
		}
	}
	return s
}

func (s EquipmentSet) Has(e Equipment) bool {
	_, ok := s[e]
	return ok
}

// ContainsAll reports whether every item in required is in s.
func (s EquipmentSet) ContainsAll(required []Equipment) bool {
	for _, e := range required {
		if !s.Has(e) {
			return false
		}
	}
	return true
}

// Disjoint reports whether a and b share no item.
func Disjoint(a, b []Equipment) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return false
			}
		}
	}
	return true
}

// Exercise is a catalogue entry.
type Exercise struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Primary   MuscleGroup   `json:"primary_muscle"`
	Secondary []MuscleGroup `json:"secondary_muscles"`
	Equipment []Equipment   `json:"equipment"`
	Compound  bool          `json:"is_compound"`
	Notes     string        `json:"notes,omitempty"`
}

// ExerciseHistory is the last recorded working performance of an exercise.
type ExerciseHistory struct {
	ExerciseID  string    `json:"exercise_id"`
	LastWeight  float64   `json:"last_weight"`
	LastReps    int       `json:"last_reps"`
	SessionDate time.Time `json:"session_date"`
}
