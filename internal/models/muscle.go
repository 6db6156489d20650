package models

import (
	"fmt"
	"strings"
)

// MuscleGroup is a coarse anatomical region used for fatigue tracking and
// exercise targeting.
type MuscleGroup int

const (
	Chest MuscleGroup = iota
	Back
	Quads
	Hamstrings
	Glutes
	Shoulders
	Core
	Calves
	Biceps
	Triceps
	Forearms
	HipFlexors
	Neck
)

var muscleNames = [...]string{
	Chest:      "chest",
	Back:       "back",
	Quads:      "quads",
	Hamstrings: "hamstrings",
	Glutes:     "glutes",
	Shoulders:  "shoulders",
	Core:       "core",
	Calves:     "calves",
	Biceps:     "biceps",
	Triceps:    "triceps",
	Forearms:   "forearms",
	HipFlexors: "hip_flexors",
	Neck:       "neck",
}

// AllMuscleGroups returns every muscle group in declaration order.
func AllMuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(muscleNames))
	for i := range muscleNames {
		out[i] = MuscleGroup(i)
	}
	return out
}

func (m MuscleGroup) String() string {
	if m < 0 || int(m) >= len(muscleNames) {
		return fmt.Sprintf("MuscleGroup(%d)", int(m))
	}
	return muscleNames[m]
}

// Valid reports whether m is one of the declared muscle groups.
func (m MuscleGroup) Valid() bool {
	return m >= 0 && int(m) < len(muscleNames)
}

// ParseMuscleGroup maps a name such as "hip_flexors", "Hip Flexors" or
// "hip-flexors" to its MuscleGroup.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for i, name := range muscleNames {
		if name == key {
			return MuscleGroup(i), true
		}
	}
	return 0, false
}

func (m MuscleGroup) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid muscle group %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *MuscleGroup) UnmarshalText(b []byte) error {
	parsed, ok := ParseMuscleGroup(string(b))
	if !ok {
		return fmt.Errorf("unknown muscle group %q", string(b))
	}
	*m = parsed
	return nil
}

// ParseMuscleGroups decodes a list of names, dropping any it does not know.
func ParseMuscleGroups(names []string) []MuscleGroup {
	out := make([]MuscleGroup, 0, len(names))
	for _, n := range names {
		if m, ok := ParseMuscleGroup(n); ok {
			out = append(out, m)
		}
	}
	return out
}
