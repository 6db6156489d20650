// Package catalog reads exercise catalogues from TOML.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/claude/repcoach/internal/models"
)

//go:embed default_exercises.toml
var defaultCatalogue string

// File is the TOML layout of a catalogue file.
type File struct {
	Exercises []ExerciseTOML `toml:"exercises"`
}

// ExerciseTOML is one [[exercises]] table.
type ExerciseTOML struct {
	ID        string   `toml:"id"`
	Name      string   `toml:"name"`
	Primary   string   `toml:"primary_muscle"`
	Secondary []string `toml:"secondary_muscles"`
	Equipment []string `toml:"equipment"`
	Compound  bool     `toml:"compound"`
	Notes     string   `toml:"notes"`
}

// Skipped describes a catalogue entry that could not be used.
type Skipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Parse decodes a TOML catalogue. Entries without a name or with an unknown
// primary muscle are reported in skipped; unknown secondary muscles are
// dropped. Equipment names are normalized but kept even when unknown, so an
// exercise needing unlisted equipment is never offered.
func Parse(r io.Reader) ([]models.Exercise, []Skipped, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("invalid TOML format: %w", err)
	}

	var (
		out     []models.Exercise
		skipped []Skipped
		seen    = make(map[string]bool)
	)
	for _, e := range f.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			skipped = append(skipped, Skipped{Name: e.ID, Reason: "missing name"})
			continue
		}
		primary, ok := models.ParseMuscleGroup(e.Primary)
		if !ok {
			skipped = append(skipped, Skipped{Name: name, Reason: fmt.Sprintf("unknown primary muscle %q", e.Primary)})
			continue
		}
		id := e.ID
		if id == "" {
			id = Slug(name)
		}
		if seen[id] {
			skipped = append(skipped, Skipped{Name: name, Reason: fmt.Sprintf("duplicate id %q", id)})
			continue
		}
		seen[id] = true

		ex := models.Exercise{
			ID:        id,
			Name:      name,
			Primary:   primary,
			Secondary: models.ParseMuscleGroups(e.Secondary),
			Compound:  e.Compound,
			Notes:     e.Notes,
		}
		for _, item := range e.Equipment {
			eq, _ := models.ParseEquipment(item)
			ex.Equipment = append(ex.Equipment, eq)
		}
		out = append(out, ex)
	}
	return out, skipped, nil
}

// Default returns the built-in catalogue.
func Default() []models.Exercise {
	out, _, err := Parse(strings.NewReader(defaultCatalogue))
	if err != nil {
		panic(fmt.Sprintf("embedded catalogue: %v", err))
	}
	return out
}

// Slug turns "Romanian Deadlift" into "romanian_deadlift".
func Slug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Encode writes exercises as a TOML catalogue.
func Encode(w io.Writer, exercises []models.Exercise) error {
	f := File{Exercises: make([]ExerciseTOML, 0, len(exercises))}
	for _, ex := range exercises {
		t := ExerciseTOML{
			ID:       ex.ID,
			Name:     ex.Name,
			Primary:  ex.Primary.String(),
			Compound: ex.Compound,
			Notes:    ex.Notes,
		}
		for _, m := range ex.Secondary {
			t.Secondary = append(t.Secondary, m.String())
		}
		for _, e := range ex.Equipment {
			t.Equipment = append(t.Equipment, string(e))
		}
		f.Exercises = append(f.Exercises, t)
	}
	return toml.NewEncoder(w).Encode(f)
}
