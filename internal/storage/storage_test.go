package storage

import (
	"strings"
	"testing"

	"github.com/claude/repcoach/internal/models"
)

// TestDecodeLevels verifies stored JSONB levels decode tolerantly.
// Unknown muscles are dropped and malformed documents yield an empty map.
func TestDecodeLevels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.FatigueMap
	}{
		{"valid", `{"quads":"high","calves":"low"}`, models.FatigueMap{models.Quads: models.FatigueHigh, models.Calves: models.FatigueLow}},
		{"unknown muscle", `{"tail":"high","back":"medium"}`, models.FatigueMap{models.Back: models.FatigueMedium}},
		{"unknown level", `{"chest":"extreme"}`, models.FatigueMap{models.Chest: models.FatigueNone}},
		{"malformed", `[1,2`, models.FatigueMap{}},
		{"null", `null`, models.FatigueMap{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeLevels([]byte(tt.raw))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for m, l := range tt.want {
				if got[m] != l {
					t.Errorf("%s = %s, want %s", m, got[m], l)
				}
			}
		})
	}
}

// TestArrayEncoding verifies enum slices are stored by name.
func TestArrayEncoding(t *testing.T) {
	got := muscleNames([]models.MuscleGroup{models.HipFlexors, models.Core})
	if len(got) != 2 || got[0] != "hip_flexors" || got[1] != "core" {
		t.Errorf("muscleNames = %v", got)
	}
	eq := equipmentNames([]models.Equipment{models.PullupBar})
	if len(eq) != 1 || eq[0] != "pullup_bar" {
		t.Errorf("equipmentNames = %v", eq)
	}
}

// TestInsertSetsQuery verifies the multi-row insert numbers its
// placeholders across rows and binds fourteen values per set.
func TestInsertSetsQuery(t *testing.T) {
	rows := []models.WorkoutSetRow{
		{SessionName: "Legs", ExerciseName: "Back Squat", SetNumber: 1, WeightKg: 100, Reps: 5},
		{SessionName: "Legs", ExerciseName: "Back Squat", SetNumber: 2, WeightKg: 100, Reps: 5},
	}
	query, args := insertSetsQuery(rows)
	if len(args) != 28 {
		t.Fatalf("args = %d, want 28", len(args))
	}
	if !strings.Contains(query, "($15,$16,") || !strings.HasSuffix(query, "$28) ON CONFLICT DO NOTHING") {
		t.Errorf("unexpected query: %s", query)
	}
	if args[14] != "Legs" {
		t.Errorf("second row starts with %v, want session name", args[14])
	}
}
