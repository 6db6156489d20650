package models

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// TestWorkoutGoalParams verifies the fixed prescription of each goal.
func TestWorkoutGoalParams(t *testing.T) {
	tests := []struct {
		goal  WorkoutGoal
		reps  RepRange
		sets  int
		delta float64
	}{
		{GoalStrength, RepRange{3, 6}, 5, 2.5},
		{GoalHypertrophy, RepRange{8, 12}, 4, 2.5},
		{GoalEndurance, RepRange{15, 20}, 3, 1.25},
		{GoalGeneralFitness, RepRange{10, 15}, 3, 2.5},
	}
	for _, tt := range tests {
		p := tt.goal.Params()
		if p.Reps != tt.reps || p.Sets != tt.sets {
			t.Errorf("%s params = %+v", tt.goal, p)
		}
		if got := tt.goal.WeightIncrement(); got != tt.delta {
			t.Errorf("%s increment = %v, want %v", tt.goal, got, tt.delta)
		}
	}
}

// TestParseWorkoutGoal verifies name normalization and the unknown-goal error.
func TestParseWorkoutGoal(t *testing.T) {
	g, err := ParseWorkoutGoal("General Fitness")
	if err != nil || g != GoalGeneralFitness {
		t.Errorf("got %q, %v", g, err)
	}
	if _, err := ParseWorkoutGoal("powerlifting"); !errors.Is(err, ErrUnknownGoal) {
		t.Errorf("err = %v, want ErrUnknownGoal", err)
	}
}

// TestEquipmentSet verifies availability checks used by the catalogue filter.
func TestEquipmentSet(t *testing.T) {
	s := ParseEquipmentSet([]string{"Barbell", "pull-up bar", "jetpack"})
	if len(s) != 1 || !s.Has(Barbell) {
		t.Errorf("set = %v", s)
	}
	if !s.ContainsAll(nil) {
		t.Error("empty requirement should be satisfied")
	}
	if s.ContainsAll([]Equipment{Barbell, Bench}) {
		t.Error("bench is not available")
	}
	if !Disjoint([]Equipment{Barbell}, []Equipment{Dumbbell}) || Disjoint([]Equipment{Barbell}, []Equipment{Barbell, Bench}) {
		t.Error("disjoint mismatch")
	}
}

// TestSessionLogRows verifies flattening a logged session into set rows.
func TestSessionLogRows(t *testing.T) {
	s := SessionLog{
		Name: "Push",
		Date: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Exercises: []LoggedExercise{
			{ExerciseID: "bench_press", Name: "Bench Press", Sets: []LoggedSet{
				{WeightKg: 40, Reps: 10, IsWarmup: true},
				{WeightKg: 80, Reps: 8},
			}},
			{Name: "Dips", Sets: []LoggedSet{{Reps: 12}}},
		},
	}
	rows := s.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1].ExerciseID != "bench_press" || rows[1].SetNumber != 2 || rows[1].IsWarmup {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].ExerciseNumber != 2 || rows[2].ExerciseName != "Dips" {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if n := s.Exercises[0].WorkingSets(); n != 1 {
		t.Errorf("working sets = %d, want 1", n)
	}
}

// TestSessionsFromRows verifies stored rows group back into the sessions
// they came from, newest first.
func TestSessionsFromRows(t *testing.T) {
	push := SessionLog{
		Name: "Push",
		Date: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		Exercises: []LoggedExercise{
			{ExerciseID: "bench_press", Name: "Bench Press", Sets: []LoggedSet{
				{WeightKg: 40, Reps: 10, IsWarmup: true},
				{WeightKg: 80, Reps: 8},
			}},
			{Name: "Dips", Sets: []LoggedSet{{Reps: 12}}},
		},
	}
	legs := SessionLog{
		Name:     "Legs",
		Date:     time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC),
		Duration: "1h",
		Exercises: []LoggedExercise{
			{ExerciseID: "back_squat", Name: "Back Squat", Sets: []LoggedSet{{WeightKg: 100, Reps: 5}, {WeightKg: 100, Reps: 5}}},
			{ExerciseID: "back_squat", Name: "Back Squat", Sets: []LoggedSet{{WeightKg: 80, Reps: 10}}},
		},
	}

	got := SessionsFromRows(append(legs.Rows(), push.Rows()...))
	want := []SessionLog{legs, push}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SessionsFromRows =\n%+v\nwant\n%+v", got, want)
	}
	if got := SessionsFromRows(nil); len(got) != 0 {
		t.Errorf("empty rows gave %d sessions", len(got))
	}
}
