package models

import "time"

// WorkoutSetRow is a row for the workout_sets table.
type WorkoutSetRow struct {
	SessionName      string
	SessionDate      time.Time
	SessionDuration  string
	ExerciseNumber   int
	ExerciseID       string
	ExerciseName     string
	Equipment        string
	TargetReps       int
	IsWarmup         bool
	SetNumber        int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
}

// SessionLog is a completed training session reported by the user.
type SessionLog struct {
	Name      string           `json:"name"`
	Date      time.Time        `json:"date"`
	Duration  string           `json:"duration,omitempty"`
	Exercises []LoggedExercise `json:"exercises"`
}

// LoggedExercise is one exercise of a completed session. ExerciseID may be
// empty when the exercise is not in the catalogue.
type LoggedExercise struct {
	ExerciseID string      `json:"exercise_id,omitempty"`
	Name       string      `json:"name"`
	Equipment  string      `json:"equipment,omitempty"`
	TargetReps int         `json:"target_reps,omitempty"`
	Sets       []LoggedSet `json:"sets"`
}

// LoggedSet is one performed set.
type LoggedSet struct {
	WeightKg         float64 `json:"weight_kg"`
	IsBodyweightPlus bool    `json:"bodyweight_plus,omitempty"`
	Reps             int     `json:"reps"`
	RIR              float64 `json:"rir,omitempty"`
	IsWarmup         bool    `json:"is_warmup,omitempty"`
}

// WorkingSets counts the sets that are not warm-ups.
func (e LoggedExercise) WorkingSets() int {
	n := 0
	for _, s := range e.Sets {
		if !s.IsWarmup {
			n++
		}
	}
	return n
}

// Rows flattens the session into workout_sets rows.
func (s SessionLog) Rows() []WorkoutSetRow {
	var rows []WorkoutSetRow
	for i, ex := range s.Exercises {
		for j, set := range ex.Sets {
			rows = append(rows, WorkoutSetRow{
				SessionName:      s.Name,
				SessionDate:      s.Date,
				SessionDuration:  s.Duration,
				ExerciseNumber:   i + 1,
				ExerciseID:       ex.ExerciseID,
				ExerciseName:     ex.Name,
				Equipment:        ex.Equipment,
				TargetReps:       ex.TargetReps,
				IsWarmup:         set.IsWarmup,
				SetNumber:        j + 1,
				WeightKg:         set.WeightKg,
				IsBodyweightPlus: set.IsBodyweightPlus,
				Reps:             set.Reps,
				RIR:              set.RIR,
			})
		}
	}
	return rows
}
