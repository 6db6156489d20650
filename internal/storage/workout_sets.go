package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/models"
)

// insertSetsQuery builds one multi-row INSERT for rows.
func insertSetsQuery(rows []models.WorkoutSetRow) (string, []any) {
	query := `INSERT INTO workout_sets (session_name, session_date, session_duration,
		exercise_number, exercise_id, exercise_name, equipment, target_reps, is_warmup, set_number,
		weight_kg, is_bodyweight_plus, reps, rir) VALUES `
	args := make([]any, 0, len(rows)*14)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 14
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13, base+14,
		))
		args = append(args, r.SessionName, r.SessionDate, r.SessionDuration,
			r.ExerciseNumber, r.ExerciseID, r.ExerciseName, r.Equipment, r.TargetReps,
			r.IsWarmup, r.SetNumber, r.WeightKg, r.IsBodyweightPlus, r.Reps, r.RIR)
	}
	return query + strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING", args
}

// ReplaceWorkoutSets swaps the stored sets of the session at sessionDate for
// rows in one transaction. Returns count inserted. On error the previous
// sets are kept.
func (db *DB) ReplaceWorkoutSets(ctx context.Context, sessionDate time.Time, rows []models.WorkoutSetRow) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sets WHERE session_date = $1`, sessionDate); err != nil {
		return 0, fmt.Errorf("deleting workout sets: %w", err)
	}

	var inserted int64
	if len(rows) > 0 {
		query, args := insertSetsQuery(rows)
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting workout sets: %w", err)
		}
		inserted = tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing workout sets: %w", err)
	}
	return inserted, nil
}

// QueryWorkoutSets retrieves workout sets with start <= session_date < end,
// newest session first.
func (db *DB) QueryWorkoutSets(ctx context.Context, start, end time.Time) ([]models.WorkoutSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT session_name, session_date, session_duration,
		 exercise_number, exercise_id, exercise_name, equipment, target_reps,
		 is_warmup, set_number, weight_kg, is_bodyweight_plus, reps, rir
		 FROM workout_sets
		 WHERE session_date >= $1 AND session_date < $2
		 ORDER BY session_date DESC, exercise_number ASC, set_number ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSetRow
	for rows.Next() {
		var r models.WorkoutSetRow
		if err := rows.Scan(&r.SessionName, &r.SessionDate, &r.SessionDuration,
			&r.ExerciseNumber, &r.ExerciseID, &r.ExerciseName, &r.Equipment, &r.TargetReps,
			&r.IsWarmup, &r.SetNumber, &r.WeightKg, &r.IsBodyweightPlus, &r.Reps, &r.RIR); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// LatestPerformances returns, per catalogued exercise, the heaviest working
// set of its most recent session.
func (db *DB) LatestPerformances(ctx context.Context) (map[string]models.ExerciseHistory, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT ON (exercise_id) exercise_id, weight_kg, reps, session_date
		 FROM workout_sets
		 WHERE exercise_id <> '' AND NOT is_warmup
		 ORDER BY exercise_id, session_date DESC, weight_kg DESC, reps DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying latest performances: %w", err)
	}
	defer rows.Close()

	result := make(map[string]models.ExerciseHistory)
	for rows.Next() {
		var h models.ExerciseHistory
		if err := rows.Scan(&h.ExerciseID, &h.LastWeight, &h.LastReps, &h.SessionDate); err != nil {
			return nil, fmt.Errorf("scanning performance: %w", err)
		}
		result[h.ExerciseID] = h
	}
	return result, rows.Err()
}
