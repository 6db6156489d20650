package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/repcoach/internal/models"
)

// UpsertExercises inserts or replaces catalogue entries. Exercises keep the
// order of the slice; new entries are appended after the existing catalogue.
func (db *DB) UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	if len(exercises) == 0 {
		return 0, nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var next int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position), 0) FROM exercises`).Scan(&next); err != nil {
		return 0, fmt.Errorf("reading catalogue position: %w", err)
	}

	batch := &pgx.Batch{}
	for i, ex := range exercises {
		batch.Queue(
			`INSERT INTO exercises (id, position, name, primary_muscle, secondary_muscles, equipment, is_compound, notes)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   primary_muscle = EXCLUDED.primary_muscle,
			   secondary_muscles = EXCLUDED.secondary_muscles,
			   equipment = EXCLUDED.equipment,
			   is_compound = EXCLUDED.is_compound,
			   notes = EXCLUDED.notes`,
			ex.ID, next+i+1, ex.Name, ex.Primary.String(),
			muscleNames(ex.Secondary), equipmentNames(ex.Equipment), ex.Compound, ex.Notes)
	}

	br := tx.SendBatch(ctx, batch)
	var affected int64
	for range exercises {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("upserting exercise: %w", err)
		}
		affected += tag.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing exercises: %w", err)
	}
	return affected, nil
}

// ListExercises returns the catalogue in catalogue order. Rows with an
// unknown primary muscle are skipped.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, primary_muscle, secondary_muscles, equipment, is_compound, notes
		 FROM exercises ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var (
			ex        models.Exercise
			primary   string
			secondary []string
			equipment []string
		)
		if err := rows.Scan(&ex.ID, &ex.Name, &primary, &secondary, &equipment, &ex.Compound, &ex.Notes); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		m, ok := models.ParseMuscleGroup(primary)
		if !ok {
			continue
		}
		ex.Primary = m
		ex.Secondary = models.ParseMuscleGroups(secondary)
		for _, name := range equipment {
			ex.Equipment = append(ex.Equipment, models.Equipment(name))
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// CountExercises returns the catalogue size.
func (db *DB) CountExercises(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting exercises: %w", err)
	}
	return n, nil
}

func muscleNames(ms []models.MuscleGroup) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.String())
	}
	return out
}

func equipmentNames(es []models.Equipment) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, string(e))
	}
	return out
}
