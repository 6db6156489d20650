package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// InsertFatigueEvents batch-inserts events. Events whose (timestamp, source
// name) already exists are skipped. Returns count inserted.
func (db *DB) InsertFatigueEvents(ctx context.Context, events []models.FatigueEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `INSERT INTO fatigue_events (id, occurred_at, source_kind, source_name, levels) VALUES `
	args := make([]any, 0, len(events)*5)
	valueStrings := make([]string, 0, len(events))

	for i, e := range events {
		levels, err := json.Marshal(e.Levels)
		if err != nil {
			return 0, fmt.Errorf("encoding levels: %w", err)
		}
		base := i * 5
		valueStrings = append(valueStrings, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, e.ID, e.Timestamp, string(e.SourceKind), e.SourceName, levels)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting fatigue events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListFatigueEvents returns events at or after since, oldest first.
func (db *DB) ListFatigueEvents(ctx context.Context, since time.Time) ([]models.FatigueEvent, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, occurred_at, source_kind, source_name, levels
		 FROM fatigue_events
		 WHERE occurred_at >= $1
		 ORDER BY occurred_at ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("querying fatigue events: %w", err)
	}
	defer rows.Close()

	var result []models.FatigueEvent
	for rows.Next() {
		var (
			e      models.FatigueEvent
			kind   string
			levels []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &kind, &e.SourceName, &levels); err != nil {
			return nil, fmt.Errorf("scanning fatigue event: %w", err)
		}
		e.SourceKind = models.SourceKind(kind)
		e.Levels = decodeLevels(levels)
		result = append(result, e)
	}
	return result, rows.Err()
}

// decodeLevels tolerates malformed documents by returning an empty map.
func decodeLevels(raw []byte) models.FatigueMap {
	var m models.FatigueMap
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return models.FatigueMap{}
	}
	return m
}

// DeleteFatigueEvents removes events by ID. Returns count deleted.
func (db *DB) DeleteFatigueEvents(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM fatigue_events WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting fatigue events: %w", err)
	}
	return tag.RowsAffected(), nil
}
