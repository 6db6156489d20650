package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/models"
)

// heavySessionSets is the number of working sets at which a session counts
// as heavy for the exercise's primary muscle.
const heavySessionSets = 3

// SessionSourcePrefix prefixes the source name of completion events.
const SessionSourcePrefix = "Session: "

// SessionEvent summarizes a completed session as one gym fatigue event.
// Primary muscles get high after heavySessionSets working sets and medium
// otherwise; secondary muscles get low. Repeated muscles combine. Exercises
// not found in byID contribute nothing. It returns nil when no muscle was
// trained.
func SessionEvent(log models.SessionLog, byID map[string]models.Exercise) *models.FatigueEvent {
	levels := models.FatigueMap{}
	for _, le := range log.Exercises {
		ex, ok := byID[le.ExerciseID]
		if !ok {
			continue
		}
		working := le.WorkingSets()
		if working == 0 {
			continue
		}
		primary := models.FatigueMedium
		if working >= heavySessionSets {
			primary = models.FatigueHigh
		}
		levels[ex.Primary] = levels.Level(ex.Primary).Combine(primary)
		for _, m := range ex.Secondary {
			levels[m] = levels.Level(m).Combine(models.FatigueLow)
		}
	}
	if len(levels) == 0 {
		return nil
	}

	name := log.Name
	if name == "" {
		name = "Workout"
	}
	return &models.FatigueEvent{
		ID:         uuid.New(),
		Timestamp:  log.Date,
		SourceKind: models.SourceGym,
		SourceName: SessionSourcePrefix + name,
		Levels:     levels,
	}
}

// resolveExercises fills missing exercise IDs by case-insensitive name match.
func resolveExercises(log models.SessionLog, exercises []models.Exercise) (models.SessionLog, map[string]models.Exercise) {
	byID := make(map[string]models.Exercise, len(exercises))
	byName := make(map[string]string, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
		byName[strings.ToLower(ex.Name)] = ex.ID
	}

	resolved := log
	resolved.Exercises = make([]models.LoggedExercise, len(log.Exercises))
	for i, le := range log.Exercises {
		if _, ok := byID[le.ExerciseID]; !ok {
			le.ExerciseID = byName[strings.ToLower(strings.TrimSpace(le.Name))]
		}
		if le.Name == "" {
			le.Name = byID[le.ExerciseID].Name
		}
		resolved.Exercises[i] = le
	}
	return resolved, byID
}

// LogSession stores a completed session as exercise history and records its
// fatigue. Logging the same session again replaces its sets.
func (s *Service) LogSession(ctx context.Context, log models.SessionLog) (*ingest.Result, error) {
	if log.Date.IsZero() {
		return nil, fmt.Errorf("session date is required")
	}
	exercises, err := s.store.ListExercises(ctx)
	if err != nil {
		return nil, s.upstream("load catalogue", err)
	}
	log, byID := resolveExercises(log, exercises)

	result := &ingest.Result{SessionsReceived: 1}
	rows := log.Rows()
	result.SetsReceived = len(rows)

	inserted, err := s.store.ReplaceWorkoutSets(ctx, log.Date, rows)
	if err != nil {
		return nil, s.upstream("replace session", err)
	}
	result.SetsInserted = inserted

	if e := SessionEvent(log, byID); e != nil {
		if err := s.insertEvents(ctx, []models.FatigueEvent{*e}, result); err != nil {
			return nil, err
		}
	}
	s.log.Info("session logged", "name", log.Name, "date", log.Date, "sets", result.SetsInserted)
	return result, nil
}

// defaultHistoryDays is the lookback of RecentSessions when none is given.
const defaultHistoryDays = 14

// RecentSessions returns the sessions logged in the last days days, newest
// first.
func (s *Service) RecentSessions(ctx context.Context, days int) ([]models.SessionLog, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}
	now := s.at(time.Time{})
	rows, err := s.store.QueryWorkoutSets(ctx, now.AddDate(0, 0, -days), now.Add(time.Second))
	if err != nil {
		return nil, s.upstream("load sessions", err)
	}
	return models.SessionsFromRows(rows), nil
}
