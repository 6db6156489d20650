// Package fatigue derives per-muscle fatigue from timestamped activity events.
package fatigue

import (
	"math"
	"time"

	"github.com/claude/repcoach/internal/models"
)

// CurrentFatigue aggregates events into a fatigue map as of now.
//
// Each event inside [now-window, now] contributes round(rank * decay) to every
// muscle it names, where decay falls linearly from 1 at age zero to 0 at the
// window edge. Totals saturate at severe. Muscles with no contribution are
// absent from the result. Events after now are ignored.
func CurrentFatigue(events []models.FatigueEvent, window time.Duration, now time.Time) models.FatigueMap {
	out := models.FatigueMap{}
	if window <= 0 {
		return out
	}
	cutoff := now.Add(-window)

	totals := make(map[models.MuscleGroup]int)
	for _, e := range events {
		if e.Timestamp.Before(cutoff) || e.Timestamp.After(now) {
			continue
		}
		decay := math.Max(0, 1-float64(now.Sub(e.Timestamp))/float64(window))
		for m, l := range e.Levels {
			totals[m] += int(math.Round(float64(l.Rank()) * decay))
		}
	}

	for m, total := range totals {
		if total > 0 {
			out[m] = models.LevelFromRank(total)
		}
	}
	return out
}
