package fatigue

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

const (
	shortActivityMinutes = 20
	longActivityMinutes  = 90
)

type activityProfile struct {
	name   string
	kind   models.SourceKind
	levels models.FatigueMap
}

// activities maps a normalized activity type to the fatigue it causes.
var activities = map[string]activityProfile{}

func register(name string, kind models.SourceKind, levels models.FatigueMap, aliases ...string) {
	p := activityProfile{name: name, kind: kind, levels: levels}
	activities[normalize(name)] = p
	for _, a := range aliases {
		activities[normalize(a)] = p
	}
}

func init() {
	const (
		tracker = models.SourceExternalTracker
		sport   = models.SourceExternalSport
		low     = models.FatigueLow
		med     = models.FatigueMedium
		high    = models.FatigueHigh
	)
	register("Running", tracker, models.FatigueMap{
		models.Quads: high, models.Hamstrings: med, models.Calves: high, models.Glutes: med, models.HipFlexors: med,
	}, "run", "outdoor run", "indoor run", "trail running", "treadmill")
	register("Walking", tracker, models.FatigueMap{
		models.Calves: low, models.Quads: low,
	}, "walk", "outdoor walk", "indoor walk")
	register("Hiking", tracker, models.FatigueMap{
		models.Quads: med, models.Glutes: med, models.Calves: med, models.Hamstrings: low,
	}, "hike")
	register("Cycling", tracker, models.FatigueMap{
		models.Quads: high, models.Glutes: med, models.Calves: med, models.Hamstrings: low,
	}, "outdoor cycle", "indoor cycle", "biking", "spinning")
	register("Swimming", tracker, models.FatigueMap{
		models.Back: med, models.Shoulders: high, models.Triceps: low, models.Core: low,
	}, "pool swim", "open water swim")
	register("Rowing", tracker, models.FatigueMap{
		models.Back: high, models.Quads: med, models.Biceps: med, models.Hamstrings: low, models.Core: low,
	}, "indoor rowing", "rower")
	register("Yoga", tracker, models.FatigueMap{
		models.Core: low, models.Hamstrings: low,
	})
	register("Pilates", tracker, models.FatigueMap{
		models.Core: med, models.HipFlexors: low,
	})
	register("HIIT", tracker, models.FatigueMap{
		models.Quads: med, models.Core: med, models.Shoulders: low, models.Glutes: med,
	}, "high intensity interval training")
	register("Functional Strength Training", tracker, models.FatigueMap{
		models.Core: med, models.Quads: med, models.Shoulders: med, models.Back: low,
	}, "functional training")
	register("Traditional Strength Training", tracker, models.FatigueMap{
		models.Chest: low, models.Back: low, models.Quads: low, models.Shoulders: low,
	}, "strength training", "weight training")
	register("Cross Training", tracker, models.FatigueMap{
		models.Quads: med, models.Core: med, models.Shoulders: med, models.Back: med,
	}, "crossfit")
	register("Core Training", tracker, models.FatigueMap{
		models.Core: high, models.HipFlexors: low,
	})
	register("Elliptical", tracker, models.FatigueMap{
		models.Quads: med, models.Glutes: low, models.Calves: low,
	})
	register("Stair Climbing", tracker, models.FatigueMap{
		models.Quads: high, models.Glutes: med, models.Calves: med,
	}, "stairs", "stair stepper")
	register("Dance", tracker, models.FatigueMap{
		models.Calves: med, models.Quads: low, models.Core: low,
	}, "dancing")
	register("Skating", tracker, models.FatigueMap{
		models.Quads: med, models.Glutes: med, models.HipFlexors: low,
	})
	register("Climbing", sport, models.FatigueMap{
		models.Forearms: high, models.Back: high, models.Biceps: med, models.Shoulders: low,
	}, "bouldering", "rock climbing")
	register("Boxing", sport, models.FatigueMap{
		models.Shoulders: high, models.Core: med, models.Triceps: low, models.Calves: low,
	}, "kickboxing", "martial arts")
	register("Soccer", sport, models.FatigueMap{
		models.Quads: high, models.Hamstrings: high, models.Calves: med, models.HipFlexors: med,
	}, "football")
	register("Basketball", sport, models.FatigueMap{
		models.Quads: med, models.Calves: high, models.Shoulders: low,
	})
	register("Tennis", sport, models.FatigueMap{
		models.Shoulders: med, models.Forearms: med, models.Quads: low, models.Calves: low,
	}, "padel", "squash", "badminton")
	register("Volleyball", sport, models.FatigueMap{
		models.Shoulders: med, models.Quads: med, models.Calves: med,
	})
	register("Golf", sport, models.FatigueMap{
		models.Core: low, models.Forearms: low,
	})
	register("Skiing", sport, models.FatigueMap{
		models.Quads: high, models.Glutes: med, models.Core: low,
	}, "downhill skiing", "cross country skiing")
	register("Snowboarding", sport, models.FatigueMap{
		models.Quads: med, models.Glutes: med, models.Core: med,
	})
}

// normalize lowercases and collapses separators: "Outdoor_Run" becomes "outdoor run".
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// MapActivity returns the base fatigue caused by an activity type. Unknown
// activities return an empty map, meaning no event should be created.
func MapActivity(activityType string) models.FatigueMap {
	p, ok := activities[normalize(activityType)]
	if !ok {
		return models.FatigueMap{}
	}
	return p.levels.Clone()
}

// ScaleByDuration lowers every level one rank for sessions shorter than 20
// minutes and raises it one rank for sessions longer than 90 minutes.
// The input map is not modified.
func ScaleByDuration(levels models.FatigueMap, minutes float64) models.FatigueMap {
	delta := 0
	switch {
	case minutes < shortActivityMinutes:
		delta = -1
	case minutes > longActivityMinutes:
		delta = 1
	}
	out := make(models.FatigueMap, len(levels))
	for m, l := range levels {
		out[m] = l.Shift(delta)
	}
	return out
}

// Translate turns one external activity into a fatigue event. It returns nil
// when the activity type is not mapped.
func Translate(activityType string, start time.Time, minutes float64) *models.FatigueEvent {
	p, ok := activities[normalize(activityType)]
	if !ok || len(p.levels) == 0 {
		return nil
	}
	return &models.FatigueEvent{
		ID:         uuid.New(),
		Timestamp:  start,
		SourceKind: p.kind,
		SourceName: p.name,
		Levels:     ScaleByDuration(p.levels, minutes),
	}
}

// TranslateRecord is Translate for an ActivityRecord.
func TranslateRecord(r models.ActivityRecord) *models.FatigueEvent {
	return Translate(r.Type, r.Start, r.DurationSeconds/60)
}

// KnownActivities lists the display names of every mapped activity.
func KnownActivities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range activities {
		if !seen[p.name] {
			seen[p.name] = true
			out = append(out, p.name)
		}
	}
	slices.Sort(out)
	return out
}
