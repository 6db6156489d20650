package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FatigueLevel is an ordinal fatigue rating with ranks 0 (none) to 4 (severe).
type FatigueLevel int

const (
	FatigueNone FatigueLevel = iota
	FatigueLow
	FatigueMedium
	FatigueHigh
	FatigueSevere
)

const maxFatigueRank = int(FatigueSevere)

var fatigueNames = [...]string{"none", "low", "medium", "high", "severe"}

// Rank returns the integer rank of the level.
func (l FatigueLevel) Rank() int { return int(l) }

// LevelFromRank converts a rank to a level, clamping into [none, severe].
func LevelFromRank(rank int) FatigueLevel {
	switch {
	case rank < 0:
		return FatigueNone
	case rank > maxFatigueRank:
		return FatigueSevere
	}
	return FatigueLevel(rank)
}

// Combine adds two levels, saturating at severe.
func (l FatigueLevel) Combine(other FatigueLevel) FatigueLevel {
	return LevelFromRank(l.Rank() + other.Rank())
}

// Shift moves the level by delta ranks, clamped into [none, severe].
func (l FatigueLevel) Shift(delta int) FatigueLevel {
	return LevelFromRank(l.Rank() + delta)
}

func (l FatigueLevel) String() string {
	return fatigueNames[LevelFromRank(int(l))]
}

// ParseFatigueLevel maps a level name to its value. Unknown names map to none.
func ParseFatigueLevel(s string) FatigueLevel {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range fatigueNames {
		if name == key {
			return FatigueLevel(i)
		}
	}
	return FatigueNone
}

func (l FatigueLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *FatigueLevel) UnmarshalText(b []byte) error {
	*l = ParseFatigueLevel(string(b))
	return nil
}

// FatigueMap holds a fatigue level per muscle group. Absent keys mean none.
type FatigueMap map[MuscleGroup]FatigueLevel

// Level returns the level for m, or none when m is absent.
func (f FatigueMap) Level(m MuscleGroup) FatigueLevel {
	return f[m]
}

// Clone returns an independent copy of f.
func (f FatigueMap) Clone() FatigueMap {
	out := make(FatigueMap, len(f))
	for m, l := range f {
		out[m] = l
	}
	return out
}

// UnmarshalJSON decodes {"quads":"high"} and drops muscle names it does not
// recognize instead of failing the whole document.
func (f *FatigueMap) UnmarshalJSON(data []byte) error {
	var raw map[string]FatigueLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FatigueMap, len(raw))
	for name, level := range raw {
		if m, ok := ParseMuscleGroup(name); ok {
			out[m] = level
		}
	}
	*f = out
	return nil
}

// SourceKind identifies where a fatigue event came from.
type SourceKind string

const (
	SourceGym             SourceKind = "gym"
	SourceExternalSport   SourceKind = "external_sport"
	SourceExternalTracker SourceKind = "external_tracker"
)

// FatigueEvent is a timestamped record asserting fatigue on some muscles.
type FatigueEvent struct {
	ID         uuid.UUID  `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	SourceKind SourceKind `json:"source_kind"`
	SourceName string     `json:"source_name"`
	Levels     FatigueMap `json:"levels"`
}

// EventKey identifies an event for de-duplication.
type EventKey struct {
	Timestamp  int64
	SourceName string
}

// Key returns the de-duplication key of the event.
func (e FatigueEvent) Key() EventKey {
	return EventKey{Timestamp: e.Timestamp.UnixNano(), SourceName: e.SourceName}
}
