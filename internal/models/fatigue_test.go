package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestFatigueLevelCombine verifies that combining levels sums ranks and saturates.
func TestFatigueLevelCombine(t *testing.T) {
	tests := []struct {
		a, b FatigueLevel
		want FatigueLevel
	}{
		{FatigueNone, FatigueNone, FatigueNone},
		{FatigueLow, FatigueLow, FatigueMedium},
		{FatigueLow, FatigueMedium, FatigueHigh},
		{FatigueHigh, FatigueMedium, FatigueSevere},
		{FatigueSevere, FatigueSevere, FatigueSevere},
	}
	for _, tt := range tests {
		if got := tt.a.Combine(tt.b); got != tt.want {
			t.Errorf("%s + %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestLevelFromRankClamps verifies out-of-range ranks clamp into [none, severe].
func TestLevelFromRankClamps(t *testing.T) {
	if got := LevelFromRank(-3); got != FatigueNone {
		t.Errorf("rank -3 = %s, want none", got)
	}
	if got := LevelFromRank(9); got != FatigueSevere {
		t.Errorf("rank 9 = %s, want severe", got)
	}
	if got := FatigueMedium.Shift(-5); got != FatigueNone {
		t.Errorf("shift = %s, want none", got)
	}
}

// TestParseFatigueLevelUnknown verifies unknown names decode to none instead of failing.
func TestParseFatigueLevelUnknown(t *testing.T) {
	if got := ParseFatigueLevel("extreme"); got != FatigueNone {
		t.Errorf("got %s, want none", got)
	}
	if got := ParseFatigueLevel(" HIGH "); got != FatigueHigh {
		t.Errorf("got %s, want high", got)
	}
}

// TestFatigueMapJSONRoundTrip verifies maps serialize with muscle and level names.
// Unknown muscles in stored documents are dropped rather than failing the decode.
func TestFatigueMapJSONRoundTrip(t *testing.T) {
	m := FatigueMap{Quads: FatigueHigh, HipFlexors: FatigueLow}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["quads"] != "high" || raw["hip_flexors"] != "low" {
		t.Errorf("raw = %v", raw)
	}

	var got FatigueMap
	if err := json.Unmarshal([]byte(`{"quads":"high","tail":"severe","calves":"bogus"}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[Quads] != FatigueHigh || got[Calves] != FatigueNone {
		t.Errorf("got %v", got)
	}
}

// TestFatigueEventKey verifies the de-duplication key ignores the time zone.
func TestFatigueEventKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := FatigueEvent{Timestamp: ts, SourceName: "Running"}
	b := FatigueEvent{Timestamp: ts.In(time.FixedZone("", 3600)), SourceName: "Running"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %v vs %v", a.Key(), b.Key())
	}
}

// TestParseMuscleGroup verifies separator and case normalization.
func TestParseMuscleGroup(t *testing.T) {
	for _, s := range []string{"hip_flexors", "Hip Flexors", "hip-flexors"} {
		m, ok := ParseMuscleGroup(s)
		if !ok || m != HipFlexors {
			t.Errorf("ParseMuscleGroup(%q) = %v, %v", s, m, ok)
		}
	}
	if _, ok := ParseMuscleGroup("wings"); ok {
		t.Error("expected unknown muscle to fail")
	}
	if got := ParseMuscleGroups([]string{"chest", "wings", "back"}); len(got) != 2 {
		t.Errorf("ParseMuscleGroups = %v", got)
	}
}
