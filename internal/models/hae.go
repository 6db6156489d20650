package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// HAETime handles the Health Auto Export date format: "2006-01-02 15:04:05 -0700"
// Also handles the date-only format "2006-01-02".
type HAETime struct {
	time.Time
}

const (
	HAETimeLayout     = "2006-01-02 15:04:05 -0700"
	HAEDateOnlyLayout = "2006-01-02"
)

func (t *HAETime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.Parse(s)
}

func (t HAETime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(HAETimeLayout))
}

// Parse parses a HAE time string, trying full datetime first, then date-only.
func (t *HAETime) Parse(s string) error {
	parsed, err := time.Parse(HAETimeLayout, s)
	if err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err2 := time.Parse(HAEDateOnlyLayout, s)
	if err2 == nil {
		t.Time = parsed
		return nil
	}
	return fmt.Errorf("cannot parse HAE time %q: %w", s, err)
}

// ParseHAETime parses a HAE time string into a time.Time.
func ParseHAETime(s string) (time.Time, error) {
	var t HAETime
	if err := t.Parse(s); err != nil {
		return time.Time{}, err
	}
	return t.Time, nil
}

// HAEPayload is the top-level REST API JSON structure.
type HAEPayload struct {
	Data HAEData `json:"data"`
}

// HAEData holds the workouts of an export. Metric arrays are not read.
type HAEData struct {
	Workouts []HAEWorkout `json:"workouts"`
}

// HAEWorkout is a workout from the REST API (Version 2).
type HAEWorkout struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Start    HAETime `json:"start"`
	End      HAETime `json:"end"`
	Duration float64 `json:"duration"`

	Location string `json:"location,omitempty"`
	IsIndoor *bool  `json:"isIndoor,omitempty"`

	ActiveEnergyBurned *HAEQuantity `json:"activeEnergyBurned,omitempty"`
	Distance           *HAEQuantity `json:"distance,omitempty"`
	AvgHR              *HAEQuantity `json:"avgHeartRate,omitempty"`
}

// HAEQuantity is the {"qty": N, "units": "..."} structure.
type HAEQuantity struct {
	Qty   float64 `json:"qty"`
	Units string  `json:"units"`
}

// Activity converts the workout to an activity record. Duration is in
// seconds; when it is missing the start/end span is used.
func (w HAEWorkout) Activity() ActivityRecord {
	secs := w.Duration
	if secs <= 0 && !w.End.IsZero() && w.End.After(w.Start.Time) {
		secs = w.End.Sub(w.Start.Time).Seconds()
	}
	return ActivityRecord{
		Type:            w.Name,
		Start:           w.Start.Time,
		DurationSeconds: secs,
	}
}
