package hae

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/models"
)

type fakeIngester struct {
	records []models.ActivityRecord
	err     error
}

func (f *fakeIngester) IngestActivities(_ context.Context, records []models.ActivityRecord) (*ingest.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, records...)
	return &ingest.Result{ActivitiesReceived: len(records), EventsInserted: int64(len(records))}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const payloadJSON = `{
	"data": {
		"workouts": [
			{"id": "a", "name": "Outdoor Run", "start": "2024-02-06 07:00:00 -0800", "end": "2024-02-06 07:30:00 -0800", "duration": 1800},
			{"id": "b", "name": "Cycling", "start": "2024-02-06 18:00:00 -0800", "end": "2024-02-06 19:00:00 -0800"},
			{"id": "c", "name": "Mystery"}
		]
	}
}`

// TestProviderIngest verifies that workouts reach the ingester as activity records.
// Workouts with no start time are dropped before translation.
func TestProviderIngest(t *testing.T) {
	var payload models.HAEPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sink := &fakeIngester{}
	p := NewProvider(sink, testLogger())

	res, err := p.Ingest(context.Background(), &payload)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(sink.records) != 2 {
		t.Fatalf("records = %d, want 2", len(sink.records))
	}
	if sink.records[0].Type != "Outdoor Run" || sink.records[0].DurationSeconds != 1800 {
		t.Errorf("record 0 = %+v", sink.records[0])
	}
	if sink.records[1].DurationSeconds != 3600 {
		t.Errorf("record 1 duration = %f, want 3600", sink.records[1].DurationSeconds)
	}
	if res.EventsInserted != 2 {
		t.Errorf("events inserted = %d, want 2", res.EventsInserted)
	}
}

// TestProviderIngestEmpty verifies that an empty payload never calls the ingester.
func TestProviderIngestEmpty(t *testing.T) {
	sink := &fakeIngester{err: errors.New("should not be called")}
	p := NewProvider(sink, testLogger())
	res, err := p.Ingest(context.Background(), &models.HAEPayload{})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.EventsInserted != 0 {
		t.Errorf("events inserted = %d", res.EventsInserted)
	}
}

// TestProviderIngestError verifies that ingester failures are returned.
func TestProviderIngestError(t *testing.T) {
	var payload models.HAEPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := NewProvider(&fakeIngester{err: errors.New("db down")}, testLogger())
	if _, err := p.Ingest(context.Background(), &payload); err == nil {
		t.Fatal("expected error")
	}
}
