package hae

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/models"
)

// ActivityIngester turns external activities into fatigue events.
type ActivityIngester interface {
	IngestActivities(ctx context.Context, records []models.ActivityRecord) (*ingest.Result, error)
}

// Provider processes Health Auto Export REST API payloads.
type Provider struct {
	sink ActivityIngester
	log  *slog.Logger
}

// NewProvider creates a new HAE ingest provider.
func NewProvider(sink ActivityIngester, log *slog.Logger) *Provider {
	return &Provider{sink: sink, log: log}
}

// Ingest converts the workouts of an HAE payload into activity records and
// hands them to the fatigue pipeline. Workouts without a start time are
// skipped.
func (p *Provider) Ingest(ctx context.Context, payload *models.HAEPayload) (*ingest.Result, error) {
	records := make([]models.ActivityRecord, 0, len(payload.Data.Workouts))
	for _, w := range payload.Data.Workouts {
		if w.Start.IsZero() {
			p.log.Warn("skipping workout: missing start", "id", w.ID, "name", w.Name)
			continue
		}
		records = append(records, w.Activity())
	}
	if len(records) == 0 {
		return &ingest.Result{}, nil
	}

	result, err := p.sink.IngestActivities(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("processing workouts: %w", err)
	}
	p.log.Info("hae import complete",
		"workouts", len(records),
		"events_inserted", result.EventsInserted,
		"unmapped", result.ActivitiesUnmapped)
	return result, nil
}
