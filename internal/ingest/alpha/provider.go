package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/models"
)

// SessionLogger stores completed sessions.
type SessionLogger interface {
	LogSession(ctx context.Context, log models.SessionLog) (*ingest.Result, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	sink SessionLogger
	log  *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(sink SessionLogger, log *slog.Logger) *Provider {
	return &Provider{sink: sink, log: log}
}

// Ingest parses a CSV export and logs every session in it. Re-importing an
// export replaces the sets of sessions already stored.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{}
	for _, s := range sessions {
		res, err := p.sink.LogSession(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("logging session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		result.Add(res)
	}
	p.log.Info("alpha import complete", "sessions", len(sessions), "sets", result.SetsInserted)
	return result, nil
}
