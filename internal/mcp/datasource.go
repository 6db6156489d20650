package mcp

import (
	"context"
	"time"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/models"
)

// DataSource abstracts the coaching backend for MCP tools. Both
// *coach.Service (local) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	Fatigue(ctx context.Context, at time.Time) (*coach.FatigueReport, error)
	Generate(ctx context.Context, req coach.GenerateRequest) (*coach.Plan, error)
	Alternative(ctx context.Context, req coach.SwapRequest) (*models.WorkoutSlot, error)
	Progression(ctx context.Context, exerciseID string, goal models.WorkoutGoal) (*models.ProgressionTarget, error)
	Exercises(ctx context.Context) ([]models.Exercise, error)
	SetOverride(ctx context.Context, m models.MuscleGroup, enabled bool, at time.Time) (fatigue.OverrideChange, error)
}

// Compile-time check: *coach.Service satisfies DataSource.
var _ DataSource = (*coach.Service)(nil)
