package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/models"
)

type fakeSource struct {
	generate coach.GenerateRequest
	override models.MuscleGroup
	enabled  bool
	noSwap   bool
}

func (f *fakeSource) Fatigue(context.Context, time.Time) (*coach.FatigueReport, error) {
	return &coach.FatigueReport{WindowHours: 48}, nil
}

func (f *fakeSource) Generate(_ context.Context, req coach.GenerateRequest) (*coach.Plan, error) {
	f.generate = req
	return &coach.Plan{Minutes: req.Minutes}, nil
}

func (f *fakeSource) Alternative(_ context.Context, req coach.SwapRequest) (*models.WorkoutSlot, error) {
	if req.ExerciseID == "missing" {
		return nil, coach.ErrNotFound
	}
	if f.noSwap {
		return nil, nil
	}
	return &models.WorkoutSlot{Exercise: models.Exercise{ID: "goblet_squat"}}, nil
}

func (f *fakeSource) Progression(context.Context, string, models.WorkoutGoal) (*models.ProgressionTarget, error) {
	return nil, errors.New("db down")
}

func (f *fakeSource) Exercises(context.Context) ([]models.Exercise, error) {
	return []models.Exercise{
		{ID: "bench_press", Primary: models.Chest},
		{ID: "back_squat", Primary: models.Quads},
	}, nil
}

func (f *fakeSource) SetOverride(_ context.Context, m models.MuscleGroup, enabled bool, _ time.Time) (fatigue.OverrideChange, error) {
	f.override, f.enabled = m, enabled
	return fatigue.OverrideChange{}, nil
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return text.Text
}

// TestSplitEquipment verifies empty means default and "none" means bodyweight only.
func TestSplitEquipment(t *testing.T) {
	if got := splitEquipment(""); got != nil {
		t.Errorf("empty = %v, want nil", got)
	}
	if got := splitEquipment("none"); got == nil || len(got) != 0 {
		t.Errorf("none = %v, want empty non-nil", got)
	}
	got := splitEquipment(" barbell, bench ,,dumbbell")
	if len(got) != 3 || got[1] != "bench" {
		t.Errorf("list = %v", got)
	}
}

// TestParseAt verifies the optional time argument formats.
func TestParseAt(t *testing.T) {
	at, err := parseAt("")
	if err != nil || !at.IsZero() {
		t.Errorf("empty = %v, %v", at, err)
	}
	at, err = parseAt("2024-06-15T10:30:00Z")
	if err != nil || at.Hour() != 10 {
		t.Errorf("rfc3339 = %v, %v", at, err)
	}
	at, err = parseAt("2024-06-15")
	if err != nil || at.Day() != 15 {
		t.Errorf("date = %v, %v", at, err)
	}
	if _, err := parseAt("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestGenerateWorkoutTool verifies arguments reach the data source.
func TestGenerateWorkoutTool(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(ds)

	res, err := h.generateWorkout(context.Background(), call(map[string]any{
		"minutes":   float64(50),
		"goal":      "strength",
		"equipment": "barbell,bench",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if ds.generate.Minutes != 50 || ds.generate.Goal != models.GoalStrength || len(ds.generate.Equipment) != 2 {
		t.Errorf("request = %+v", ds.generate)
	}

	res, _ = h.generateWorkout(context.Background(), call(map[string]any{"minutes": float64(30), "goal": "bulk"}))
	if !res.IsError {
		t.Error("expected error for unknown goal")
	}
	res, _ = h.generateWorkout(context.Background(), call(map[string]any{}))
	if !res.IsError {
		t.Error("expected error for missing minutes")
	}
}

// TestFindAlternativeTool verifies unknown exercises and empty results.
func TestFindAlternativeTool(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(ds)

	res, _ := h.findAlternative(context.Background(), call(map[string]any{"exercise_id": "missing"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "unknown exercise") {
		t.Errorf("missing exercise result = %+v", res)
	}

	ds.noSwap = true
	res, _ = h.findAlternative(context.Background(), call(map[string]any{"exercise_id": "back_squat"}))
	if res.IsError || !strings.Contains(resultText(t, res), "No alternative") {
		t.Errorf("no swap result = %+v", res)
	}
}

// TestSuggestProgressionToolError verifies data source failures become tool errors.
func TestSuggestProgressionToolError(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.suggestProgression(context.Background(), call(map[string]any{"exercise_id": "bench_press"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestListExercisesFilter verifies the muscle filter.
func TestListExercisesFilter(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, _ := h.listExercises(context.Background(), call(map[string]any{"muscle": "quads"}))
	text := resultText(t, res)
	if !strings.Contains(text, "back_squat") || strings.Contains(text, "bench_press") {
		t.Errorf("filtered = %s", text)
	}

	res, _ = h.listExercises(context.Background(), call(map[string]any{"muscle": "wings"}))
	if !res.IsError {
		t.Error("expected error for unknown muscle")
	}
}

// TestMarkSoreTool verifies the enabled flag defaults to true.
func TestMarkSoreTool(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(ds)

	if _, err := h.markSore(context.Background(), call(map[string]any{"muscle": "Quads"})); err != nil {
		t.Fatal(err)
	}
	if ds.override != models.Quads || !ds.enabled {
		t.Errorf("override = %v enabled = %v", ds.override, ds.enabled)
	}

	h.markSore(context.Background(), call(map[string]any{"muscle": "quads", "enabled": false}))
	if ds.enabled {
		t.Error("enabled = true, want false")
	}
}

// TestNewRegistersTools verifies the server builds with all tools.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("nil server")
	}
}
