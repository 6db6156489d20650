package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/models"
)

// parseAt reads an optional RFC3339 or YYYY-MM-DD time. Empty means now.
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseGoal treats an empty goal as the server default.
func parseGoal(s string) (models.WorkoutGoal, error) {
	if s == "" {
		return "", nil
	}
	return models.ParseWorkoutGoal(s)
}

// splitEquipment reads a comma-separated equipment list. An empty string
// yields nil so the configured equipment is used.
func splitEquipment(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.EqualFold(s, "none") {
		return []string{}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

var goalEnum = mcp.Enum("strength", "hypertrophy", "endurance", "general_fitness")

// --- Tool definitions ---

var toolGetFatigue = mcp.NewTool("get_fatigue",
	mcp.WithDescription("Current fatigue per muscle group (none/low/medium/high/severe), derived from recent workouts and activities. Muscles at high or severe are blocked from training."),
	mcp.WithString("at", mcp.Description("Evaluate fatigue at this time (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a strength session that fits the time budget, avoids fatigued muscles and only uses available equipment. Each slot includes sets, reps and a progression target."),
	mcp.WithNumber("minutes", mcp.Required(), mcp.Description("Available time in minutes, including a 5 minute warm-up")),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to the server's configured goal."), goalEnum),
	mcp.WithString("equipment", mcp.Description("Comma-separated available equipment (e.g. 'barbell,bench,dumbbell'), or 'none' for bodyweight only. Defaults to the server's configured equipment.")),
)

var toolFindAlternative = mcp.NewTool("find_alternative",
	mcp.WithDescription("Find a replacement for an exercise that targets the same primary muscle, preferring different equipment and movement type."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("ID of the exercise to replace (see list_exercises)")),
	mcp.WithString("goal", mcp.Description("Training goal for the replacement slot."), goalEnum),
	mcp.WithString("equipment", mcp.Description("Comma-separated available equipment, or 'none'. Defaults to the server's configured equipment.")),
)

var toolSuggestProgression = mcp.NewTool("suggest_progression",
	mcp.WithDescription("Suggest weight and reps for the next session of an exercise using double progression on the last logged performance."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithString("goal", mcp.Description("Training goal that sets the rep range."), goalEnum),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalogue with primary/secondary muscles and required equipment."),
	mcp.WithString("muscle", mcp.Description("Only exercises whose primary muscle is this group (e.g. 'chest', 'hamstrings')")),
)

var toolMarkSore = mcp.NewTool("mark_sore",
	mcp.WithDescription("Manually mark a muscle as sore so the planner avoids it, or clear that mark."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Muscle group (e.g. 'quads', 'hip_flexors')")),
	mcp.WithBoolean("enabled", mcp.Description("true to mark sore, false to clear. Defaults to true.")),
)

// --- Tool handlers ---

func (h *handlers) getFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at, err := parseAt(req.GetString("at", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	report, err := h.ds.Fatigue(ctx, at)
	if err != nil {
		h.log.Error("mcp get_fatigue", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(report)
}

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minutes, err := req.RequireInt("minutes")
	if err != nil {
		return mcp.NewToolResultError("minutes parameter is required"), nil
	}
	goal, err := parseGoal(req.GetString("goal", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := h.ds.Generate(ctx, coach.GenerateRequest{
		Minutes:   minutes,
		Goal:      goal,
		Equipment: splitEquipment(req.GetString("equipment", "")),
	})
	if err != nil {
		h.log.Error("mcp generate_workout", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) findAlternative(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	goal, err := parseGoal(req.GetString("goal", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slot, err := h.ds.Alternative(ctx, coach.SwapRequest{
		ExerciseID: id,
		Goal:       goal,
		Equipment:  splitEquipment(req.GetString("equipment", "")),
	})
	if errors.Is(err, coach.ErrNotFound) {
		return mcp.NewToolResultError("unknown exercise: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp find_alternative", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if slot == nil {
		return mcp.NewToolResultText("No alternative available with the current fatigue and equipment."), nil
	}
	return jsonResult(slot)
}

func (h *handlers) suggestProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	goal, err := parseGoal(req.GetString("goal", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	target, err := h.ds.Progression(ctx, id, goal)
	if errors.Is(err, coach.ErrNotFound) {
		return mcp.NewToolResultError("unknown exercise: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp suggest_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(target)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.Exercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if name := req.GetString("muscle", ""); name != "" {
		m, ok := models.ParseMuscleGroup(name)
		if !ok {
			return mcp.NewToolResultError("unknown muscle group: " + name), nil
		}
		var filtered []models.Exercise
		for _, ex := range exercises {
			if ex.Primary == m {
				filtered = append(filtered, ex)
			}
		}
		exercises = filtered
	}
	return jsonResult(exercises)
}

func (h *handlers) markSore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("muscle")
	if err != nil {
		return mcp.NewToolResultError("muscle parameter is required"), nil
	}
	m, ok := models.ParseMuscleGroup(name)
	if !ok {
		return mcp.NewToolResultError("unknown muscle group: " + name), nil
	}
	enabled := req.GetBool("enabled", true)

	change, err := h.ds.SetOverride(ctx, m, enabled, time.Time{})
	if err != nil {
		h.log.Error("mcp mark_sore", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{
		"muscle":  m,
		"enabled": enabled,
		"changed": change.Changed(),
	})
}
