package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/models"
)

// HTTPClient implements DataSource by calling the RepCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// is sent with every request and may be empty when the server has none.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, coach.ErrNotFound)
	case http.StatusBadGateway:
		return fmt.Errorf("httpclient: %s: %w: %s", path, coach.ErrUpstream, data)
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Fatigue(ctx context.Context, at time.Time) (*coach.FatigueReport, error) {
	params := url.Values{}
	if !at.IsZero() {
		params.Set("at", at.Format(time.RFC3339))
	}
	var report coach.FatigueReport
	if err := c.do(ctx, http.MethodGet, "/api/v1/fatigue", params, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) Generate(ctx context.Context, req coach.GenerateRequest) (*coach.Plan, error) {
	body := map[string]any{"minutes": req.Minutes}
	if req.Goal != "" {
		body["goal"] = req.Goal
	}
	if req.Equipment != nil {
		body["equipment"] = req.Equipment
	}
	var plan coach.Plan
	if err := c.do(ctx, http.MethodPost, "/api/v1/workouts/generate", nil, body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *HTTPClient) Alternative(ctx context.Context, req coach.SwapRequest) (*models.WorkoutSlot, error) {
	body := map[string]any{"exercise_id": req.ExerciseID}
	if req.Goal != "" {
		body["goal"] = req.Goal
	}
	if req.Equipment != nil {
		body["equipment"] = req.Equipment
	}
	var resp struct {
		Alternative *models.WorkoutSlot `json:"alternative"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/workouts/alternative", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Alternative, nil
}

func (c *HTTPClient) Progression(ctx context.Context, exerciseID string, goal models.WorkoutGoal) (*models.ProgressionTarget, error) {
	params := url.Values{}
	if goal != "" {
		params.Set("goal", string(goal))
	}
	var target models.ProgressionTarget
	path := "/api/v1/exercises/" + url.PathEscape(exerciseID) + "/progression"
	if err := c.do(ctx, http.MethodGet, path, params, nil, &target); err != nil {
		return nil, err
	}
	return &target, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises", nil, nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// SetOverride ignores at; the server stamps overrides with its own clock.
func (c *HTTPClient) SetOverride(ctx context.Context, m models.MuscleGroup, enabled bool, _ time.Time) (fatigue.OverrideChange, error) {
	body := map[string]any{"muscle": m.String(), "enabled": enabled}
	var resp struct {
		Added   *models.FatigueEvent `json:"added"`
		Removed []uuid.UUID          `json:"removed"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/fatigue/override", nil, body, &resp); err != nil {
		return fatigue.OverrideChange{}, err
	}
	return fatigue.OverrideChange{Added: resp.Added, Removed: resp.Removed}, nil
}

// Window returns the fatigue window in hours.
func (c *HTTPClient) Window(ctx context.Context) (int, error) {
	var body struct {
		WindowHours int `json:"window_hours"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/fatigue/window", nil, nil, &body); err != nil {
		return 0, err
	}
	return body.WindowHours, nil
}

// SetWindow changes the fatigue window.
func (c *HTTPClient) SetWindow(ctx context.Context, hours int) error {
	in := map[string]int{"window_hours": hours}
	var out map[string]int
	return c.do(ctx, http.MethodPut, "/api/v1/fatigue/window", nil, in, &out)
}

// RecentSessions returns the sessions logged in the last days days.
func (c *HTTPClient) RecentSessions(ctx context.Context, days int) ([]models.SessionLog, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	var sessions []models.SessionLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions", params, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
