package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/catalog"
	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/models"
)

func (s *Server) handleHAEIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.HAEPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result, err := s.hae.Ingest(r.Context(), &payload)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		if errors.Is(err, coach.ErrUpstream) {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	var records []models.ActivityRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	result, err := s.svc.IngestActivities(r.Context(), records)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleKnownActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fatigue.KnownActivities())
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var log models.SessionLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if log.Date.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}
	result, err := s.svc.LogSession(r.Context(), log)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be a positive integer"})
			return
		}
		days = n
	}
	sessions, err := s.svc.RecentSessions(r.Context(), days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []models.SessionLog{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleFatigue(w http.ResponseWriter, r *http.Request) {
	at, err := parseAt(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid at: " + err.Error()})
		return
	}
	report, err := s.svc.Fatigue(r.Context(), at)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type windowBody struct {
	WindowHours int `json:"window_hours"`
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	hours, err := s.svc.Window(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, windowBody{WindowHours: hours})
}

func (s *Server) handleSetWindow(w http.ResponseWriter, r *http.Request) {
	var body windowBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.svc.SetWindow(r.Context(), body.WindowHours); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

type overrideRequest struct {
	Muscle  string `json:"muscle"`
	Enabled *bool  `json:"enabled"`
}

type overrideResponse struct {
	Muscle  models.MuscleGroup   `json:"muscle"`
	Enabled bool                 `json:"enabled"`
	Changed bool                 `json:"changed"`
	Added   *models.FatigueEvent `json:"added,omitempty"`
	Removed []uuid.UUID          `json:"removed,omitempty"`
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	m, ok := models.ParseMuscleGroup(req.Muscle)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown muscle group: " + req.Muscle})
		return
	}
	enabled := req.Enabled == nil || *req.Enabled

	change, err := s.svc.SetOverride(r.Context(), m, enabled, time.Time{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overrideResponse{
		Muscle:  m,
		Enabled: enabled,
		Changed: change.Changed(),
		Added:   change.Added,
		Removed: change.Removed,
	})
}

type generateRequest struct {
	Minutes   int      `json:"minutes"`
	Goal      string   `json:"goal"`
	Equipment []string `json:"equipment"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	goal, err := parseGoal(req.Goal)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	plan, err := s.svc.Generate(r.Context(), coach.GenerateRequest{
		Minutes:   req.Minutes,
		Goal:      goal,
		Equipment: req.Equipment,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type alternativeRequest struct {
	ExerciseID string   `json:"exercise_id"`
	Goal       string   `json:"goal"`
	Equipment  []string `json:"equipment"`
}

func (s *Server) handleAlternative(w http.ResponseWriter, r *http.Request) {
	var req alternativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_id is required"})
		return
	}
	goal, err := parseGoal(req.Goal)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	slot, err := s.svc.Alternative(r.Context(), coach.SwapRequest{
		ExerciseID: req.ExerciseID,
		Goal:       goal,
		Equipment:  req.Equipment,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	// a null alternative is a normal outcome, not an error
	writeJSON(w, http.StatusOK, map[string]any{"alternative": slot})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.svc.Exercises(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleImportExercises(w http.ResponseWriter, r *http.Request) {
	exercises, skipped, err := catalog.Parse(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	n, err := s.svc.ImportExercises(r.Context(), exercises)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": n,
		"skipped":  skipped,
	})
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	goal, err := parseGoal(r.URL.Query().Get("goal"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	target, err := s.svc.Progression(r.Context(), chi.URLParam(r, "id"), goal)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// writeError maps service errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, coach.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, coach.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, fatigue.ErrInvalidWindow), errors.Is(err, models.ErrUnknownGoal):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseGoal treats an empty goal as the configured default.
func parseGoal(s string) (models.WorkoutGoal, error) {
	if s == "" {
		return "", nil
	}
	return models.ParseWorkoutGoal(s)
}

// parseAt reads the optional "at" query parameter. Zero means now.
func parseAt(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("at")
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
