package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/repcoach/internal/coach"
	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/ingest/alpha"
	"github.com/claude/repcoach/internal/ingest/hae"
	"github.com/claude/repcoach/internal/metrics"
	"github.com/claude/repcoach/internal/models"
)

// Service is the coaching backend behind the HTTP API.
type Service interface {
	Fatigue(ctx context.Context, at time.Time) (*coach.FatigueReport, error)
	Generate(ctx context.Context, req coach.GenerateRequest) (*coach.Plan, error)
	Alternative(ctx context.Context, req coach.SwapRequest) (*models.WorkoutSlot, error)
	Progression(ctx context.Context, exerciseID string, goal models.WorkoutGoal) (*models.ProgressionTarget, error)

	IngestActivities(ctx context.Context, records []models.ActivityRecord) (*ingest.Result, error)
	LogSession(ctx context.Context, log models.SessionLog) (*ingest.Result, error)
	RecentSessions(ctx context.Context, days int) ([]models.SessionLog, error)
	SetOverride(ctx context.Context, m models.MuscleGroup, enabled bool, at time.Time) (fatigue.OverrideChange, error)

	Window(ctx context.Context) (int, error)
	SetWindow(ctx context.Context, hours int) error

	Exercises(ctx context.Context) ([]models.Exercise, error)
	ImportExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
}

var _ Service = (*coach.Service)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc      Service
	hae      *hae.Provider
	alpha    *alpha.Provider
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. A nil gatherer
// disables the /metrics endpoint.
func New(svc Service, apiKey string, m *metrics.Manager, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		svc:      svc,
		hae:      hae.NewProvider(svc, log),
		alpha:    alpha.NewProvider(svc, log),
		metrics:  m,
		gatherer: gatherer,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	// Endpoints that change stored data (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/ingest", s.handleHAEIngest)
		r.Post("/api/v1/ingest/alpha", s.handleAlphaIngest)
		r.Post("/api/v1/activities", s.handleActivities)
		r.Post("/api/v1/sessions", s.handleLogSession)
		r.Post("/api/v1/exercises", s.handleImportExercises)
		r.Put("/api/v1/fatigue/window", s.handleSetWindow)
		r.Post("/api/v1/fatigue/override", s.handleOverride)
	})

	// Read and planning endpoints (no auth, tsnet handles access)
	s.router.Get("/api/v1/activities/known", s.handleKnownActivities)
	s.router.Get("/api/v1/fatigue", s.handleFatigue)
	s.router.Get("/api/v1/fatigue/window", s.handleGetWindow)
	s.router.Post("/api/v1/workouts/generate", s.handleGenerate)
	s.router.Post("/api/v1/workouts/alternative", s.handleAlternative)
	s.router.Get("/api/v1/sessions", s.handleRecentSessions)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{id}/progression", s.handleProgression)

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// SetMCP serves the MCP streamable HTTP transport at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
