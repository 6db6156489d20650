// Package coach loads the user's data from storage and runs the fatigue
// and planning core over it.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/fatigue"
	"github.com/claude/repcoach/internal/ingest"
	"github.com/claude/repcoach/internal/metrics"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/planner"
	"github.com/claude/repcoach/internal/storage"
)

var (
	// ErrUpstream wraps failures of the backing store.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrNotFound is returned for unknown exercise IDs.
	ErrNotFound = errors.New("not found")
)

// Store is the persistence the service needs.
type Store interface {
	InsertFatigueEvents(ctx context.Context, events []models.FatigueEvent) (int64, error)
	ListFatigueEvents(ctx context.Context, since time.Time) ([]models.FatigueEvent, error)
	DeleteFatigueEvents(ctx context.Context, ids []uuid.UUID) (int64, error)

	ListExercises(ctx context.Context) ([]models.Exercise, error)
	UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error)
	CountExercises(ctx context.Context) (int, error)

	ReplaceWorkoutSets(ctx context.Context, sessionDate time.Time, rows []models.WorkoutSetRow) (int64, error)
	QueryWorkoutSets(ctx context.Context, start, end time.Time) ([]models.WorkoutSetRow, error)
	LatestPerformances(ctx context.Context) (map[string]models.ExerciseHistory, error)

	GetWindowHours(ctx context.Context, fallback int) (int, error)
	SetWindowHours(ctx context.Context, hours int) error
}

var _ Store = (*storage.DB)(nil)

// Options configures a Service.
type Options struct {
	WindowHours int
	Goal        models.WorkoutGoal
	Equipment   models.EquipmentSet
	Policy      planner.Policy
	Now         func() time.Time
}

// Service answers fatigue and planning requests for the single user.
type Service struct {
	store   Store
	opts    Options
	metrics *metrics.Manager
	log     *slog.Logger
}

// New creates a Service. Zero options fall back to a 48 hour window,
// general fitness, no equipment and double progression.
func New(store Store, opts Options, m *metrics.Manager, log *slog.Logger) *Service {
	if opts.WindowHours <= 0 {
		opts.WindowHours = int(fatigue.DefaultWindow / time.Hour)
	}
	if opts.Goal == "" {
		opts.Goal = models.GoalGeneralFitness
	}
	if opts.Equipment == nil {
		opts.Equipment = models.EquipmentSet{}
	}
	if opts.Policy == nil {
		opts.Policy = planner.DoubleProgression{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, opts: opts, metrics: m, log: log}
}

func (s *Service) upstream(op string, err error) error {
	s.metrics.CounterUpstreamErrors.WithLabelValues(op).Inc()
	s.log.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
}

func (s *Service) at(t time.Time) time.Time {
	if t.IsZero() {
		return s.opts.Now()
	}
	return t
}

func (s *Service) equipment(names []string) models.EquipmentSet {
	if names == nil {
		return s.opts.Equipment
	}
	return models.ParseEquipmentSet(names)
}

func (s *Service) goal(g models.WorkoutGoal) models.WorkoutGoal {
	if g == "" {
		return s.opts.Goal
	}
	return g
}

// profile loads every event that can still contribute at now.
func (s *Service) profile(ctx context.Context, now time.Time) (*fatigue.Profile, error) {
	hours, err := s.store.GetWindowHours(ctx, s.opts.WindowHours)
	if err != nil {
		return nil, s.upstream("load window", err)
	}
	p, err := fatigue.NewProfile(time.Duration(hours) * time.Hour)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListFatigueEvents(ctx, now.Add(-p.Window()))
	if err != nil {
		return nil, s.upstream("load fatigue events", err)
	}
	p.Append(events...)
	return p, nil
}

func (s *Service) catalogue(ctx context.Context) (*planner.StaticCatalogue, error) {
	exercises, err := s.store.ListExercises(ctx)
	if err != nil {
		return nil, s.upstream("load catalogue", err)
	}
	history, err := s.store.LatestPerformances(ctx)
	if err != nil {
		return nil, s.upstream("load history", err)
	}
	return planner.NewStaticCatalogue(exercises, history), nil
}

// MuscleFatigue is one row of a fatigue report.
type MuscleFatigue struct {
	Muscle  models.MuscleGroup  `json:"muscle"`
	Level   models.FatigueLevel `json:"level"`
	Blocked bool                `json:"blocked"`
}

// FatigueReport is the current fatigue of every muscle group.
type FatigueReport struct {
	At          time.Time       `json:"at"`
	WindowHours int             `json:"window_hours"`
	Events      int             `json:"events"`
	Muscles     []MuscleFatigue `json:"muscles"`
}

// Fatigue reports per-muscle fatigue at the given time (zero means now).
func (s *Service) Fatigue(ctx context.Context, at time.Time) (*FatigueReport, error) {
	now := s.at(at)
	p, err := s.profile(ctx, now)
	if err != nil {
		return nil, err
	}
	levels := p.CurrentFatigue(now)

	report := &FatigueReport{
		At:          now,
		WindowHours: int(p.Window() / time.Hour),
		Events:      p.Len(),
	}
	for _, m := range models.AllMuscleGroups() {
		l := levels.Level(m)
		report.Muscles = append(report.Muscles, MuscleFatigue{
			Muscle:  m,
			Level:   l,
			Blocked: l >= models.FatigueHigh,
		})
	}
	return report, nil
}

// GenerateRequest asks for a session plan. Empty fields use the configured
// defaults; a nil Equipment list means the configured equipment.
type GenerateRequest struct {
	Minutes   int                `json:"minutes"`
	Goal      models.WorkoutGoal `json:"goal"`
	Equipment []string           `json:"equipment"`
	At        time.Time          `json:"at"`
}

// Plan is a generated session.
type Plan struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Goal        models.WorkoutGoal   `json:"goal"`
	Minutes     int                  `json:"minutes"`
	Fatigue     models.FatigueMap    `json:"fatigue"`
	Slots       []models.WorkoutSlot `json:"slots"`
}

// Generate builds a session for the request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Plan, error) {
	now := s.at(req.At)
	goal := s.goal(req.Goal)

	p, err := s.profile(ctx, now)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := planner.FatigueSnapshot(p.CurrentFatigue(now))
	slots := planner.NewBuilder(cat, s.opts.Policy).Generate(req.Minutes, goal, s.equipment(req.Equipment), snapshot, now)

	s.metrics.CounterPlans.WithLabelValues(string(goal)).Inc()
	s.metrics.HistPlanSlots.Observe(float64(len(slots)))
	s.log.Debug("generated plan", "goal", goal, "minutes", req.Minutes, "slots", len(slots))

	return &Plan{
		GeneratedAt: now,
		Goal:        goal,
		Minutes:     req.Minutes,
		Fatigue:     models.FatigueMap(snapshot),
		Slots:       slots,
	}, nil
}

// SwapRequest asks for a replacement of one exercise.
type SwapRequest struct {
	ExerciseID string             `json:"exercise_id"`
	Goal       models.WorkoutGoal `json:"goal"`
	Equipment  []string           `json:"equipment"`
	At         time.Time          `json:"at"`
}

// Alternative returns a replacement slot, or nil when no exercise qualifies.
func (s *Service) Alternative(ctx context.Context, req SwapRequest) (*models.WorkoutSlot, error) {
	now := s.at(req.At)

	cat, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}
	original, ok := cat.Lookup(req.ExerciseID)
	if !ok {
		return nil, fmt.Errorf("exercise %q: %w", req.ExerciseID, ErrNotFound)
	}
	p, err := s.profile(ctx, now)
	if err != nil {
		return nil, err
	}

	b := planner.NewBuilder(cat, s.opts.Policy)
	slot, ok := b.AlternativeSlot(original, s.goal(req.Goal), s.equipment(req.Equipment), p, now)
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

// Progression returns the progression target of one exercise.
func (s *Service) Progression(ctx context.Context, exerciseID string, goal models.WorkoutGoal) (*models.ProgressionTarget, error) {
	cat, err := s.catalogue(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.Lookup(exerciseID); !ok {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNotFound)
	}
	return planner.NewBuilder(cat, s.opts.Policy).Progression(exerciseID, s.goal(goal)), nil
}

// IngestActivities translates external activities into fatigue events and
// stores the ones not seen before. Unmapped activity types are reported and
// dropped.
func (s *Service) IngestActivities(ctx context.Context, records []models.ActivityRecord) (*ingest.Result, error) {
	result := &ingest.Result{ActivitiesReceived: len(records)}

	batch, err := fatigue.NewProfile(fatigue.DefaultWindow)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		e := fatigue.TranslateRecord(r)
		if e == nil {
			result.AddUnmapped(r.Type)
			continue
		}
		batch.Append(*e)
	}
	s.metrics.CounterUnmapped.Add(float64(result.ActivitiesUnmapped))

	if err := s.insertEvents(ctx, batch.Events(), result); err != nil {
		return nil, err
	}
	if len(result.UnmappedTypes) > 0 {
		result.Message = fmt.Sprintf("No fatigue mapping for: %s", strings.Join(result.UnmappedTypes, ", "))
	}
	return result, nil
}

func (s *Service) insertEvents(ctx context.Context, events []models.FatigueEvent, result *ingest.Result) error {
	if len(events) == 0 {
		return nil
	}
	inserted, err := s.store.InsertFatigueEvents(ctx, events)
	if err != nil {
		return s.upstream("insert fatigue events", err)
	}
	result.EventsInserted += inserted
	skipped := int64(len(events)) - inserted
	result.EventsSkipped += skipped

	s.metrics.CounterEventsIngested.Add(float64(inserted))
	s.metrics.CounterEventsDuplicate.Add(float64(skipped))
	return nil
}

// SetOverride marks or clears manual soreness of a muscle and persists the
// resulting change.
func (s *Service) SetOverride(ctx context.Context, m models.MuscleGroup, enabled bool, at time.Time) (fatigue.OverrideChange, error) {
	now := s.at(at)
	p, err := s.profile(ctx, now)
	if err != nil {
		return fatigue.OverrideChange{}, err
	}

	change := p.SetOverride(m, enabled, now)
	if change.Added != nil {
		if _, err := s.store.InsertFatigueEvents(ctx, []models.FatigueEvent{*change.Added}); err != nil {
			return fatigue.OverrideChange{}, s.upstream("insert override", err)
		}
	}
	if len(change.Removed) > 0 {
		if _, err := s.store.DeleteFatigueEvents(ctx, change.Removed); err != nil {
			return fatigue.OverrideChange{}, s.upstream("delete override", err)
		}
	}
	s.log.Info("override updated", "muscle", m, "enabled", enabled, "changed", change.Changed())
	return change, nil
}

// Window returns the configured fatigue window in hours.
func (s *Service) Window(ctx context.Context) (int, error) {
	hours, err := s.store.GetWindowHours(ctx, s.opts.WindowHours)
	if err != nil {
		return 0, s.upstream("load window", err)
	}
	return hours, nil
}

// SetWindow changes the fatigue window.
func (s *Service) SetWindow(ctx context.Context, hours int) error {
	if hours <= 0 {
		return fatigue.ErrInvalidWindow
	}
	if err := s.store.SetWindowHours(ctx, hours); err != nil {
		return s.upstream("store window", err)
	}
	return nil
}

// Exercises returns the catalogue in catalogue order.
func (s *Service) Exercises(ctx context.Context) ([]models.Exercise, error) {
	exercises, err := s.store.ListExercises(ctx)
	if err != nil {
		return nil, s.upstream("load catalogue", err)
	}
	return exercises, nil
}

// ImportExercises inserts or replaces catalogue entries.
func (s *Service) ImportExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	n, err := s.store.UpsertExercises(ctx, exercises)
	if err != nil {
		return 0, s.upstream("import exercises", err)
	}
	return n, nil
}

// SeedCatalogue imports exercises only when the catalogue is empty.
func (s *Service) SeedCatalogue(ctx context.Context, exercises []models.Exercise) (bool, error) {
	n, err := s.store.CountExercises(ctx)
	if err != nil {
		return false, s.upstream("count exercises", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.ImportExercises(ctx, exercises); err != nil {
		return false, err
	}
	s.log.Info("catalogue seeded", "exercises", len(exercises))
	return true, nil
}
