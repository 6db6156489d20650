package fatigue

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repcoach/internal/models"
)

// ErrInvalidWindow is returned for a non-positive aggregation window.
var ErrInvalidWindow = errors.New("fatigue window must be positive")

// DefaultWindow is the aggregation window used when none is configured.
const DefaultWindow = 48 * time.Hour

const overridePrefix = "Manual override: "

// OverrideSourceName is the source name of the synthetic event injected when
// the user marks a muscle as sore.
func OverrideSourceName(m models.MuscleGroup) string {
	return overridePrefix + m.String()
}

// IsOverride reports whether e was created by SetOverride.
func IsOverride(e models.FatigueEvent) bool {
	return e.SourceKind == models.SourceGym && strings.HasPrefix(e.SourceName, overridePrefix)
}

// Profile is the user's fatigue event set and aggregation window.
// It is safe for concurrent use; readers work on a copy of the events.
type Profile struct {
	mu     sync.RWMutex
	window time.Duration
	events []models.FatigueEvent
	keys   map[models.EventKey]struct{}
}

// NewProfile returns an empty profile with the given window.
func NewProfile(window time.Duration) (*Profile, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &Profile{
		window: window,
		keys:   make(map[models.EventKey]struct{}),
	}, nil
}

// Window returns the aggregation window.
func (p *Profile) Window() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window
}

// SetWindow changes the aggregation window.
func (p *Profile) SetWindow(window time.Duration) error {
	if window <= 0 {
		return ErrInvalidWindow
	}
	p.mu.Lock()
	p.window = window
	p.mu.Unlock()
	return nil
}

// Append adds events, skipping any whose (timestamp, source name) is already
// present. It returns the events actually added.
func (p *Profile) Append(events ...models.FatigueEvent) []models.FatigueEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var added []models.FatigueEvent
	for _, e := range events {
		k := e.Key()
		if _, dup := p.keys[k]; dup {
			continue
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.Levels = e.Levels.Clone()
		p.keys[k] = struct{}{}
		p.events = append(p.events, e)
		added = append(added, e)
	}
	return added
}

// Delete removes events by ID and returns how many were removed.
func (p *Profile) Delete(ids ...uuid.UUID) int {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.events[:0]
	removed := 0
	for _, e := range p.events {
		if drop[e.ID] {
			delete(p.keys, e.Key())
			removed++
			continue
		}
		kept = append(kept, e)
	}
	p.events = kept
	return removed
}

// Events returns a copy of all events.
func (p *Profile) Events() []models.FatigueEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.FatigueEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Len returns the number of stored events.
func (p *Profile) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.events)
}

// CurrentFatigue aggregates the stored events as of now.
func (p *Profile) CurrentFatigue(now time.Time) models.FatigueMap {
	p.mu.RLock()
	events := make([]models.FatigueEvent, len(p.events))
	copy(events, p.events)
	window := p.window
	p.mu.RUnlock()
	return CurrentFatigue(events, window, now)
}

// OverrideChange describes what SetOverride did.
type OverrideChange struct {
	Added   *models.FatigueEvent
	Removed []uuid.UUID
}

// Changed reports whether the profile was modified.
func (c OverrideChange) Changed() bool {
	return c.Added != nil || len(c.Removed) > 0
}

// SetOverride marks a muscle as manually sore or clears that mark.
//
// Enabling adds a high-level event at now unless an event inside the window
// already rates the muscle high or above. Disabling removes the manual
// override events for the muscle. Both directions are idempotent.
func (p *Profile) SetOverride(m models.MuscleGroup, enabled bool, now time.Time) OverrideChange {
	p.mu.Lock()
	defer p.mu.Unlock()

	var change OverrideChange
	if !enabled {
		name := OverrideSourceName(m)
		kept := p.events[:0]
		for _, e := range p.events {
			if IsOverride(e) && e.SourceName == name {
				delete(p.keys, e.Key())
				change.Removed = append(change.Removed, e.ID)
				continue
			}
			kept = append(kept, e)
		}
		p.events = kept
		return change
	}

	cutoff := now.Add(-p.window)
	for _, e := range p.events {
		if e.Timestamp.Before(cutoff) || e.Timestamp.After(now) {
			continue
		}
		if e.Levels.Level(m) >= models.FatigueHigh {
			return change
		}
	}

	e := models.FatigueEvent{
		ID:         uuid.New(),
		Timestamp:  now,
		SourceKind: models.SourceGym,
		SourceName: OverrideSourceName(m),
		Levels:     models.FatigueMap{m: models.FatigueHigh},
	}
	if _, dup := p.keys[e.Key()]; dup {
		return change
	}
	p.keys[e.Key()] = struct{}{}
	p.events = append(p.events, e)
	change.Added = &e
	return change
}
