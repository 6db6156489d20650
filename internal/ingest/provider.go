package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	ActivitiesReceived int      `json:"activities_received,omitempty"`
	ActivitiesUnmapped int      `json:"activities_unmapped,omitempty"`
	UnmappedTypes      []string `json:"unmapped_types,omitempty"`

	EventsInserted int64 `json:"events_inserted"`
	EventsSkipped  int64 `json:"events_skipped"`

	SessionsReceived int   `json:"sessions_received,omitempty"`
	SetsReceived     int   `json:"sets_received,omitempty"`
	SetsInserted     int64 `json:"sets_inserted,omitempty"`

	Message string `json:"message,omitempty"`
}

// Add accumulates other into r.
func (r *Result) Add(other *Result) {
	if other == nil {
		return
	}
	r.ActivitiesReceived += other.ActivitiesReceived
	r.ActivitiesUnmapped += other.ActivitiesUnmapped
	for _, t := range other.UnmappedTypes {
		r.addUnmapped(t)
	}
	r.EventsInserted += other.EventsInserted
	r.EventsSkipped += other.EventsSkipped
	r.SessionsReceived += other.SessionsReceived
	r.SetsReceived += other.SetsReceived
	r.SetsInserted += other.SetsInserted
}

// AddUnmapped records an activity type with no fatigue mapping.
func (r *Result) AddUnmapped(activityType string) {
	r.ActivitiesUnmapped++
	r.addUnmapped(activityType)
}

func (r *Result) addUnmapped(activityType string) {
	for _, t := range r.UnmappedTypes {
		if t == activityType {
			return
		}
	}
	r.UnmappedTypes = append(r.UnmappedTypes, activityType)
}
