package tracker

import (
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/calendar"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Change tells listeners which part of the state a mutation touched.
type Change int

const (
	ChangeWorkouts Change = iota
	ChangeDayLogs
	ChangeProgress
	ChangeMeasurements
	ChangeSettings
)

func (c Change) String() string {
	switch c {
	case ChangeWorkouts:
		return "workouts"
	case ChangeDayLogs:
		return "dayLogs"
	case ChangeProgress:
		return "progressHistory"
	case ChangeMeasurements:
		return "bodyMeasurements"
	case ChangeSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// Listener is notified after every successful mutation, outside the store lock.
type Listener func(Change)

// Store is the client side state container: the workout catalog, the day logs,
// the progress history, the body measurements and the user settings.
// All mutation entry points are methods on it; every read returns a copy.
type Store struct {
	mu           sync.RWMutex
	workouts     []Workout
	dayLogs      map[string]DayLog
	progress     map[string][]ExerciseProgress
	measurements []BodyMeasurement
	settings     UserSettings

	listeners []Listener

	// injectable for tests
	Now   func() time.Time
	NewID func() string
}

func NewStore() *Store {
	return &Store{
		workouts:     DefaultWorkouts(),
		dayLogs:      make(map[string]DayLog),
		progress:     make(map[string][]ExerciseProgress),
		measurements: []BodyMeasurement{},
		settings:     DefaultSettings(),
		Now:          time.Now,
		NewID:        uuid.NewString,
	}
}

// Subscribe registers a listener for mutations.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(changes ...Change) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, c := range changes {
		log.Tracef("tracker store: %s changed", c)
		for _, l := range listeners {
			l(c)
		}
	}
}

// Hydrate replaces the parts of the local state present in a remote document.
// Absent (nil) parts keep their local defaults. Hydration is not a mutation:
// listeners are not notified.
func (s *Store) Hydrate(remote State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(remote.Workouts) > 0 {
		ws := cloneWorkouts(remote.Workouts)
		if len(ws) > MaxWorkouts {
			log.Warnf("tracker store: remote has %d workouts, keeping the first %d", len(ws), MaxWorkouts)
			ws = ws[:MaxWorkouts]
		}
		s.workouts = ws
	}
	if remote.DayLogs != nil {
		s.dayLogs = cloneDayLogs(remote.DayLogs)
		for k, dl := range s.dayLogs {
			if dl.Meals == nil {
				dl.Meals = []Meal{}
				s.dayLogs[k] = dl
			}
		}
	}
	if remote.ProgressHistory != nil {
		s.progress = cloneProgress(remote.ProgressHistory)
	}
	if remote.BodyMeasurements != nil {
		s.measurements = cloneMeasurements(remote.BodyMeasurements)
	}
}

// HydrateSettings replaces the settings without notifying listeners.
func (s *Store) HydrateSettings(settings UserSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = s.settings.Merge(settings)
}

// Snapshot returns a deep copy of the aggregate document.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked().Clone()
}

// stateLocked exposes the live state for read-only use by the derived views.
func (s *Store) stateLocked() State {
	return State{
		Workouts:         s.workouts,
		DayLogs:          s.dayLogs,
		ProgressHistory:  s.progress,
		BodyMeasurements: s.measurements,
	}
}

func (s *Store) Settings() UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings merges the non-empty fields of the given settings.
func (s *Store) UpdateSettings(settings UserSettings) {
	s.mu.Lock()
	s.settings = s.settings.Merge(settings)
	s.mu.Unlock()
	s.notify(ChangeSettings)
}

// Merge returns the settings with the non-empty fields of update applied.
func (us UserSettings) Merge(update UserSettings) UserSettings {
	if update.Language != "" {
		us.Language = update.Language
	}
	if update.Timezone != "" {
		us.Timezone = update.Timezone
	}
	if update.Name != "" {
		us.Name = update.Name
	}
	if update.Email != "" {
		us.Email = update.Email
	}
	return us
}

// Today is the current date in the user's timezone, at local midnight.
func (s *Store) Today() time.Time {
	return calendar.Today(s.Now(), s.Settings().Timezone)
}
