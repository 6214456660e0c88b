package tracker

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxWorkouts is the hard cap of workout templates in the catalog.
	MaxWorkouts = 7
	// MaxWorkoutRating is the top of the workout rating scale (1..5).
	MaxWorkoutRating = 5
)

type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlannedSets string `json:"plannedSets"`
	ActualSets  string `json:"actualSets"`
	NewWeight   string `json:"newWeight"`
	RestTime    string `json:"restTime"`
	Notes       string `json:"notes"`
	Feedback    string `json:"feedback"`
	Completed   bool   `json:"completed"`
}

// Workout is a template in the workout catalog. Its id is always t1..t7,
// matching its position in the catalog.
type Workout struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// WorkoutSnapshot is the frozen copy of a workout captured when a day is closed.
type WorkoutSnapshot struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type Meal struct {
	ID         string  `json:"id"`
	Time       string  `json:"time"` // HH:MM
	Name       string  `json:"name"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	Calories   float64 `json:"calories"`
	IsFavorite bool    `json:"isFavorite,omitempty"`
}

// DayLog is the record of one calendar date.
type DayLog struct {
	SelectedWorkout  *string          `json:"selectedWorkout"`
	WorkoutCompleted *string          `json:"workoutCompleted"`
	WorkoutRating    *int             `json:"workoutRating"`
	WorkoutSnapshot  *WorkoutSnapshot `json:"workoutSnapshot"`
	Meals            []Meal           `json:"meals"`
	Notes            string           `json:"notes"`
	Steps            *int             `json:"steps"`
	DayClosed        bool             `json:"dayClosed"`
	IsOffDay         bool             `json:"isOffDay"`
}

// StepCount returns the recorded steps, nil counting as 0.
func (d DayLog) StepCount() int {
	if d.Steps == nil {
		return 0
	}
	return *d.Steps
}

// IsEmpty reports whether the log carries nothing a user entered.
func (d DayLog) IsEmpty() bool {
	return d.SelectedWorkout == nil &&
		d.WorkoutCompleted == nil &&
		d.WorkoutRating == nil &&
		d.WorkoutSnapshot == nil &&
		len(d.Meals) == 0 &&
		d.Notes == "" &&
		d.Steps == nil &&
		!d.DayClosed &&
		!d.IsOffDay
}

// NewDayLog returns the default record of a day nobody touched yet.
func NewDayLog() DayLog {
	return DayLog{
		Meals: []Meal{},
	}
}

type ExerciseProgress struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Notes  string  `json:"notes"`
}

// ProgressKey builds the progress history key of an exercise. Exercise ids are
// unique only inside their workout, hence the composite key.
func ProgressKey(workoutID, exerciseID string) string {
	return workoutID + "-" + exerciseID
}

type BodyMeasurement struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Weight      *float64 `json:"weight,omitempty"`
	Waist       *float64 `json:"waist,omitempty"`
	Chest       *float64 `json:"chest,omitempty"`
	BicepsLeft  *float64 `json:"bicepsLeft,omitempty"`
	BicepsRight *float64 `json:"bicepsRight,omitempty"`
	// Biceps is the single value older records carry, before left/right were split.
	Biceps *float64 `json:"biceps,omitempty"`
	Thighs *float64 `json:"thighs,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

// BicepsValues resolves left and right biceps, falling back to the legacy single value.
func (m BodyMeasurement) BicepsValues() (left, right *float64) {
	left, right = m.BicepsLeft, m.BicepsRight
	if left == nil {
		left = m.Biceps
	}
	if right == nil {
		right = m.Biceps
	}
	return left, right
}

type UserSettings struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		Language: "en",
		Timezone: "UTC",
	}
}

// State is the aggregate document pushed to and pulled from the remote store.
// A nil field in a decoded document means the remote has no data for it yet.
type State struct {
	Workouts         []Workout                     `json:"workouts"`
	DayLogs          map[string]DayLog             `json:"dayLogs"`
	ProgressHistory  map[string][]ExerciseProgress `json:"progressHistory"`
	BodyMeasurements []BodyMeasurement             `json:"bodyMeasurements"`
}

// DefaultWorkouts is the catalog of a fresh account: one empty template.
func DefaultWorkouts() []Workout {
	return []Workout{newWorkout(1)}
}

func newWorkout(n int) Workout {
	return Workout{
		ID:        workoutID(n),
		Name:      defaultWorkoutName(n),
		Exercises: []Exercise{},
	}
}

func workoutID(n int) string {
	return fmt.Sprintf("t%d", n)
}

func defaultWorkoutName(n int) string {
	return fmt.Sprintf("Workout %d", n)
}

// ParseAmount coerces user input into a number: blanks and garbage become 0,
// a decimal comma is accepted.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// NormalizeMealTime turns "8:5", "08:05" or "" into HH:MM. An empty or invalid
// value falls back to the clock of now.
func NormalizeMealTime(s string, now time.Time) string {
	if t, err := time.Parse("15:04", strings.TrimSpace(s)); err == nil {
		return t.Format("15:04")
	}
	if t, err := time.Parse("15:4", strings.TrimSpace(s)); err == nil {
		return t.Format("15:04")
	}
	return now.Format("15:04")
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
