package tracker_test

import (
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthSummary(t *testing.T) {
	s := newTestStore(t)
	addExercises(t, s, "t1", 1)

	s.SetSteps("2024-01-02", 4000)
	require.True(t, s.CloseDay("2024-01-02", "t1", true))

	s.ToggleOffDay("2024-01-03")
	s.SetSteps("2024-01-03", 2000)
	s.CloseOffDay("2024-01-03")

	s.ToggleOffDay("2024-01-04")
	s.SetNotes("2024-01-05", "travel")
	s.SetSteps("2024-02-01", 9999)

	m := s.MonthSummary(2024, time.January)
	assert.Equal(t, 0, m.Offset, "2024-01-01 is a monday")
	require.Len(t, m.Days, 31)
	assert.Equal(t, tracker.DayEmpty, m.Days[0].Status)
	assert.Equal(t, tracker.DayWorkout, m.Days[1].Status)
	assert.Equal(t, tracker.DayRest, m.Days[2].Status)
	assert.Equal(t, tracker.DayRestOpen, m.Days[3].Status)
	assert.Equal(t, tracker.DayOpen, m.Days[4].Status)

	assert.Equal(t, 1, m.Workouts)
	assert.Equal(t, 1, m.RestDays)
	assert.Equal(t, 6000, m.Steps)
	assert.Equal(t, 3000, m.AverageSteps())

	feb := s.MonthSummary(2024, time.February)
	assert.Len(t, feb.Days, 29)
	assert.Equal(t, 3, feb.Offset)
	assert.Equal(t, 9999, feb.AverageSteps())

	assert.Equal(t, 0, tracker.MonthSummary{}.AverageSteps())
}

func TestMealSuggestions_Ranking(t *testing.T) {
	logs := map[string]tracker.DayLog{
		"2024-01-01": {Meals: []tracker.Meal{
			{Name: "Chicken rice", Protein: 40},
			{Name: "Oats"},
		}},
		"2024-01-02": {Meals: []tracker.Meal{
			{Name: "chicken rice", Protein: 45},
			{Name: "Protein shake", IsFavorite: true},
			{Name: "  "},
		}},
		"2024-01-03": {Meals: []tracker.Meal{
			{Name: "Oats", Carbs: 70},
			{Name: "Chicken soup"},
		}},
	}

	all := tracker.MealSuggestions(logs, "", 0)
	require.Len(t, all, 4)
	assert.Equal(t, "Protein shake", all[0].Name, "favorites first")
	assert.Equal(t, 2, all[1].Count)
	assert.Equal(t, "Oats", all[1].Name, "equal counts: most recent first")
	assert.Equal(t, 70.0, all[1].Last.Carbs)
	assert.Equal(t, "chicken rice", all[2].Name, "spelled as the last time")
	assert.Equal(t, 45.0, all[2].Last.Protein, "last entry is kept for prefill")

	chicken := tracker.MealSuggestions(logs, "CHICK", 1)
	require.Len(t, chicken, 1)
	assert.Equal(t, "chicken rice", chicken[0].Name)

	favorites := tracker.FavoriteMeals(logs)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Protein shake", favorites[0].Name)
}

func TestRecentMeals(t *testing.T) {
	logs := map[string]tracker.DayLog{
		"2024-01-10": {Meals: []tracker.Meal{{Name: "today"}}},
		"2024-01-09": {Meals: []tracker.Meal{{Name: "yesterday"}}},
		"2024-01-05": {Meals: []tracker.Meal{{Name: "old"}}},
	}
	got := tracker.RecentMeals(logs, localDay(2024, 1, 10), 3)
	require.Len(t, got, 1)
	assert.Equal(t, "yesterday", got[0].Name)
}

func TestMeasurements(t *testing.T) {
	s := newTestStore(t)
	rec := &changeRecorder{}
	s.Subscribe(rec.listen)

	late := s.AddMeasurement(tracker.BodyMeasurement{Date: "2024-02-01T08:00:00Z", Weight: ptr(80.5)})
	early := s.AddMeasurement(tracker.BodyMeasurement{Date: "2024-01-01T08:00:00Z", Biceps: ptr(38.0)})
	sameDay := s.AddMeasurement(tracker.BodyMeasurement{Date: "2024-01-01T08:00:00Z", Waist: ptr(82.0)})
	assert.Equal(t, 3, rec.count(tracker.ChangeMeasurements))

	sorted := s.SortedMeasurements()
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{early, sameDay, late}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})

	left, right := sorted[0].BicepsValues()
	assert.Equal(t, 38.0, *left, "legacy value fills both sides")
	assert.Equal(t, 38.0, *right)

	latest, ok := s.LatestMeasurement()
	require.True(t, ok)
	assert.Equal(t, late, latest.ID)

	require.True(t, s.DeleteMeasurement(late))
	assert.False(t, s.DeleteMeasurement(late))
	latest, _ = s.LatestMeasurement()
	assert.Equal(t, sameDay, latest.ID)

	defaulted := s.AddMeasurement(tracker.BodyMeasurement{})
	m := s.Measurements()
	assert.Equal(t, defaulted, m[len(m)-1].ID)
	assert.Equal(t, "2024-01-10T12:00:00Z", m[len(m)-1].Date)
}

func TestAddMeasurement_DefaultDateIsUTC(t *testing.T) {
	s := newTestStore(t)
	// 2024-01-10 08:30 in Kyiv is 06:30 UTC
	s.Now = func() time.Time {
		return time.Date(2024, 1, 10, 8, 30, 0, 0, time.FixedZone("EET", 2*3600))
	}

	s.AddMeasurement(tracker.BodyMeasurement{ID: "m1", Date: "2024-01-10T07:00:00Z"})
	s.AddMeasurement(tracker.BodyMeasurement{ID: "m2"})
	m := s.Measurements()
	require.Len(t, m, 2)
	assert.Equal(t, "2024-01-10T06:30:00Z", m[1].Date)

	sorted := s.SortedMeasurements()
	assert.Equal(t, []string{"m2", "m1"}, []string{sorted[0].ID, sorted[1].ID})
	latest, ok := s.LatestMeasurement()
	require.True(t, ok)
	assert.Equal(t, "m1", latest.ID)
}

func TestProgressHistory_Sorted(t *testing.T) {
	s := newTestStore(t)
	s.LogExerciseProgress("t1", "e1", tracker.ExerciseProgress{Date: "2024-01-09", Weight: 60})
	s.LogExerciseProgress("t1", "e1", tracker.ExerciseProgress{Date: "2024-01-02", Weight: 55})
	s.LogExerciseProgress("t2", "e1", tracker.ExerciseProgress{Date: "2024-01-03", Weight: 100})

	series := s.ProgressSeries("t1", "e1")
	require.Len(t, series, 2)
	assert.Equal(t, 55.0, series[0].Weight)
	assert.Equal(t, 60.0, series[1].Weight)

	history := s.ProgressHistory()
	assert.Len(t, history, 2)
	assert.Len(t, history["t2-e1"], 1)
}
