package tracker

import (
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/calendar"
)

// DayStatus is the state of a date on the month calendar.
type DayStatus string

const (
	DayEmpty     DayStatus = "empty"
	DayOpen      DayStatus = "open"
	DayWorkout   DayStatus = "workout"
	DayRest      DayStatus = "rest"
	DayRestOpen  DayStatus = "rest-open"
	DayNoWorkout DayStatus = "closed"
)

func dayStatus(dl DayLog, ok bool) DayStatus {
	switch {
	case !ok || dl.IsEmpty():
		return DayEmpty
	case dl.IsOffDay && dl.DayClosed:
		return DayRest
	case dl.IsOffDay:
		return DayRestOpen
	case dl.DayClosed && dl.WorkoutCompleted != nil:
		return DayWorkout
	case dl.DayClosed:
		return DayNoWorkout
	default:
		return DayOpen
	}
}

type MonthDay struct {
	Date   string
	Status DayStatus
	Steps  int
}

// MonthSummary aggregates the day logs of one calendar month.
type MonthSummary struct {
	Year      int
	Month     time.Month
	Offset    int // blank cells before the 1st in a Monday-first grid
	Days      []MonthDay
	Workouts  int
	RestDays  int
	Steps     int
	StepsDays int
}

// AverageSteps is the mean over the days with steps recorded.
func (m MonthSummary) AverageSteps() int {
	if m.StepsDays == 0 {
		return 0
	}
	return m.Steps / m.StepsDays
}

func BuildMonthSummary(dayLogs map[string]DayLog, year int, month time.Month) MonthSummary {
	summary := MonthSummary{
		Year:   year,
		Month:  month,
		Offset: calendar.MonthGridOffset(year, month),
	}
	for _, key := range calendar.MonthKeys(year, month) {
		dl, ok := dayLogs[key]
		day := MonthDay{
			Date:   key,
			Status: dayStatus(dl, ok),
			Steps:  dl.StepCount(),
		}
		switch day.Status {
		case DayWorkout:
			summary.Workouts++
		case DayRest:
			summary.RestDays++
		}
		if day.Steps > 0 {
			summary.Steps += day.Steps
			summary.StepsDays++
		}
		summary.Days = append(summary.Days, day)
	}
	return summary
}

func (s *Store) MonthSummary(year int, month time.Month) MonthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildMonthSummary(s.dayLogs, year, month)
}

// MealStat is a meal name aggregated over the whole history.
type MealStat struct {
	Name     string // as spelled the last time
	Count    int
	Favorite bool
	LastDate string
	// Last is the most recent entry, used to prefill a new meal.
	Last Meal
}

func collectMealStats(dayLogs map[string]DayLog) map[string]*MealStat {
	stats := make(map[string]*MealStat)
	for date, dl := range dayLogs {
		for _, m := range dl.Meals {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			st, ok := stats[key]
			if !ok {
				st = &MealStat{Name: name}
				stats[key] = st
			}
			st.Count++
			st.Favorite = st.Favorite || m.IsFavorite
			if date >= st.LastDate {
				st.Name = name
				st.LastDate = date
				st.Last = m
			}
		}
	}
	return stats
}

func rankMealStats(stats map[string]*MealStat) []MealStat {
	ranked := make([]MealStat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, *st)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Favorite != b.Favorite {
			return a.Favorite
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.LastDate != b.LastDate {
			return a.LastDate > b.LastDate
		}
		return a.Name < b.Name
	})
	return ranked
}

// FavoriteMeals lists the meals flagged favorite on any day, most eaten first.
func FavoriteMeals(dayLogs map[string]DayLog) []MealStat {
	var favorites []MealStat
	for _, st := range rankMealStats(collectMealStats(dayLogs)) {
		if st.Favorite {
			favorites = append(favorites, st)
		}
	}
	return favorites
}

// MealSuggestions returns up to limit known meals whose name contains the prefix,
// favorites first, then by frequency, then by recency.
func MealSuggestions(dayLogs map[string]DayLog, prefix string, limit int) []MealStat {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []MealStat
	for _, st := range rankMealStats(collectMealStats(dayLogs)) {
		if prefix != "" && !strings.Contains(strings.ToLower(st.Name), prefix) {
			continue
		}
		out = append(out, st)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (s *Store) FavoriteMeals() []MealStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FavoriteMeals(s.dayLogs)
}

func (s *Store) MealSuggestions(prefix string, limit int) []MealStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return MealSuggestions(s.dayLogs, prefix, limit)
}

// RecentMeals returns the meals of the last days before (and excluding) date, newest first.
// Used as the food history of a meal recommendation.
func RecentMeals(dayLogs map[string]DayLog, date time.Time, days int) []Meal {
	var meals []Meal
	for i := 1; i <= days; i++ {
		dl, ok := dayLogs[calendar.Key(calendar.AddDays(date, -i))]
		if !ok {
			continue
		}
		meals = append(meals, dl.Meals...)
	}
	return meals
}
