package mealai

import (
	"time"

	"github.com/2beens/fitlog/internal/tracker"
)

const (
	MealTimeBreakfast = "breakfast"
	MealTimeLunch     = "lunch"
	MealTimeDinner    = "dinner"
	MealTimeSnack     = "snack"
)

// maxHistoryMeals bounds the food history sent with a recommendation request.
const maxHistoryMeals = 15

// MealTimeOf names the meal of the day for the local clock of now.
func MealTimeOf(now time.Time) string {
	switch h := now.Hour(); {
	case h < 11:
		return MealTimeBreakfast
	case h < 16:
		return MealTimeLunch
	case h < 21:
		return MealTimeDinner
	default:
		return MealTimeSnack
	}
}

type HistoryMeal struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Favorite bool    `json:"favorite"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

type RecommendationRequest struct {
	Current   tracker.Macros `json:"current"`
	Target    tracker.Macros `json:"target"`
	Remaining tracker.Macros `json:"remaining"`
	MealTime  string         `json:"mealTime"`
	History   []HistoryMeal  `json:"history"`
	Guidance  string         `json:"guidance,omitempty"`
}

// BuildRecommendationRequest describes what is left to eat on a day. History is
// expected ranked, favorites and the most frequent meals first.
func BuildRecommendationRequest(
	day tracker.DayLog,
	targets tracker.Macros,
	history []tracker.MealStat,
	guidance string,
	now time.Time,
) RecommendationRequest {
	current := tracker.MacroTotals(day.Meals)

	req := RecommendationRequest{
		Current:   current,
		Target:    targets,
		Remaining: targets.Sub(current),
		MealTime:  MealTimeOf(now),
		History:   []HistoryMeal{},
		Guidance:  guidance,
	}
	for _, st := range history {
		if len(req.History) == maxHistoryMeals {
			break
		}
		req.History = append(req.History, HistoryMeal{
			Name:     st.Name,
			Count:    st.Count,
			Favorite: st.Favorite,
			Protein:  st.Last.Protein,
			Fat:      st.Last.Fat,
			Carbs:    st.Last.Carbs,
			Calories: st.Last.Calories,
		})
	}
	return req
}

// Meal turns the analysis into a meal entry eaten at mealTime (HH:MM).
func (a *Analysis) Meal(mealTime string) tracker.Meal {
	return tracker.Meal{
		Time:     mealTime,
		Name:     a.Name,
		Protein:  a.Protein,
		Fat:      a.Fat,
		Carbs:    a.Carbs,
		Calories: a.Calories,
	}
}
