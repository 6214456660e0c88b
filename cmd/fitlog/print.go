package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/2beens/fitlog/internal/mealai"
	"github.com/2beens/fitlog/internal/tracker"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func printDayView(w io.Writer, v tracker.DayView) {
	state := "open"
	switch {
	case v.Log.IsOffDay && v.Log.DayClosed:
		state = "rest day, closed"
	case v.Log.IsOffDay:
		state = "rest day"
	case v.Log.DayClosed:
		state = "closed"
	}
	fmt.Fprintf(w, "%s (%s)\n", v.Date, state)
	fmt.Fprintf(w, "steps: %d, this week: %d\n", v.Log.StepCount(), v.WeeklySteps)
	if v.Log.WorkoutRating != nil {
		fmt.Fprintf(w, "rating: %d/%d\n", *v.Log.WorkoutRating, tracker.MaxWorkoutRating)
	}

	if v.Workout != nil {
		fmt.Fprintf(w, "\n%s [%s] %d/%d done (%.0f%%)\n",
			v.Workout.Name, v.Workout.ID, v.Progress.Completed, v.Progress.Total, v.Progress.Percent())
		t := newTable(w)
		for _, e := range v.Workout.Exercises {
			fmt.Fprintf(t, "  %s\t%s\t%s\t%s\t%s\n", check(e.Completed), e.ID, e.Name, e.PlannedSets, e.NewWeight)
		}
		t.Flush()
	}

	fmt.Fprintln(w, "\nmeals:")
	t := newTable(w)
	for _, m := range v.Log.Meals {
		fav := ""
		if m.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(t, "  %s\t%s%s\t%.0fp\t%.0ff\t%.0fc\t%.0f kcal\t%s\n",
			m.Time, m.Name, fav, m.Protein, m.Fat, m.Carbs, m.Calories, m.ID)
	}
	t.Flush()

	targets := tracker.MacroTargets()
	fmt.Fprintf(w, "macros: protein %.0f/%.0f, fat %.0f/%.0f, carbs %.0f/%.0f, calories %.0f/%.0f\n",
		v.Macros.Protein, targets.Protein,
		v.Macros.Fat, targets.Fat,
		v.Macros.Carbs, targets.Carbs,
		v.Macros.Calories, targets.Calories,
	)
	if v.Log.Notes != "" {
		fmt.Fprintf(w, "notes: %s\n", v.Log.Notes)
	}
	if !v.Log.DayClosed && v.ReadyToClose {
		fmt.Fprintln(w, "ready to close")
	}
}

func printWorkouts(w io.Writer, workouts []tracker.Workout) {
	t := newTable(w)
	for _, wk := range workouts {
		fmt.Fprintf(t, "%s\t%s\t%d exercises\n", wk.ID, wk.Name, len(wk.Exercises))
		for _, e := range wk.Exercises {
			fmt.Fprintf(t, "\t  %s\t%s %s\t%s\n", e.ID, e.Name, e.PlannedSets, e.RestTime)
		}
	}
	t.Flush()
}

var dayStatusMarks = map[tracker.DayStatus]string{
	tracker.DayEmpty:     ".",
	tracker.DayOpen:      "o",
	tracker.DayWorkout:   "W",
	tracker.DayRest:      "R",
	tracker.DayRestOpen:  "r",
	tracker.DayNoWorkout: "x",
}

func printMonth(w io.Writer, m tracker.MonthSummary) {
	fmt.Fprintf(w, "%s %d\n", m.Month, m.Year)
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")
	fmt.Fprint(w, strings.Repeat("    ", m.Offset))
	for i, d := range m.Days {
		fmt.Fprintf(w, "%3d%s", i+1, dayStatusMarks[d.Status])
		if (m.Offset+i+1)%7 == 0 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "workouts: %d, rest days: %d, steps: %d (avg %d)\n",
		m.Workouts, m.RestDays, m.Steps, m.AverageSteps())
}

func printMealStats(w io.Writer, stats []tracker.MealStat) {
	t := newTable(w)
	for _, st := range stats {
		fav := ""
		if st.Favorite {
			fav = "*"
		}
		fmt.Fprintf(t, "%s%s\t%dx\tlast %s\t%.0fp %.0ff %.0fc %.0f kcal\n",
			st.Name, fav, st.Count, st.LastDate, st.Last.Protein, st.Last.Fat, st.Last.Carbs, st.Last.Calories)
	}
	t.Flush()
}

func printAnalysis(w io.Writer, a *mealai.Analysis) {
	fmt.Fprintf(w, "%s: %.0fp %.0ff %.0fc %.0f kcal", a.Name, a.Protein, a.Fat, a.Carbs, a.Calories)
	if a.Confidence != "" {
		fmt.Fprintf(w, " (confidence: %s)", a.Confidence)
	}
	fmt.Fprintln(w)
	if a.Notes != "" {
		fmt.Fprintln(w, a.Notes)
	}
}

func printRecommendation(w io.Writer, req mealai.RecommendationRequest, rec *mealai.Recommendation) {
	fmt.Fprintf(w, "%s, left for today: %.0fp %.0ff %.0fc %.0f kcal\n",
		req.MealTime, req.Remaining.Protein, req.Remaining.Fat, req.Remaining.Carbs, req.Remaining.Calories)
	if rec.Analysis != "" {
		fmt.Fprintln(w, rec.Analysis)
	}
	for i, s := range rec.Suggestions {
		fmt.Fprintf(w, "%d. %s", i+1, s.Name)
		if s.Calories > 0 {
			fmt.Fprintf(w, " (%.0fp %.0ff %.0fc %.0f kcal)", s.Protein, s.Fat, s.Carbs, s.Calories)
		}
		fmt.Fprintln(w)
		if s.Description != "" {
			fmt.Fprintf(w, "   %s\n", s.Description)
		}
	}
	if rec.Tip != "" {
		fmt.Fprintf(w, "tip: %s\n", rec.Tip)
	}
	if rec.Warning != "" {
		fmt.Fprintf(w, "warning: %s\n", rec.Warning)
	}
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func printMeasurements(w io.Writer, ms []tracker.BodyMeasurement) {
	t := newTable(w)
	fmt.Fprintln(t, "date\tweight\twaist\tchest\tbiceps l/r\tthighs\thips\tid")
	for _, m := range ms {
		left, right := m.BicepsValues()
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s/%s\t%s\t%s\t%s\n",
			m.Date, optional(m.Weight), optional(m.Waist), optional(m.Chest),
			optional(left), optional(right), optional(m.Thighs), optional(m.Hips), m.ID)
	}
	t.Flush()
}

func printProgress(w io.Writer, series []tracker.ExerciseProgress) {
	if len(series) == 0 {
		fmt.Fprintln(w, "no progress logged yet")
		return
	}
	t := newTable(w)
	for _, p := range series {
		fmt.Fprintf(t, "%s\t%.1f\t%s\n", p.Date, p.Weight, p.Notes)
	}
	t.Flush()
}

func printSettings(w io.Writer, s tracker.UserSettings) {
	fmt.Fprintf(w, "language: %s\ntimezone: %s\n", s.Language, s.Timezone)
	if s.Name != "" {
		fmt.Fprintf(w, "name: %s\n", s.Name)
	}
	if s.Email != "" {
		fmt.Fprintf(w, "email: %s\n", s.Email)
	}
}
