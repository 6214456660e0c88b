package tracker

import (
	"math"
	"time"

	"github.com/2beens/fitlog/internal/calendar"
)

// Daily macro targets.
const (
	ProteinTarget  = 200.0
	FatTarget      = 90.0
	CarbsTarget    = 200.0
	CaloriesTarget = 2410.0
)

// ActiveWorkout is the workout shown for a date.
type ActiveWorkout struct {
	ID        string
	Name      string
	Exercises []Exercise
	// Frozen is set when the exercises come from the snapshot of a closed day.
	Frozen bool
}

// ResolveActiveWorkout picks the workout of a date: the snapshot of a closed day,
// else the selected template, else the next available one.
// The bool result is false only on off days without a selection.
func ResolveActiveWorkout(state State, date string, today time.Time) (ActiveWorkout, bool) {
	dl, ok := state.DayLogs[date]
	if !ok {
		dl = NewDayLog()
	}

	if dl.DayClosed && dl.WorkoutSnapshot != nil {
		snap := dl.WorkoutSnapshot.Clone()
		return ActiveWorkout{
			ID:        snap.ID,
			Name:      snap.Name,
			Exercises: snap.Exercises,
			Frozen:    true,
		}, true
	}

	if dl.SelectedWorkout != nil {
		if w, found := findWorkout(state.Workouts, *dl.SelectedWorkout); found {
			return activeFromTemplate(w), true
		}
		// dangling selection: fall through to the automatic choice
	}

	if dl.IsOffDay {
		return ActiveWorkout{}, false
	}

	w, found := NextAvailableWorkout(state, today)
	if !found {
		return ActiveWorkout{}, false
	}
	return activeFromTemplate(w), true
}

func activeFromTemplate(w Workout) ActiveWorkout {
	w = w.Clone()
	return ActiveWorkout{
		ID:        w.ID,
		Name:      w.Name,
		Exercises: w.Exercises,
	}
}

func findWorkout(workouts []Workout, id string) (Workout, bool) {
	for _, w := range workouts {
		if w.ID == id {
			return w, true
		}
	}
	return Workout{}, false
}

// NextAvailableWorkout returns the first template with at least one exercise that was
// not completed during the week of today. When every such template is done, or none
// has exercises, the first template is returned.
func NextAvailableWorkout(state State, today time.Time) (Workout, bool) {
	if len(state.Workouts) == 0 {
		return Workout{}, false
	}

	done := make(map[string]bool)
	for _, key := range calendar.WeekKeys(today) {
		dl, ok := state.DayLogs[key]
		if !ok || dl.WorkoutCompleted == nil {
			continue
		}
		done[*dl.WorkoutCompleted] = true
	}

	for _, w := range state.Workouts {
		if len(w.Exercises) > 0 && !done[w.ID] {
			return w.Clone(), true
		}
	}
	return state.Workouts[0].Clone(), true
}

// Progress is a completion ratio over a set of exercises.
type Progress struct {
	Completed int
	Total     int
}

func ExerciseProgressOf(exercises []Exercise) Progress {
	p := Progress{Total: len(exercises)}
	for _, e := range exercises {
		if e.Completed {
			p.Completed++
		}
	}
	return p
}

// Percent is 0 for an empty set.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

func (p Progress) Done() bool {
	return p.Total > 0 && p.Completed == p.Total
}

type Macros struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein:  m.Protein + o.Protein,
		Fat:      m.Fat + o.Fat,
		Carbs:    m.Carbs + o.Carbs,
		Calories: m.Calories + o.Calories,
	}
}

// Sub returns m - o, floored at 0.
func (m Macros) Sub(o Macros) Macros {
	return Macros{
		Protein:  math.Max(0, m.Protein-o.Protein),
		Fat:      math.Max(0, m.Fat-o.Fat),
		Carbs:    math.Max(0, m.Carbs-o.Carbs),
		Calories: math.Max(0, m.Calories-o.Calories),
	}
}

func MacroTargets() Macros {
	return Macros{
		Protein:  ProteinTarget,
		Fat:      FatTarget,
		Carbs:    CarbsTarget,
		Calories: CaloriesTarget,
	}
}

func MacroTotals(meals []Meal) Macros {
	var total Macros
	for _, m := range meals {
		total = total.Add(Macros{
			Protein:  m.Protein,
			Fat:      m.Fat,
			Carbs:    m.Carbs,
			Calories: m.Calories,
		})
	}
	return total
}

// MacroPercent is min(100, total/target*100), and 0 for a non-positive target.
func MacroPercent(total, target float64) float64 {
	if target <= 0 || total <= 0 || math.IsNaN(total) {
		return 0
	}
	return math.Min(100, total/target*100)
}

// MacroProgress returns per macro percentages of the targets, each in [0, 100].
func MacroProgress(totals, targets Macros) Macros {
	return Macros{
		Protein:  MacroPercent(totals.Protein, targets.Protein),
		Fat:      MacroPercent(totals.Fat, targets.Fat),
		Carbs:    MacroPercent(totals.Carbs, targets.Carbs),
		Calories: MacroPercent(totals.Calories, targets.Calories),
	}
}

// WeeklySteps sums the steps of the Monday to Sunday week containing date.
func WeeklySteps(dayLogs map[string]DayLog, date time.Time) int {
	total := 0
	for _, key := range calendar.WeekKeys(date) {
		if dl, ok := dayLogs[key]; ok && dl.StepCount() > 0 {
			total += dl.StepCount()
		}
	}
	return total
}

// ReadyToClose tells if a day may be closed: off days need steps, workout days
// need steps and every exercise done.
func ReadyToClose(dl DayLog, progress Progress) bool {
	if dl.StepCount() <= 0 {
		return false
	}
	if dl.IsOffDay {
		return true
	}
	return progress.Done()
}

// DayView is everything presented for one date.
type DayView struct {
	Date          string
	Log           DayLog
	Workout       *ActiveWorkout
	Progress      Progress
	Macros        Macros
	MacroProgress Macros
	WeeklySteps   int
	ReadyToClose  bool
}

// BuildDayView computes the view of a date from a state snapshot.
func BuildDayView(state State, date string, today time.Time) (DayView, error) {
	day, err := calendar.ParseKey(date)
	if err != nil {
		return DayView{}, err
	}

	dl, ok := state.DayLogs[date]
	if !ok {
		dl = NewDayLog()
	}
	view := DayView{
		Date:        date,
		Log:         dl.Clone(),
		WeeklySteps: WeeklySteps(state.DayLogs, day),
	}

	if w, found := ResolveActiveWorkout(state, date, today); found {
		view.Workout = &w
		view.Progress = ExerciseProgressOf(w.Exercises)
	}

	view.Macros = MacroTotals(dl.Meals)
	view.MacroProgress = MacroProgress(view.Macros, MacroTargets())
	view.ReadyToClose = ReadyToClose(dl, view.Progress)
	return view, nil
}

// DayView computes the view of a date against the store's current state.
func (s *Store) DayView(date string) (DayView, error) {
	today := s.Today()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildDayView(s.stateLocked(), date, today)
}

// NextAvailableWorkout is the automatic choice for today.
func (s *Store) NextAvailableWorkout() (Workout, bool) {
	today := s.Today()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NextAvailableWorkout(s.stateLocked(), today)
}

// WeeklySteps sums the steps of the week containing the given date.
func (s *Store) WeeklySteps(date string) (int, error) {
	day, err := calendar.ParseKey(date)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return WeeklySteps(s.dayLogs, day), nil
}
