package tracker

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Opt is a patch field: only fields with Set == true are merged.
type Opt[T any] struct {
	Set   bool
	Value T
}

func Set[T any](v T) Opt[T] {
	return Opt[T]{Set: true, Value: v}
}

// DayLogPatch is a partial DayLog. Nullable fields are cleared with Set[*T](nil).
type DayLogPatch struct {
	SelectedWorkout  Opt[*string]
	WorkoutCompleted Opt[*string]
	WorkoutRating    Opt[*int]
	WorkoutSnapshot  Opt[*WorkoutSnapshot]
	Meals            Opt[[]Meal]
	Notes            Opt[string]
	Steps            Opt[*int]
	DayClosed        Opt[bool]
	IsOffDay         Opt[bool]
}

func (p DayLogPatch) applyTo(dl *DayLog) {
	if p.SelectedWorkout.Set {
		dl.SelectedWorkout = cloneStr(p.SelectedWorkout.Value)
	}
	if p.WorkoutCompleted.Set {
		dl.WorkoutCompleted = cloneStr(p.WorkoutCompleted.Value)
	}
	if p.WorkoutRating.Set {
		dl.WorkoutRating = cloneInt(p.WorkoutRating.Value)
	}
	if p.WorkoutSnapshot.Set {
		dl.WorkoutSnapshot = p.WorkoutSnapshot.Value.Clone()
	}
	if p.Meals.Set {
		dl.Meals = make([]Meal, len(p.Meals.Value))
		copy(dl.Meals, p.Meals.Value)
	}
	if p.Notes.Set {
		dl.Notes = p.Notes.Value
	}
	if p.Steps.Set {
		dl.Steps = cloneInt(p.Steps.Value)
	}
	if p.DayClosed.Set {
		dl.DayClosed = p.DayClosed.Value
	}
	if p.IsOffDay.Set {
		dl.IsOffDay = p.IsOffDay.Value
	}
}

// GetOrCreate returns the log of a date, or a fresh default one.
// The default is not stored until something mutates the day.
func (s *Store) GetOrCreate(date string) DayLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dayLogLocked(date).Clone()
}

func (s *Store) dayLogLocked(date string) DayLog {
	if dl, ok := s.dayLogs[date]; ok {
		return dl
	}
	return NewDayLog()
}

// HasDayLog reports whether a date has a stored record.
func (s *Store) HasDayLog(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.dayLogs[date]
	return ok
}

// DayLogs returns a copy of all stored day logs.
func (s *Store) DayLogs() map[string]DayLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDayLogs(s.dayLogs)
}

// Update shallow-merges a patch into the log of a date, creating it from the default if absent.
func (s *Store) Update(date string, patch DayLogPatch) DayLog {
	s.mu.Lock()
	dl := s.updateLocked(date, patch)
	s.mu.Unlock()

	s.notify(ChangeDayLogs)
	return dl
}

func (s *Store) updateLocked(date string, patch DayLogPatch) DayLog {
	dl := s.dayLogLocked(date).Clone()
	patch.applyTo(&dl)
	s.dayLogs[date] = dl
	return dl.Clone()
}

// SelectWorkout picks the template of a date. Selecting on an off day turns it into a workout day.
func (s *Store) SelectWorkout(date, workoutID string) bool {
	s.mu.RLock()
	dl := s.dayLogLocked(date)
	exists := s.workoutIndexLocked(workoutID) >= 0
	s.mu.RUnlock()

	if !exists || dl.DayClosed {
		return false
	}
	s.Update(date, DayLogPatch{
		SelectedWorkout: Set(strPtr(workoutID)),
		IsOffDay:        Set(false),
	})
	return true
}

// CloseDay closes (close == true) or reopens a date.
//
// Closing freezes a deep copy of the workout's current exercises into the snapshot,
// marks the workout as completed and the day as closed; it also logs the progress of
// every exercise carrying a new weight, and resets the live template completion flags
// so the template starts fresh next time. Closing a day that is already closed
// is a no-op returning false; reopen it first.
// Reopening clears the snapshot, the completed workout, the closed and the off-day
// flags, and hands the logged completion flags back to the live template.
func (s *Store) CloseDay(date, workoutID string, close bool) bool {
	if !close {
		return s.reopenDay(date)
	}

	s.mu.Lock()
	if dl := s.dayLogLocked(date); dl.DayClosed && dl.WorkoutSnapshot != nil {
		s.mu.Unlock()
		log.Debugf("tracker day log: close %s, already closed", date)
		return false
	}
	idx := s.workoutIndexLocked(workoutID)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("tracker day log: close %s, unknown workout %s", date, workoutID)
		return false
	}

	live := s.workouts[idx]
	snapshot := live.Snapshot()
	s.updateLocked(date, DayLogPatch{
		SelectedWorkout:  Set(strPtr(workoutID)),
		WorkoutCompleted: Set(strPtr(workoutID)),
		WorkoutSnapshot:  Set(snapshot),
		DayClosed:        Set(true),
		IsOffDay:         Set(false),
	})

	logged := s.logProgressLocked(date, workoutID, snapshot.Exercises)

	reset := live.Clone()
	for i := range reset.Exercises {
		reset.Exercises[i].Completed = false
	}
	s.workouts[idx] = reset
	s.mu.Unlock()

	changes := []Change{ChangeDayLogs, ChangeWorkouts}
	if logged > 0 {
		changes = append(changes, ChangeProgress)
	}
	s.notify(changes...)
	return true
}

func (s *Store) reopenDay(date string) bool {
	s.mu.Lock()
	dl := s.dayLogLocked(date)
	if dl.WorkoutSnapshot != nil && dl.WorkoutCompleted != nil {
		if idx := s.workoutIndexLocked(*dl.WorkoutCompleted); idx >= 0 {
			s.workouts[idx] = restoreCompletion(s.workouts[idx], dl.WorkoutSnapshot)
		}
	}
	s.updateLocked(date, DayLogPatch{
		WorkoutCompleted: Set[*string](nil),
		WorkoutSnapshot:  Set[*WorkoutSnapshot](nil),
		DayClosed:        Set(false),
		IsOffDay:         Set(false),
	})
	s.mu.Unlock()

	s.notify(ChangeDayLogs, ChangeWorkouts)
	return true
}

func restoreCompletion(live Workout, snapshot *WorkoutSnapshot) Workout {
	done := make(map[string]bool, len(snapshot.Exercises))
	for _, e := range snapshot.Exercises {
		done[e.ID] = e.Completed
	}
	w := live.Clone()
	for i := range w.Exercises {
		if c, ok := done[w.Exercises[i].ID]; ok {
			w.Exercises[i].Completed = c
		}
	}
	return w
}

// CloseOffDay closes a rest day. Callers gate it on steps > 0.
func (s *Store) CloseOffDay(date string) bool {
	s.mu.RLock()
	dl := s.dayLogLocked(date)
	s.mu.RUnlock()
	if !dl.IsOffDay {
		return false
	}
	s.Update(date, DayLogPatch{DayClosed: Set(true)})
	return true
}

// ToggleOffDay flips the rest day flag of a date.
// Marking a day off resets the workout path and closes the day right away when steps
// are already recorded. Unmarking always reopens the day.
func (s *Store) ToggleOffDay(date string) DayLog {
	s.mu.Lock()
	dl := s.dayLogLocked(date)
	var patch DayLogPatch
	if dl.IsOffDay {
		patch = DayLogPatch{
			IsOffDay:  Set(false),
			DayClosed: Set(false),
		}
	} else {
		patch = DayLogPatch{
			IsOffDay:         Set(true),
			SelectedWorkout:  Set[*string](nil),
			WorkoutCompleted: Set[*string](nil),
			WorkoutSnapshot:  Set[*WorkoutSnapshot](nil),
			DayClosed:        Set(dl.StepCount() > 0),
		}
	}
	updated := s.updateLocked(date, patch)
	s.mu.Unlock()

	s.notify(ChangeDayLogs)
	return updated
}

// SetExerciseCompleted toggles an exercise of the live template used on an open date.
// Closed days are read-only.
func (s *Store) SetExerciseCompleted(date, workoutID, exerciseID string, completed bool) bool {
	if s.GetOrCreate(date).DayClosed {
		return false
	}
	return s.mutateWorkout(workoutID, func(w *Workout) bool {
		for i := range w.Exercises {
			if w.Exercises[i].ID == exerciseID {
				if w.Exercises[i].Completed == completed {
					return false
				}
				w.Exercises[i].Completed = completed
				return true
			}
		}
		return false
	})
}

// SetSteps records the step count of a date; negative values clear it.
func (s *Store) SetSteps(date string, steps int) DayLog {
	if steps < 0 {
		return s.Update(date, DayLogPatch{Steps: Set[*int](nil)})
	}
	return s.Update(date, DayLogPatch{Steps: Set(intPtr(steps))})
}

func (s *Store) SetNotes(date, notes string) DayLog {
	return s.Update(date, DayLogPatch{Notes: Set(notes)})
}

// RateWorkout stores a 1..5 rating; out of range values clear it.
func (s *Store) RateWorkout(date string, rating int) DayLog {
	if rating < 1 || rating > MaxWorkoutRating {
		return s.Update(date, DayLogPatch{WorkoutRating: Set[*int](nil)})
	}
	return s.Update(date, DayLogPatch{WorkoutRating: Set(intPtr(rating))})
}

// AddMeal inserts a meal keeping the day's meals ordered by time, and returns its id.
func (s *Store) AddMeal(date string, meal Meal) string {
	if meal.ID == "" {
		meal.ID = s.NewID()
	}
	meal = normalizeMeal(meal, s)

	s.mu.Lock()
	meals := append(s.dayLogLocked(date).Clone().Meals, meal)
	sortMeals(meals)
	s.updateLocked(date, DayLogPatch{Meals: Set(meals)})
	s.mu.Unlock()

	s.notify(ChangeDayLogs)
	return meal.ID
}

// UpdateMeal replaces the meal with the same id.
func (s *Store) UpdateMeal(date string, meal Meal) bool {
	meal = normalizeMeal(meal, s)
	return s.mutateMeals(date, func(meals []Meal) ([]Meal, bool) {
		for i := range meals {
			if meals[i].ID == meal.ID {
				meals[i] = meal
				sortMeals(meals)
				return meals, true
			}
		}
		return nil, false
	})
}

func (s *Store) DeleteMeal(date, mealID string) bool {
	return s.mutateMeals(date, func(meals []Meal) ([]Meal, bool) {
		for i := range meals {
			if meals[i].ID == mealID {
				return append(meals[:i], meals[i+1:]...), true
			}
		}
		return nil, false
	})
}

func (s *Store) ToggleFavoriteMeal(date, mealID string) bool {
	return s.mutateMeals(date, func(meals []Meal) ([]Meal, bool) {
		for i := range meals {
			if meals[i].ID == mealID {
				meals[i].IsFavorite = !meals[i].IsFavorite
				return meals, true
			}
		}
		return nil, false
	})
}

func (s *Store) mutateMeals(date string, mutate func([]Meal) ([]Meal, bool)) bool {
	s.mu.Lock()
	if _, ok := s.dayLogs[date]; !ok {
		s.mu.Unlock()
		return false
	}
	meals, ok := mutate(s.dayLogLocked(date).Clone().Meals)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.updateLocked(date, DayLogPatch{Meals: Set(meals)})
	s.mu.Unlock()

	s.notify(ChangeDayLogs)
	return true
}

func normalizeMeal(meal Meal, s *Store) Meal {
	meal.Name = strings.TrimSpace(meal.Name)
	meal.Time = NormalizeMealTime(meal.Time, s.Now())
	meal.Protein = nonNegative(meal.Protein)
	meal.Fat = nonNegative(meal.Fat)
	meal.Carbs = nonNegative(meal.Carbs)
	meal.Calories = nonNegative(meal.Calories)
	return meal
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}

func sortMeals(meals []Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].Time < meals[j].Time
	})
}
