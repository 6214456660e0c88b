package tracker

import (
	log "github.com/sirupsen/logrus"
)

// Direction of an exercise move inside its workout.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Workouts returns a copy of the catalog, in order.
func (s *Store) Workouts() []Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneWorkouts(s.workouts)
}

func (s *Store) Workout(id string) (Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.workoutIndexLocked(id)
	if idx < 0 {
		return Workout{}, false
	}
	return s.workouts[idx].Clone(), true
}

func (s *Store) workoutIndexLocked(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// AddWorkout appends an empty template. It is a no-op once the catalog holds MaxWorkouts.
func (s *Store) AddWorkout() (Workout, bool) {
	s.mu.Lock()
	if len(s.workouts) >= MaxWorkouts {
		s.mu.Unlock()
		return Workout{}, false
	}
	w := newWorkout(len(s.workouts) + 1)
	s.workouts = append(s.workouts, w)
	s.mu.Unlock()

	s.notify(ChangeWorkouts)
	return w.Clone(), true
}

// DeleteWorkout removes a template and renumbers the rest to t1..tN, keeping their order.
// The last remaining template cannot be deleted.
// Open days selecting a renumbered template follow it to its new id; open days selecting
// the deleted one lose their selection and fall back to the next available workout.
// Closed days keep their frozen snapshot untouched.
func (s *Store) DeleteWorkout(id string) bool {
	s.mu.Lock()
	if len(s.workouts) <= 1 {
		s.mu.Unlock()
		return false
	}
	idx := s.workoutIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	remaining := make([]Workout, 0, len(s.workouts)-1)
	remaining = append(remaining, s.workouts[:idx]...)
	remaining = append(remaining, s.workouts[idx+1:]...)

	renamed := make(map[string]*string, len(s.workouts))
	renamed[id] = nil
	for i := range remaining {
		oldID := remaining[i].ID
		newID := workoutID(i + 1)
		if oldID != newID {
			renamed[oldID] = strPtr(newID)
		}
		if remaining[i].Name == defaultWorkoutName(parseWorkoutNumber(oldID)) {
			remaining[i].Name = defaultWorkoutName(i + 1)
		}
		remaining[i].ID = newID
	}
	s.workouts = remaining

	daysTouched := s.migrateOpenSelectionsLocked(renamed)
	s.mu.Unlock()

	log.Debugf("tracker catalog: deleted workout %s, %d open days migrated", id, daysTouched)
	if daysTouched > 0 {
		s.notify(ChangeWorkouts, ChangeDayLogs)
	} else {
		s.notify(ChangeWorkouts)
	}
	return true
}

// migrateOpenSelectionsLocked rewrites selectedWorkout of every day that is not closed,
// following the old id -> new id mapping (nil => selection dropped).
func (s *Store) migrateOpenSelectionsLocked(renamed map[string]*string) int {
	touched := 0
	for date, dl := range s.dayLogs {
		if dl.DayClosed || dl.SelectedWorkout == nil {
			continue
		}
		newID, ok := renamed[*dl.SelectedWorkout]
		if !ok {
			continue
		}
		dl.SelectedWorkout = cloneStr(newID)
		s.dayLogs[date] = dl
		touched++
	}
	return touched
}

func parseWorkoutNumber(id string) int {
	n := 0
	if len(id) < 2 || id[0] != 't' {
		return -1
	}
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (s *Store) RenameWorkout(id, name string) bool {
	return s.mutateWorkout(id, func(w *Workout) bool {
		if name == "" || w.Name == name {
			return false
		}
		w.Name = name
		return true
	})
}

// AddExercise appends an exercise to a template and returns its id.
func (s *Store) AddExercise(workoutID string, ex Exercise) (string, bool) {
	if ex.ID == "" {
		ex.ID = s.NewID()
	}
	ok := s.mutateWorkout(workoutID, func(w *Workout) bool {
		for _, e := range w.Exercises {
			if e.ID == ex.ID {
				return false
			}
		}
		w.Exercises = append(w.Exercises, ex)
		return true
	})
	if !ok {
		return "", false
	}
	return ex.ID, true
}

// UpdateExercise replaces the exercise with the same id.
func (s *Store) UpdateExercise(workoutID string, ex Exercise) bool {
	return s.mutateWorkout(workoutID, func(w *Workout) bool {
		for i := range w.Exercises {
			if w.Exercises[i].ID == ex.ID {
				w.Exercises[i] = ex
				return true
			}
		}
		return false
	})
}

func (s *Store) DeleteExercise(workoutID, exerciseID string) bool {
	return s.mutateWorkout(workoutID, func(w *Workout) bool {
		for i := range w.Exercises {
			if w.Exercises[i].ID == exerciseID {
				w.Exercises = append(w.Exercises[:i], w.Exercises[i+1:]...)
				return true
			}
		}
		return false
	})
}

// MoveExercise swaps an exercise with its neighbour. No-op at the boundaries.
func (s *Store) MoveExercise(workoutID, exerciseID string, dir Direction) bool {
	return s.mutateWorkout(workoutID, func(w *Workout) bool {
		for i := range w.Exercises {
			if w.Exercises[i].ID != exerciseID {
				continue
			}
			j := i + int(dir)
			if j < 0 || j >= len(w.Exercises) {
				return false
			}
			w.Exercises[i], w.Exercises[j] = w.Exercises[j], w.Exercises[i]
			return true
		}
		return false
	})
}

// ReplaceWorkouts swaps the whole catalog (e.g. a program assigned by a trainer).
// Ids are reassigned t1..tN; open selections pointing past the new catalog are dropped.
func (s *Store) ReplaceWorkouts(workouts []Workout) bool {
	if len(workouts) == 0 {
		return false
	}
	if len(workouts) > MaxWorkouts {
		workouts = workouts[:MaxWorkouts]
	}

	ws := cloneWorkouts(workouts)
	for i := range ws {
		ws[i].ID = workoutID(i + 1)
		if ws[i].Name == "" {
			ws[i].Name = defaultWorkoutName(i + 1)
		}
		for j := range ws[i].Exercises {
			if ws[i].Exercises[j].ID == "" {
				ws[i].Exercises[j].ID = s.NewID()
			}
		}
	}

	s.mu.Lock()
	dropped := make(map[string]*string)
	for i := len(ws); i < len(s.workouts); i++ {
		dropped[s.workouts[i].ID] = nil
	}
	s.workouts = ws
	daysTouched := s.migrateOpenSelectionsLocked(dropped)
	s.mu.Unlock()

	if daysTouched > 0 {
		s.notify(ChangeWorkouts, ChangeDayLogs)
	} else {
		s.notify(ChangeWorkouts)
	}
	return true
}

func (s *Store) mutateWorkout(id string, mutate func(w *Workout) bool) bool {
	s.mu.Lock()
	idx := s.workoutIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	w := s.workouts[idx].Clone()
	if !mutate(&w) {
		s.mu.Unlock()
		return false
	}
	s.workouts[idx] = w
	s.mu.Unlock()

	s.notify(ChangeWorkouts)
	return true
}
