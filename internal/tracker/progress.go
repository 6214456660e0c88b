package tracker

import (
	"sort"
	"strings"
)

// LogExerciseProgress appends an entry to the progress history of an exercise.
// The history is append-only.
func (s *Store) LogExerciseProgress(workoutID, exerciseID string, entry ExerciseProgress) {
	s.mu.Lock()
	key := ProgressKey(workoutID, exerciseID)
	s.progress[key] = append(s.progress[key], entry)
	s.mu.Unlock()

	s.notify(ChangeProgress)
}

// logProgressLocked records the new weight of every exercise that has one.
func (s *Store) logProgressLocked(date, workoutID string, exercises []Exercise) int {
	logged := 0
	for _, e := range exercises {
		if strings.TrimSpace(e.NewWeight) == "" {
			continue
		}
		weight := ParseAmount(e.NewWeight)
		if weight <= 0 {
			continue
		}
		key := ProgressKey(workoutID, e.ID)
		s.progress[key] = append(s.progress[key], ExerciseProgress{
			Date:   date,
			Weight: weight,
			Notes:  e.Notes,
		})
		logged++
	}
	return logged
}

// ProgressSeries returns the progress of an exercise ordered by date (stable for equal dates).
func (s *Store) ProgressSeries(workoutID, exerciseID string) []ExerciseProgress {
	s.mu.RLock()
	entries := s.progress[ProgressKey(workoutID, exerciseID)]
	series := make([]ExerciseProgress, len(entries))
	copy(series, entries)
	s.mu.RUnlock()

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

// ProgressHistory returns a copy of the whole progress history.
func (s *Store) ProgressHistory() map[string][]ExerciseProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProgress(s.progress)
}
