package tracker

// Explicit structural copies. Snapshots and everything handed out of the Store
// must never share backing arrays or pointers with the live state.

func cloneExercises(exercises []Exercise) []Exercise {
	if exercises == nil {
		return []Exercise{}
	}
	out := make([]Exercise, len(exercises))
	copy(out, exercises) // Exercise holds only value fields
	return out
}

func (w Workout) Clone() Workout {
	return Workout{
		ID:        w.ID,
		Name:      w.Name,
		Exercises: cloneExercises(w.Exercises),
	}
}

// Snapshot freezes the workout as it is right now.
func (w Workout) Snapshot() *WorkoutSnapshot {
	return &WorkoutSnapshot{
		ID:        w.ID,
		Name:      w.Name,
		Exercises: cloneExercises(w.Exercises),
	}
}

func (s *WorkoutSnapshot) Clone() *WorkoutSnapshot {
	if s == nil {
		return nil
	}
	return &WorkoutSnapshot{
		ID:        s.ID,
		Name:      s.Name,
		Exercises: cloneExercises(s.Exercises),
	}
}

func cloneWorkouts(workouts []Workout) []Workout {
	out := make([]Workout, len(workouts))
	for i, w := range workouts {
		out[i] = w.Clone()
	}
	return out
}

func (d DayLog) Clone() DayLog {
	c := d
	c.SelectedWorkout = cloneStr(d.SelectedWorkout)
	c.WorkoutCompleted = cloneStr(d.WorkoutCompleted)
	c.WorkoutRating = cloneInt(d.WorkoutRating)
	c.Steps = cloneInt(d.Steps)
	c.WorkoutSnapshot = d.WorkoutSnapshot.Clone()
	c.Meals = make([]Meal, len(d.Meals))
	copy(c.Meals, d.Meals)
	return c
}

func cloneDayLogs(logs map[string]DayLog) map[string]DayLog {
	out := make(map[string]DayLog, len(logs))
	for k, v := range logs {
		out[k] = v.Clone()
	}
	return out
}

func cloneProgress(history map[string][]ExerciseProgress) map[string][]ExerciseProgress {
	out := make(map[string][]ExerciseProgress, len(history))
	for k, v := range history {
		entries := make([]ExerciseProgress, len(v))
		copy(entries, v)
		out[k] = entries
	}
	return out
}

func (m BodyMeasurement) Clone() BodyMeasurement {
	c := m
	c.Weight = cloneFloat(m.Weight)
	c.Waist = cloneFloat(m.Waist)
	c.Chest = cloneFloat(m.Chest)
	c.BicepsLeft = cloneFloat(m.BicepsLeft)
	c.BicepsRight = cloneFloat(m.BicepsRight)
	c.Biceps = cloneFloat(m.Biceps)
	c.Thighs = cloneFloat(m.Thighs)
	c.Hips = cloneFloat(m.Hips)
	return c
}

func cloneMeasurements(ms []BodyMeasurement) []BodyMeasurement {
	out := make([]BodyMeasurement, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}

// Clone deep copies the whole aggregate.
func (s State) Clone() State {
	return State{
		Workouts:         cloneWorkouts(s.Workouts),
		DayLogs:          cloneDayLogs(s.DayLogs),
		ProgressHistory:  cloneProgress(s.ProgressHistory),
		BodyMeasurements: cloneMeasurements(s.BodyMeasurements),
	}
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
