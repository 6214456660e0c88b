package tracker

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyProgram = errors.New("program has no workouts")

// Program is a training program as written by a trainer, e.g.
//
//	workouts:
//	  - name: Push
//	    exercises:
//	      - name: Bench press
//	        sets: 4x8
//	        rest: 90s
type Program struct {
	Workouts []ProgramWorkout `yaml:"workouts"`
}

type ProgramWorkout struct {
	Name      string            `yaml:"name"`
	Exercises []ProgramExercise `yaml:"exercises"`
}

type ProgramExercise struct {
	Name     string `yaml:"name"`
	Sets     string `yaml:"sets"`
	Rest     string `yaml:"rest"`
	Notes    string `yaml:"notes"`
	Feedback string `yaml:"feedback"`
}

// ParseProgram decodes a YAML program. Programs longer than MaxWorkouts are rejected.
func ParseProgram(r io.Reader) (*Program, error) {
	var p Program
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyProgram
		}
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if len(p.Workouts) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(p.Workouts) > MaxWorkouts {
		return nil, fmt.Errorf("program has %d workouts, max is %d", len(p.Workouts), MaxWorkouts)
	}
	for i, w := range p.Workouts {
		for j, e := range w.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				return nil, fmt.Errorf("workout %d exercise %d: missing name", i+1, j+1)
			}
		}
	}
	return &p, nil
}

// Templates turns the program into catalog templates. Ids are left for the catalog to assign.
func (p *Program) Templates() []Workout {
	ws := make([]Workout, 0, len(p.Workouts))
	for _, pw := range p.Workouts {
		w := Workout{
			Name:      strings.TrimSpace(pw.Name),
			Exercises: make([]Exercise, 0, len(pw.Exercises)),
		}
		for _, pe := range pw.Exercises {
			w.Exercises = append(w.Exercises, Exercise{
				Name:        strings.TrimSpace(pe.Name),
				PlannedSets: pe.Sets,
				RestTime:    pe.Rest,
				Notes:       pe.Notes,
				Feedback:    pe.Feedback,
			})
		}
		ws = append(ws, w)
	}
	return ws
}

// ImportProgram replaces the catalog with the workouts of a YAML program.
func (s *Store) ImportProgram(r io.Reader) (int, error) {
	p, err := ParseProgram(r)
	if err != nil {
		return 0, err
	}
	ws := p.Templates()
	if !s.ReplaceWorkouts(ws) {
		return 0, ErrEmptyProgram
	}
	return len(ws), nil
}
