package main

import (
	"fmt"
	"os"

	"github.com/2beens/fitlog/internal/tracker"
	"github.com/2beens/fitlog/pkg"

	"github.com/urfave/cli/v2"
)

func workoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "workout",
		Usage: "manage the workout templates",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the workout templates",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					printWorkouts(c.App.Writer, s.Workouts())
					return nil
				}),
			},
			{
				Name:  "add",
				Usage: fmt.Sprintf("add an empty workout template, up to %d", tracker.MaxWorkouts),
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					w, ok := s.AddWorkout()
					if !ok {
						return fmt.Errorf("the catalog is full, max is %d workouts", tracker.MaxWorkouts)
					}
					fmt.Fprintf(c.App.Writer, "added %s: %s\n", w.ID, w.Name)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a workout template, the later ones are renumbered",
				ArgsUsage: "<workout id>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					id := c.Args().First()
					if !s.DeleteWorkout(id) {
						return fmt.Errorf("workout %q not deleted, unknown or the last one", id)
					}
					return nil
				}),
			},
			{
				Name:      "rename",
				Usage:     "rename a workout template",
				ArgsUsage: "<workout id> <name>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					id, name := c.Args().Get(0), c.Args().Get(1)
					if !s.RenameWorkout(id, name) {
						return fmt.Errorf("workout %q not renamed", id)
					}
					return nil
				}),
			},
			{
				Name:      "select",
				Usage:     "pick the workout of the day",
				ArgsUsage: "<workout id>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					id := c.Args().First()
					if !s.SelectWorkout(date, id) {
						return fmt.Errorf("workout %q not selected on %s", id, date)
					}
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "replace the catalog with a YAML program",
				ArgsUsage: "<program.yaml>",
				Before: func(c *cli.Context) error {
					path := c.Args().First()
					exists, err := pkg.PathExists(path, false)
					if err != nil {
						return err
					}
					if !exists {
						return fmt.Errorf("program file %q not found", path)
					}
					return nil
				},
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					f, err := os.Open(c.Args().First())
					if err != nil {
						return err
					}
					defer f.Close()

					n, err := s.ImportProgram(f)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %d workouts\n", n)
					return nil
				}),
			},
		},
	}
}

// activeWorkoutID is the --workout flag, else the workout shown on the day.
func activeWorkoutID(c *cli.Context, s *tracker.Store, date string) (string, error) {
	if id := c.String("workout"); id != "" {
		return id, nil
	}
	view, err := s.DayView(date)
	if err != nil {
		return "", err
	}
	if view.Workout == nil {
		return "", fmt.Errorf("no workout on %s, use --workout", date)
	}
	return view.Workout.ID, nil
}

func workoutFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "workout",
		Usage: "workout id, the active one of the day by default",
	}
}

func exerciseFlags() []cli.Flag {
	return []cli.Flag{
		workoutFlag(),
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "sets", Usage: "planned sets, e.g. 4x8"},
		&cli.StringFlag{Name: "actual", Usage: "sets actually done"},
		&cli.StringFlag{Name: "weight", Usage: "new working weight, logged to the progress history on close"},
		&cli.StringFlag{Name: "rest", Usage: "rest between sets, e.g. 90s"},
		&cli.StringFlag{Name: "notes"},
		&cli.StringFlag{Name: "feedback"},
	}
}

func applyExerciseFlags(c *cli.Context, ex *tracker.Exercise) {
	fields := map[string]*string{
		"name":     &ex.Name,
		"sets":     &ex.PlannedSets,
		"actual":   &ex.ActualSets,
		"weight":   &ex.NewWeight,
		"rest":     &ex.RestTime,
		"notes":    &ex.Notes,
		"feedback": &ex.Feedback,
	}
	for flag, field := range fields {
		if c.IsSet(flag) {
			*field = c.String(flag)
		}
	}
}

func findExercise(s *tracker.Store, workoutID, exerciseID string) (tracker.Exercise, error) {
	w, ok := s.Workout(workoutID)
	if !ok {
		return tracker.Exercise{}, fmt.Errorf("workout %q not found", workoutID)
	}
	for _, e := range w.Exercises {
		if e.ID == exerciseID {
			return e, nil
		}
	}
	return tracker.Exercise{}, fmt.Errorf("exercise %q not found in %s", exerciseID, workoutID)
}

func exerciseCommand() *cli.Command {
	return &cli.Command{
		Name:  "exercise",
		Usage: "manage the exercises of a workout template",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "append an exercise to a workout",
				Flags: exerciseFlags(),
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					workoutID, err := activeWorkoutID(c, s, date)
					if err != nil {
						return err
					}
					var ex tracker.Exercise
					applyExerciseFlags(c, &ex)
					id, ok := s.AddExercise(workoutID, ex)
					if !ok {
						return fmt.Errorf("workout %q not found", workoutID)
					}
					fmt.Fprintf(c.App.Writer, "added %s to %s\n", id, workoutID)
					return nil
				}),
			},
			{
				Name:      "set",
				Usage:     "update the given fields of an exercise",
				ArgsUsage: "<exercise id>",
				Flags:     exerciseFlags(),
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					workoutID, err := activeWorkoutID(c, s, date)
					if err != nil {
						return err
					}
					ex, err := findExercise(s, workoutID, c.Args().First())
					if err != nil {
						return err
					}
					applyExerciseFlags(c, &ex)
					s.UpdateExercise(workoutID, ex)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "remove an exercise",
				ArgsUsage: "<exercise id>",
				Flags:     []cli.Flag{workoutFlag()},
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					workoutID, err := activeWorkoutID(c, s, date)
					if err != nil {
						return err
					}
					if !s.DeleteExercise(workoutID, c.Args().First()) {
						return fmt.Errorf("exercise %q not found in %s", c.Args().First(), workoutID)
					}
					return nil
				}),
			},
			{
				Name:      "move",
				Usage:     "move an exercise up or down",
				ArgsUsage: "<exercise id> <up|down>",
				Flags:     []cli.Flag{workoutFlag()},
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					workoutID, err := activeWorkoutID(c, s, date)
					if err != nil {
						return err
					}
					var dir tracker.Direction
					switch c.Args().Get(1) {
					case "up":
						dir = tracker.Up
					case "down":
						dir = tracker.Down
					default:
						return fmt.Errorf("direction must be up or down, got %q", c.Args().Get(1))
					}
					s.MoveExercise(workoutID, c.Args().First(), dir)
					return nil
				}),
			},
			{
				Name:      "done",
				Usage:     "mark an exercise of the day done",
				ArgsUsage: "<exercise id>",
				Flags: []cli.Flag{
					workoutFlag(),
					&cli.BoolFlag{Name: "undo", Usage: "mark it not done"},
				},
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					workoutID, err := activeWorkoutID(c, s, date)
					if err != nil {
						return err
					}
					if s.GetOrCreate(date).DayClosed {
						return fmt.Errorf("%s is closed, reopen it first", date)
					}
					if _, err := findExercise(s, workoutID, c.Args().First()); err != nil {
						return err
					}
					s.SetExerciseCompleted(date, workoutID, c.Args().First(), !c.Bool("undo"))

					view, err := s.DayView(date)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%d/%d done\n", view.Progress.Completed, view.Progress.Total)
					return nil
				}),
			},
		},
	}
}
