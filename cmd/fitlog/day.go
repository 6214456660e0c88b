package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/calendar"
	"github.com/2beens/fitlog/internal/tracker"

	"github.com/urfave/cli/v2"
)

func dayCommand() *cli.Command {
	return &cli.Command{
		Name:    "day",
		Aliases: []string{"today"},
		Usage:   "show the day: workout, progress, meals, macros and steps",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			view, err := s.DayView(date)
			if err != nil {
				return err
			}
			printDayView(c.App.Writer, view)
			return nil
		}),
	}
}

func intArg(c *cli.Context, name string) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one argument: %s", name)
	}
	v, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, c.Args().First(), err)
	}
	return v, nil
}

func stepsCommand() *cli.Command {
	return &cli.Command{
		Name:      "steps",
		Usage:     "record the step count of the day, a negative count clears it",
		ArgsUsage: "<count>",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			steps, err := intArg(c, "step count")
			if err != nil {
				return err
			}
			dl := s.SetSteps(date, steps)
			fmt.Fprintf(c.App.Writer, "%s: %d steps\n", date, dl.StepCount())
			return nil
		}),
	}
}

func notesCommand() *cli.Command {
	return &cli.Command{
		Name:      "notes",
		Usage:     "set the notes of the day",
		ArgsUsage: "<text>",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			s.SetNotes(date, strings.Join(c.Args().Slice(), " "))
			return nil
		}),
	}
}

func rateCommand() *cli.Command {
	return &cli.Command{
		Name:      "rate",
		Usage:     fmt.Sprintf("rate the workout of the day 1..%d, 0 clears the rating", tracker.MaxWorkoutRating),
		ArgsUsage: "<rating>",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			rating, err := intArg(c, "rating")
			if err != nil {
				return err
			}
			s.RateWorkout(date, rating)
			return nil
		}),
	}
}

func offDayCommand() *cli.Command {
	return &cli.Command{
		Name:  "offday",
		Usage: "toggle the rest day flag of the day",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			dl := s.ToggleOffDay(date)
			switch {
			case dl.IsOffDay && dl.DayClosed:
				fmt.Fprintf(c.App.Writer, "%s: rest day, closed\n", date)
			case dl.IsOffDay:
				fmt.Fprintf(c.App.Writer, "%s: rest day\n", date)
			default:
				fmt.Fprintf(c.App.Writer, "%s: workout day\n", date)
			}
			return nil
		}),
	}
}

func closeCommand() *cli.Command {
	return &cli.Command{
		Name:  "close",
		Usage: "close the day, freezing the workout done",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workout",
				Usage: "workout id to close the day with, the active one by default",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "close even with steps missing or exercises left",
			},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			view, err := s.DayView(date)
			if err != nil {
				return err
			}
			if view.Log.DayClosed {
				return fmt.Errorf("%s is already closed", date)
			}
			if !view.ReadyToClose && !c.Bool("force") {
				return fmt.Errorf("%s is not ready to close: %s", date, closeBlocker(view))
			}

			if view.Log.IsOffDay {
				s.CloseOffDay(date)
				fmt.Fprintf(c.App.Writer, "%s: rest day closed\n", date)
				return nil
			}

			workoutID := c.String("workout")
			if workoutID == "" && view.Workout != nil {
				workoutID = view.Workout.ID
			}
			if !s.CloseDay(date, workoutID, true) {
				return fmt.Errorf("workout %q not found", workoutID)
			}
			fmt.Fprintf(c.App.Writer, "%s: closed with %s\n", date, workoutID)
			return nil
		}),
	}
}

func closeBlocker(view tracker.DayView) string {
	if view.Log.StepCount() <= 0 {
		return "no steps recorded"
	}
	return fmt.Sprintf("%d of %d exercises done", view.Progress.Completed, view.Progress.Total)
}

func reopenCommand() *cli.Command {
	return &cli.Command{
		Name:  "reopen",
		Usage: "reopen a closed day",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			if !s.GetOrCreate(date).DayClosed {
				return errors.New(date + " is not closed")
			}
			s.CloseDay(date, "", false)
			fmt.Fprintf(c.App.Writer, "%s: reopened\n", date)
			return nil
		}),
	}
}

func weekCommand() *cli.Command {
	return &cli.Command{
		Name:  "week",
		Usage: "show the steps of the week containing the day",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			total, err := s.WeeklySteps(date)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "week of %s: %d steps\n", date, total)
			return nil
		}),
	}
}

func monthCommand() *cli.Command {
	return &cli.Command{
		Name:  "month",
		Usage: "show the month calendar with workouts, rest days and steps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "month",
				Usage: "month to show [YYYY-MM], the month of the day by default",
			},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			var month time.Time
			if m := c.String("month"); m != "" {
				parsed, err := time.Parse("2006-01", m)
				if err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM", m)
				}
				month = parsed
			} else {
				date, err := dateKey(c, s)
				if err != nil {
					return err
				}
				month, _ = calendar.ParseKey(date)
			}
			printMonth(c.App.Writer, s.MonthSummary(month.Year(), month.Month()))
			return nil
		}),
	}
}
