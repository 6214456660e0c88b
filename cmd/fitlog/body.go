package main

import (
	"fmt"

	"github.com/2beens/fitlog/internal/tracker"

	"github.com/urfave/cli/v2"
)

var measurementFlagNames = []string{"weight", "waist", "chest", "biceps-left", "biceps-right", "thighs", "hips"}

func measureCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "at", Usage: "RFC 3339 timestamp, now by default"},
		&cli.StringFlag{Name: "notes"},
	}
	for _, name := range measurementFlagNames {
		flags = append(flags, &cli.Float64Flag{Name: name})
	}

	return &cli.Command{
		Name:  "measure",
		Usage: "track body measurements",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "record a measurement, weight in kg and the rest in cm",
				Flags: flags,
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					if !anySet(c, measurementFlagNames...) {
						return fmt.Errorf("nothing to record, set at least one of: %v", measurementFlagNames)
					}
					m := tracker.BodyMeasurement{
						Date:  c.String("at"),
						Notes: c.String("notes"),
					}
					fields := map[string]**float64{
						"weight":       &m.Weight,
						"waist":        &m.Waist,
						"chest":        &m.Chest,
						"biceps-left":  &m.BicepsLeft,
						"biceps-right": &m.BicepsRight,
						"thighs":       &m.Thighs,
						"hips":         &m.Hips,
					}
					for name, field := range fields {
						if c.IsSet(name) {
							v := c.Float64(name)
							*field = &v
						}
					}
					fmt.Fprintf(c.App.Writer, "added %s\n", s.AddMeasurement(m))
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "list the measurements, oldest first",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					printMeasurements(c.App.Writer, s.SortedMeasurements())
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "remove a measurement",
				ArgsUsage: "<measurement id>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					if !s.DeleteMeasurement(c.Args().First()) {
						return fmt.Errorf("measurement %q not found", c.Args().First())
					}
					return nil
				}),
			},
		},
	}
}

func progressCommand() *cli.Command {
	return &cli.Command{
		Name:      "progress",
		Usage:     "show the weight history of an exercise",
		ArgsUsage: "<workout id> <exercise id>",
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected a workout id and an exercise id")
			}
			printProgress(c.App.Writer, s.ProgressSeries(c.Args().Get(0), c.Args().Get(1)))
			return nil
		}),
	}
}

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "show or change the user settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "language", Usage: "en | ru | uk"},
			&cli.StringFlag{Name: "timezone", Usage: "IANA name, e.g. Europe/Kyiv"},
			&cli.StringFlag{Name: "name"},
			&cli.StringFlag{Name: "email"},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			if anySet(c, "language", "timezone", "name", "email") {
				s.UpdateSettings(tracker.UserSettings{
					Language: c.String("language"),
					Timezone: c.String("timezone"),
					Name:     c.String("name"),
					Email:    c.String("email"),
				})
			}
			printSettings(c.App.Writer, s.Settings())
			return nil
		}),
	}
}
