package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/mealai"
	"github.com/2beens/fitlog/internal/tracker"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var macroFlagNames = []string{"protein", "fat", "carbs", "calories"}

// userNow is the current time in the user's timezone.
func userNow(s *tracker.Store) time.Time {
	now := s.Now()
	if loc, err := time.LoadLocation(s.Settings().Timezone); err == nil {
		return now.In(loc)
	}
	return now
}

func aiClient(c *cli.Context) (*mealai.Client, error) {
	baseURL := c.String("ai-url")
	if baseURL == "" {
		return nil, errors.New("AI proxy not configured, use --ai-url or FITLOG_AI_URL")
	}
	return mealai.NewClient(baseURL, c.String("ai-key"), &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   mealai.RequestTimeout,
	}), nil
}

func mealCommand() *cli.Command {
	return &cli.Command{
		Name:  "meal",
		Usage: "log meals and get suggestions",
		Subcommands: []*cli.Command{
			mealAddCommand(),
			{
				Name:      "delete",
				Usage:     "remove a meal of the day",
				ArgsUsage: "<meal id>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					if !s.DeleteMeal(date, c.Args().First()) {
						return fmt.Errorf("meal %q not found on %s", c.Args().First(), date)
					}
					return nil
				}),
			},
			{
				Name:      "favorite",
				Usage:     "toggle the favorite flag of a meal of the day",
				ArgsUsage: "<meal id>",
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					date, err := dateKey(c, s)
					if err != nil {
						return err
					}
					if !s.ToggleFavoriteMeal(date, c.Args().First()) {
						return fmt.Errorf("meal %q not found on %s", c.Args().First(), date)
					}
					return nil
				}),
			},
			{
				Name:      "suggest",
				Usage:     "list known meals, favorites and the most eaten first",
				ArgsUsage: "[name prefix]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10},
					&cli.BoolFlag{Name: "favorites", Usage: "only the favorite meals"},
				},
				Action: withStore(func(c *cli.Context, s *tracker.Store) error {
					if c.Bool("favorites") {
						printMealStats(c.App.Writer, s.FavoriteMeals())
						return nil
					}
					printMealStats(c.App.Writer, s.MealSuggestions(c.Args().First(), c.Int("limit")))
					return nil
				}),
			},
			mealAnalyzeCommand(),
			mealRecommendCommand(),
		},
	}
}

func mealAddCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "log a meal; a known meal name prefills the macros of its last entry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "time", Usage: "HH:MM, now by default"},
			&cli.Float64Flag{Name: "protein", Usage: "grams"},
			&cli.Float64Flag{Name: "fat", Usage: "grams"},
			&cli.Float64Flag{Name: "carbs", Usage: "grams"},
			&cli.Float64Flag{Name: "calories", Usage: "kcal"},
			&cli.BoolFlag{Name: "favorite"},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}

			meal := tracker.Meal{
				Name:       c.String("name"),
				Time:       c.String("time"),
				IsFavorite: c.Bool("favorite"),
			}
			if meal.Time == "" {
				meal.Time = userNow(s).Format("15:04")
			}
			if !anySet(c, macroFlagNames...) {
				if known, ok := knownMeal(s, meal.Name); ok {
					meal.Protein, meal.Fat = known.Protein, known.Fat
					meal.Carbs, meal.Calories = known.Carbs, known.Calories
				}
			}
			if c.IsSet("protein") {
				meal.Protein = c.Float64("protein")
			}
			if c.IsSet("fat") {
				meal.Fat = c.Float64("fat")
			}
			if c.IsSet("carbs") {
				meal.Carbs = c.Float64("carbs")
			}
			if c.IsSet("calories") {
				meal.Calories = c.Float64("calories")
			}

			id := s.AddMeal(date, meal)
			fmt.Fprintf(c.App.Writer, "added %s\n", id)
			return nil
		}),
	}
}

func anySet(c *cli.Context, names ...string) bool {
	for _, n := range names {
		if c.IsSet(n) {
			return true
		}
	}
	return false
}

func knownMeal(s *tracker.Store, name string) (tracker.Meal, bool) {
	for _, st := range s.MealSuggestions(name, 0) {
		if strings.EqualFold(st.Name, strings.TrimSpace(name)) {
			return st.Last, true
		}
	}
	return tracker.Meal{}, false
}

func mealAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "estimate the macros of a meal photo",
		ArgsUsage: "<image file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hint", Usage: "what is on the plate, helps the estimate"},
			&cli.BoolFlag{Name: "add", Usage: "log the analyzed meal on the day"},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			client, err := aiClient(c)
			if err != nil {
				return err
			}
			image, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}

			analysis, err := client.AnalyzePhoto(c.Context, image, c.String("hint"))
			if err != nil {
				return err
			}
			printAnalysis(c.App.Writer, analysis)

			if !c.Bool("add") {
				return nil
			}
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}
			id := s.AddMeal(date, analysis.Meal(userNow(s).Format("15:04")))
			fmt.Fprintf(c.App.Writer, "added %s\n", id)
			return nil
		}),
	}
}

func mealRecommendCommand() *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "suggest what to eat next to meet the day's macro targets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "guidance", Usage: "free text preferences, e.g. vegetarian"},
		},
		Action: withStore(func(c *cli.Context, s *tracker.Store) error {
			client, err := aiClient(c)
			if err != nil {
				return err
			}
			date, err := dateKey(c, s)
			if err != nil {
				return err
			}

			req := mealai.BuildRecommendationRequest(
				s.GetOrCreate(date),
				tracker.MacroTargets(),
				s.MealSuggestions("", 0),
				c.String("guidance"),
				userNow(s),
			)
			rec, err := client.Recommend(c.Context, req)
			if err != nil {
				return err
			}
			printRecommendation(c.App.Writer, req, rec)
			return nil
		}),
	}
}
