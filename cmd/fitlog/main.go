package main

import (
	"context"
	"os"

	"github.com/2beens/fitlog/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:     "fitlog",
		HelpName: "fitlog",
		Usage:    "daily fitness log: workouts, meals, steps and body measurements",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:9000",
				Usage:   "fitlog service base URL",
				EnvVars: []string{"FITLOG_SERVER"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "session token, overrides the token file",
				EnvVars: []string{"FITLOG_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "token-file",
				Value:   defaultTokenFile(),
				Usage:   "file keeping the session token between runs",
				EnvVars: []string{"FITLOG_TOKEN_FILE"},
			},
			&cli.StringFlag{
				Name:    "ai-url",
				Usage:   "AI proxy base URL, used by meal analyze and recommend",
				EnvVars: []string{"FITLOG_AI_URL"},
			},
			&cli.StringFlag{
				Name:    "ai-key",
				Usage:   "AI proxy API key",
				EnvVars: []string{"FITLOG_AI_KEY"},
			},
			&cli.StringFlag{
				Name:    "date",
				Usage:   "day to work on [YYYY-MM-DD], today by default",
				EnvVars: []string{"FITLOG_DATE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level [trace | debug | info | warn | error]",
				EnvVars: []string{"FITLOG_LOG_LEVEL"},
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Errorf("%s: %s", c.App.Name, err)
		},
		Before: func(c *cli.Context) error {
			log.SetLevel(logging.GetLevel(c.String("log-level")))
			log.SetOutput(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			dayCommand(),
			stepsCommand(),
			notesCommand(),
			rateCommand(),
			offDayCommand(),
			closeCommand(),
			reopenCommand(),
			weekCommand(),
			monthCommand(),
			workoutCommand(),
			exerciseCommand(),
			mealCommand(),
			measureCommand(),
			progressCommand(),
			settingsCommand(),
		},
	}
}

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
