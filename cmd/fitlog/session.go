package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/calendar"
	"github.com/2beens/fitlog/internal/remote"
	"github.com/2beens/fitlog/internal/syncer"
	"github.com/2beens/fitlog/internal/tracker"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

const flushTimeout = 30 * time.Second

var errNotLogged = errors.New("not logged in, run: fitlog login")

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".fitlog-token"
	}
	return filepath.Join(dir, "fitlog", "token")
}

func readToken(c *cli.Context) string {
	if token := c.String("token"); token != "" {
		return token
	}
	b, err := os.ReadFile(c.String("token-file"))
	if err != nil {
		log.Debugf("read token file: %s", err)
		return ""
	}
	return strings.TrimSpace(string(b))
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

// session is one run of a command against the synced store.
type session struct {
	store  *tracker.Store
	engine *syncer.Engine
}

func openSession(c *cli.Context) (*session, error) {
	token := readToken(c)
	if token == "" {
		return nil, errNotLogged
	}

	store := tracker.NewStore()
	engine := syncer.NewEngine(store, remote.NewClient(c.String("server"), token, nil))
	if err := engine.Start(c.Context); err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			_ = engine.Close(c.Context)
			return nil, errNotLogged
		}
		if engine.Status() == syncer.StatusError {
			// writing over an unreadable remote would wipe it
			_ = engine.Close(c.Context)
			return nil, fmt.Errorf("load fitness data: %w", err)
		}
		log.Warnf("sync: %s", err)
	}
	return &session{store: store, engine: engine}, nil
}

// close pushes what the command changed and waits for the remote to ack it.
func (s *session) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()
	if err := s.engine.Close(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// withStore runs fn inside a session and syncs its changes before returning.
func withStore(fn func(c *cli.Context, s *tracker.Store) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		sess, err := openSession(c)
		if err != nil {
			return err
		}
		fnErr := fn(c, sess.store)
		if err := sess.close(c.Context); err != nil {
			return multierr.Append(fnErr, err)
		}
		return fnErr
	}
}

// dateKey resolves the --date flag, today in the user's timezone by default.
func dateKey(c *cli.Context, s *tracker.Store) (string, error) {
	date := c.String("date")
	if date == "" {
		return calendar.Key(s.Today()), nil
	}
	if !calendar.IsValidKey(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "open a session and keep its token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Required: true,
				EnvVars:  []string{"FITLOG_USERNAME"},
			},
			&cli.StringFlag{
				Name:     "password",
				Aliases:  []string{"p"},
				Required: true,
				EnvVars:  []string{"FITLOG_PASSWORD"},
			},
		},
		Action: func(c *cli.Context) error {
			client := remote.NewClient(c.String("server"), "", nil)
			token, err := client.Login(c.Context, c.String("username"), c.String("password"))
			if err != nil {
				return err
			}
			if err := writeToken(c.String("token-file"), token); err != nil {
				return fmt.Errorf("store token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, "logged in")
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "close the session",
		Action: func(c *cli.Context) error {
			token := readToken(c)
			if token == "" {
				return errNotLogged
			}
			client := remote.NewClient(c.String("server"), token, nil)
			if err := client.Logout(c.Context); err != nil && !errors.Is(err, remote.ErrUnauthorized) {
				return err
			}
			if err := os.Remove(c.String("token-file")); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			fmt.Fprintln(c.App.Writer, "logged out")
			return nil
		},
	}
}
