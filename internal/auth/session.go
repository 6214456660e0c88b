package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitlog-session||"
	tokensSetKey     = "fitlog-sessions"
)

var ErrNotLogged = errors.New("not logged in")

type userIDKey struct{}

// ContextWithUserID stores the id of the authenticated user.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int)
	return userID, ok
}

// session is the value stored under a session key: "<user id>:<created at unix>".
type session struct {
	UserID    int
	CreatedAt time.Time
}

func (s session) encode() string {
	return fmt.Sprintf("%d:%d", s.UserID, s.CreatedAt.Unix())
}

func decodeSession(val string) (session, error) {
	userIDStr, createdAtStr, found := strings.Cut(val, ":")
	if !found {
		return session{}, fmt.Errorf("malformed session value: %q", val)
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return session{}, fmt.Errorf("session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return session{}, fmt.Errorf("session created at: %w", err)
	}
	return session{
		UserID:    userID,
		CreatedAt: time.Unix(createdAtUnix, 0),
	}, nil
}

func (s session) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}
