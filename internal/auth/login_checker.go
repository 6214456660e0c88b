package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	checkCacheSize = 1024 * 1024
	// checkCacheExpire bounds how long a revoked token may still pass
	checkCacheExpire = 30 // seconds
)

// LoginChecker resolves session tokens into user ids. Positive answers are kept
// in a small in-process cache to spare a redis round trip per request.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	cache       *freecache.Cache
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		cache:       freecache.NewCache(checkCacheSize),
		now:         time.Now,
	}
}

// UserID returns the user owning the token, or ErrNotLogged.
func (c *LoginChecker) UserID(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, ErrNotLogged
	}

	if cached, err := c.cache.Get([]byte(token)); err == nil {
		if userID, err := strconv.Atoi(string(cached)); err == nil {
			return userID, nil
		}
	}

	val, err := c.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotLogged
		}
		return 0, err
	}

	s, err := decodeSession(val)
	if err != nil {
		return 0, err
	}
	if s.expired(c.ttl, c.now()) {
		return 0, ErrNotLogged
	}

	if err := c.cache.Set([]byte(token), []byte(strconv.Itoa(s.UserID)), checkCacheExpire); err != nil {
		log.Warnf("login checker: cache session: %s", err)
	}
	return s.UserID, nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := c.UserID(ctx, token)
	if errors.Is(err, ErrNotLogged) {
		return false, nil
	}
	return err == nil, err
}

// Forget drops a token from the check cache, used on logout.
func (c *LoginChecker) Forget(token string) {
	c.cache.Del([]byte(token))
}
