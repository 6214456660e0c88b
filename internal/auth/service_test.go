package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

var (
	testUsername     = "testuser"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
	testUser         = &User{
		ID:           7,
		Username:     testUsername,
		PasswordHash: testPasswordHash,
	}
	testCredentials = Credentials{
		Username: testUsername,
		Password: testPassword,
	}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := NewMockusersStore(ctrl)
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(users, time.Hour, db)
	require.NotNil(t, authService)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		assert.Equal(t, tokenLength, s)
		return testToken, nil
	}

	now := time.Now()
	users.EXPECT().GetByUsername(gomock.Any(), testUsername).Return(testUser, nil)
	mock.ExpectSet(sessionKeyPrefix+testToken, fmt.Sprintf("7:%d", now.Unix()), time.Hour).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)
	token, err := authService.Login(context.Background(), testCredentials, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	// wrong password
	users.EXPECT().GetByUsername(gomock.Any(), testUsername).Return(testUser, nil)
	token, err = authService.Login(context.Background(), Credentials{
		Username: testUsername,
		Password: "invalid_pass",
	}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Empty(t, token)

	// unknown user looks the same as a wrong password
	users.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(nil, ErrUserNotFound)
	_, err = authService.Login(context.Background(), Credentials{Username: "nobody", Password: "x"}, now)
	assert.ErrorIs(t, err, ErrWrongPassword)

	// storage failure is not hidden
	users.EXPECT().GetByUsername(gomock.Any(), testUsername).Return(nil, errors.New("pg down"))
	_, err = authService.Login(context.Background(), testCredentials, now)
	assert.ErrorContains(t, err, "pg down")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	authService := NewAuthService(nil, time.Hour, db)

	mock.ExpectDel(sessionKeyPrefix + "token1").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "token1").SetVal(1)
	loggedOut, err := authService.Logout(context.Background(), "token1")
	require.NoError(t, err)
	assert.True(t, loggedOut)

	mock.ExpectDel(sessionKeyPrefix + "token1").SetVal(0)
	mock.ExpectSRem(tokensSetKey, "token1").SetVal(0)
	loggedOut, err = authService.Logout(context.Background(), "token1")
	require.NoError(t, err)
	assert.False(t, loggedOut)

	mock.ExpectDel(sessionKeyPrefix + "token2").SetErr(errors.New("redis down"))
	_, err = authService.Logout(context.Background(), "token2")
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	db, mock := redismock.NewClientMock()
	defer db.Close()
	authService := NewAuthService(nil, ttl, db)

	t1, t2, t3, t4 := "fresh", "old", "gone", "broken"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2, t3, t4})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(fmt.Sprintf("1:%d", now.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(fmt.Sprintf("1:%d", then.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t3).RedisNil()
	mock.ExpectGet(sessionKeyPrefix + t4).SetVal("garbage")
	for _, token := range []string{t2, t3, t4} {
		mock.ExpectDel(sessionKeyPrefix + token).SetVal(1)
		mock.ExpectSRem(tokensSetKey, token).SetVal(1)
	}

	assert.Equal(t, 3, authService.ScanAndClean(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectSMembers(tokensSetKey).SetVal([]string{})
	assert.Zero(t, authService.ScanAndClean(context.Background()))
}

func TestDecodeSession(t *testing.T) {
	s, err := decodeSession("12:1704888000")
	require.NoError(t, err)
	assert.Equal(t, 12, s.UserID)
	assert.Equal(t, int64(1704888000), s.CreatedAt.Unix())
	assert.Equal(t, "12:1704888000", s.encode())

	for _, bad := range []string{"", "12", "x:1", "1:y"} {
		_, err := decodeSession(bad)
		assert.Error(t, err, bad)
	}

	assert.True(t, s.expired(time.Hour, s.CreatedAt.Add(2*time.Hour)))
	assert.False(t, s.expired(time.Hour, s.CreatedAt.Add(time.Minute)))
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithUserID(context.Background(), 42)
	userID, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 42, userID)
}
