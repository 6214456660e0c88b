package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/auth"
	"github.com/2beens/fitlog/internal/config"
	"github.com/2beens/fitlog/internal/middleware"
	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestServer(t *testing.T) (*Server, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()
	cfg, err := config.Parse("development", `
[development]
postgres_host = "localhost"
postgres_db_name = "fitlog"
redis_host = "localhost"
allowed_origins = ["https://fitlog.app"]
`)
	require.NoError(t, err)

	return &Server{
		config:         cfg,
		versionInfo:    "v1.2.3",
		redisClient:    rdb,
		authService:    auth.NewAuthService(auth.NewUsersRepo(nil), cfg.SessionTTL, rdb),
		loginChecker:   auth.NewLoginChecker(cfg.SessionTTL, rdb),
		metricsManager: metrics.NewTestManager(),
		otelShutdown:   func() {},
	}, mock
}

func TestServer_Router(t *testing.T) {
	s, mock := newTestServer(t)
	r := s.routerSetup()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v1.2.3", rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "fitlog", rr.Body.String())

	t.Run("no token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/fitness-data", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		mock.ExpectGet("fitlog-session||some-token").RedisNil()
		req := httptest.NewRequest("GET", "/api/settings", nil)
		req.Header.Set(middleware.TokenHeader, "some-token")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/version", nil)
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", "/a/b/c", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(s.metricsManager.CounterRequests.WithLabelValues("GET", "401")))
}

func TestServer_ConnStateMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateActive)
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metricsManager.GaugeRequests))

	s.connStateMetrics(nil, http.StateClosed)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metricsManager.GaugeRequests))
}

func TestServer_CleanSessionsStopsWithContext(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectSMembers("fitlog-sessions").SetVal([]string{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.cleanSessionsPeriodically(ctx, 5*time.Millisecond)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sessions cleanup did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
