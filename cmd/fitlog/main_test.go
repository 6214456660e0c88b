package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/2beens/fitlog/internal/remote"
	"github.com/2beens/fitlog/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu       sync.Mutex
	token    string
	document []byte
	settings tracker.UserSettings
	saves    int
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	f := &fakeService{
		token:    "secret",
		document: []byte(`{}`),
		settings: tracker.DefaultSettings(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/a/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("username") != "serj" || r.FormValue("password") != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": f.token})
	})
	mux.HandleFunc("/a/logout", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("logged-out"))
	})
	mux.HandleFunc("/api/fitness-data", f.authorized(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			f.document = body
			f.saves++
			_, _ = w.Write([]byte(`{"savedAt":"2024-01-10T11:00:00Z"}`))
			return
		}
		_, _ = w.Write(f.document)
	}))
	mux.HandleFunc("/api/settings", f.authorized(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodPut {
			_ = json.NewDecoder(r.Body).Decode(&f.settings)
		}
		_ = json.NewEncoder(w).Encode(f.settings)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeService) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(remote.TokenHeader) != f.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (f *fakeService) state(t *testing.T) tracker.State {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var state tracker.State
	require.NoError(t, json.Unmarshal(f.document, &state))
	return state
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.RunContext(context.Background(), append([]string{"fitlog"}, args...))
	return out.String(), err
}

func TestSteps_PushedToService(t *testing.T) {
	f, srv := newFakeService(t)

	out, err := runApp(t, "--server", srv.URL, "--token", "secret", "--date", "2024-01-10", "steps", "5000")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10: 5000 steps\n", out)

	state := f.state(t)
	assert.Equal(t, 5000, state.DayLogs["2024-01-10"].StepCount())
	assert.Len(t, state.Workouts, 1, "the default catalog goes along")

	// the next run starts from what the service holds
	_, err = runApp(t, "--server", srv.URL, "--token", "secret", "--date", "2024-01-10", "notes", "easy", "day")
	require.NoError(t, err)
	state = f.state(t)
	assert.Equal(t, 5000, state.DayLogs["2024-01-10"].StepCount())
	assert.Equal(t, "easy day", state.DayLogs["2024-01-10"].Notes)
	assert.Equal(t, 2, f.saves)
}

func TestDay_ReadOnlyDoesNotPush(t *testing.T) {
	f, srv := newFakeService(t)

	out, err := runApp(t, "--server", srv.URL, "--token", "secret", "--date", "2024-01-10", "day")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-10 (open)")
	assert.Contains(t, out, "macros:")
	assert.Zero(t, f.saves)
}

func TestInvalidDate(t *testing.T) {
	_, srv := newFakeService(t)
	_, err := runApp(t, "--server", srv.URL, "--token", "secret", "--date", "2024-02-30", "steps", "1")
	assert.ErrorContains(t, err, "invalid date")
}

func TestNotLoggedIn(t *testing.T) {
	_, srv := newFakeService(t)
	tokenFile := filepath.Join(t.TempDir(), "token")

	_, err := runApp(t, "--server", srv.URL, "--token-file", tokenFile, "steps", "10")
	assert.ErrorIs(t, err, errNotLogged)

	_, err = runApp(t, "--server", srv.URL, "--token", "expired", "steps", "10")
	assert.ErrorIs(t, err, errNotLogged)
}

func TestLoginLogout(t *testing.T) {
	f, srv := newFakeService(t)
	tokenFile := filepath.Join(t.TempDir(), "fitlog", "token")

	_, err := runApp(t, "--server", srv.URL, "--token-file", tokenFile, "login", "-u", "serj", "-p", "wrong")
	assert.ErrorIs(t, err, remote.ErrUnauthorized)
	assert.NoFileExists(t, tokenFile)

	out, err := runApp(t, "--server", srv.URL, "--token-file", tokenFile, "login", "-u", "serj", "-p", "pass")
	require.NoError(t, err)
	assert.Equal(t, "logged in\n", out)

	b, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "secret\n", string(b))

	_, err = runApp(t, "--server", srv.URL, "--token-file", tokenFile, "--date", "2024-01-10", "steps", "42")
	require.NoError(t, err)
	assert.Equal(t, 42, f.state(t).DayLogs["2024-01-10"].StepCount())

	out, err = runApp(t, "--server", srv.URL, "--token-file", tokenFile, "logout")
	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)
	assert.NoFileExists(t, tokenFile)
}

func TestSettings(t *testing.T) {
	f, srv := newFakeService(t)

	out, err := runApp(t, "--server", srv.URL, "--token", "secret", "settings", "--language", "uk")
	require.NoError(t, err)
	assert.Contains(t, out, "language: uk")

	f.mu.Lock()
	assert.Equal(t, "uk", f.settings.Language)
	assert.Equal(t, "UTC", f.settings.Timezone)
	f.mu.Unlock()
}

func TestWorkoutImport_MissingFile(t *testing.T) {
	f, srv := newFakeService(t)
	missing := filepath.Join(t.TempDir(), "program.yaml")

	_, err := runApp(t, "--server", srv.URL, "--token", "secret", "workout", "import", missing)
	assert.ErrorContains(t, err, "not found")
	assert.Zero(t, f.saves)
}

func TestWorkoutImport(t *testing.T) {
	f, srv := newFakeService(t)
	program := filepath.Join(t.TempDir(), "program.yaml")
	require.NoError(t, os.WriteFile(program, []byte("workouts:\n  - name: Push\n  - name: Pull\n"), 0o600))

	out, err := runApp(t, "--server", srv.URL, "--token", "secret", "workout", "import", program)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 workouts\n", out)

	state := f.state(t)
	require.Len(t, state.Workouts, 2)
	assert.Equal(t, "Pull", state.Workouts[1].Name)
}
