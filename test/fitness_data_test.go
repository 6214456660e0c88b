package test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/remote"
	"github.com/2beens/fitlog/internal/syncer"
	"github.com/2beens/fitlog/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestFitnessData_RoundTrip() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, _ := doLogin(ctx, t)

	// a fresh account has no data yet
	state, err := client.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.Workouts)
	assert.Nil(t, state.DayLogs)

	settings, err := client.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.DefaultSettings(), *settings)

	// first device: log a day and push it through the sync engine
	store := tracker.NewStore()
	engine := syncer.NewEngine(store, client, syncer.WithDebounce(10*time.Millisecond))
	require.NoError(t, engine.Start(ctx))

	store.RenameWorkout("t1", "Full body")
	store.SetSteps("2024-01-10", 8000)
	store.SetNotes("2024-01-10", "felt strong")
	store.UpdateSettings(tracker.UserSettings{Language: "uk", Timezone: "Europe/Kyiv"})
	require.NoError(t, engine.Close(ctx))
	assert.Equal(t, syncer.StatusSynced, engine.Status())
	assert.False(t, engine.SavedAt().IsZero())

	// second device: starts from what the first one pushed
	other := tracker.NewStore()
	otherEngine := syncer.NewEngine(other, client)
	require.NoError(t, otherEngine.Start(ctx))
	assert.Equal(t, "Full body", other.Workouts()[0].Name)
	dl := other.GetOrCreate("2024-01-10")
	assert.Equal(t, 8000, dl.StepCount())
	assert.Equal(t, "felt strong", dl.Notes)
	assert.Equal(t, "uk", other.Settings().Language)
	assert.Equal(t, "Europe/Kyiv", other.Settings().Timezone)
	require.NoError(t, otherEngine.Close(ctx))
}

func (s *IntegrationTestSuite) TestFitnessData_Rejected() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	anonymous := remote.NewClient(serverEndpoint, "", nil)
	_, err := anonymous.Load(ctx)
	assert.ErrorIs(t, err, remote.ErrUnauthorized)

	client, token := doLogin(ctx, t)
	err = client.SaveSettings(ctx, tracker.UserSettings{Language: "de"})
	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)

	// the body must be a JSON object
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/api/fitness-data", strings.NewReader(`[1,2,3]`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(remote.TokenHeader, token)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
