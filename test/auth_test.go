package test

import (
	"context"
	"testing"

	"github.com/2beens/fitlog/internal/remote"

	"github.com/stretchr/testify/require"
)

func doLogin(ctx context.Context, t *testing.T) (*remote.Client, string) {
	t.Helper()
	client := remote.NewClient(serverEndpoint, "", nil)
	token, err := client.Login(ctx, testUsername, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return client, token
}
