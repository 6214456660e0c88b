package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/2beens/fitlog/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		loginReq           loginRequest
		expectedStatusCode int
		assertFunc         func(t *testing.T, resp *http.Response)
	}{
		"good creds, then logout": {
			loginReq:           loginRequest{Username: testUsername, Password: testPassword},
			expectedStatusCode: http.StatusOK,
			assertFunc: func(t *testing.T, resp *http.Response) {
				var loginResp loginResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
				require.NotEmpty(t, loginResp.Token)

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/a/logout", serverEndpoint), nil)
				require.NoError(t, err)
				req.Header.Set(remote.TokenHeader, loginResp.Token)

				logoutResp, err := s.httpClient.Do(req)
				require.NoError(t, err)
				defer logoutResp.Body.Close()
				assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

				// the token is dead from now on
				req, err = http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/fitness-data", serverEndpoint), nil)
				require.NoError(t, err)
				req.Header.Set(remote.TokenHeader, loginResp.Token)
				dataResp, err := s.httpClient.Do(req)
				require.NoError(t, err)
				defer dataResp.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, dataResp.StatusCode)
			},
		},
		"bad password": {
			loginReq:           loginRequest{Username: testUsername, Password: "bad-password"},
			expectedStatusCode: http.StatusUnauthorized,
			assertFunc: func(t *testing.T, resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			},
		},
		"bad username": {
			loginReq:           loginRequest{Username: "bad-username", Password: testPassword},
			expectedStatusCode: http.StatusUnauthorized,
		},
		"missing password": {
			loginReq:           loginRequest{Username: testUsername},
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			body, err := json.Marshal(tc.loginReq)
			require.NoError(t, err)

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			if tc.assertFunc != nil {
				tc.assertFunc(t, resp)
			}
		})
	}
}
