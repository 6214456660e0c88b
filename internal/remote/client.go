package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/syncer"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/tracker"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenHeader carries the session token on every authenticated request.
const TokenHeader = "X-FITLOG-TOKEN"

const (
	fitnessDataPath = "/api/fitness-data"
	settingsPath    = "/api/settings"
	loginPath       = "/a/login"
	logoutPath      = "/a/logout"
)

var _ syncer.Remote = (*Client)(nil)

var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx answer of the fitlog service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Client is the HTTP client of the fitlog service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client with an otel instrumented transport when
// httpClient is nil.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Load(ctx context.Context) (_ *tracker.State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var state tracker.State
	if err := c.doJSON(ctx, http.MethodGet, fitnessDataPath, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

type saveResponse struct {
	SavedAt time.Time `json:"savedAt"`
}

func (c *Client) Save(ctx context.Context, state tracker.State) (_ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var resp saveResponse
	if err := c.doJSON(ctx, http.MethodPost, fitnessDataPath, state, &resp); err != nil {
		return time.Time{}, err
	}
	log.Tracef("remote: fitness data saved at %s", resp.SavedAt)
	return resp.SavedAt, nil
}

func (c *Client) LoadSettings(ctx context.Context) (_ *tracker.UserSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.loadSettings")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var settings tracker.UserSettings
	if err := c.doJSON(ctx, http.MethodGet, settingsPath, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) SaveSettings(ctx context.Context, settings tracker.UserSettings) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.saveSettings")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return c.doJSON(ctx, http.MethodPut, settingsPath, settings, nil)
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login opens a session and keeps its token for the following requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp loginResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("login: empty token received")
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+logoutPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(TokenHeader, c.token)
	if err := c.do(req, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(TokenHeader, c.token)

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response of %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     req.Method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBytes)),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("unmarshal response of %s: %w", req.URL.Path, err)
	}
	return nil
}
