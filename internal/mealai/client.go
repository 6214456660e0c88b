package mealai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	// RequestTimeout caps a single call; photo analysis is the slow one.
	RequestTimeout = 30 * time.Second

	analyzePath   = "/api/ai/analyze-meal"
	recommendPath = "/api/ai/recommend"
)

var ErrMissingAPIKey = errors.New("ai api key not configured")

// Client talks to the AI proxy that fronts the vision and text models.
// Responses are the model text, decoded leniently.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type analyzeRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
	Hint     string `json:"hint,omitempty"`
}

// AnalyzePhoto estimates the macros of the meal on the image.
// The hint is an optional classification, e.g. "breakfast" or "homemade".
func (c *Client) AnalyzePhoto(ctx context.Context, image []byte, hint string) (_ *Analysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mealai.analyzePhoto")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("image.size", len(image)))

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}

	raw, err := c.post(ctx, analyzePath, analyzeRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: http.DetectContentType(image),
		Hint:     hint,
	})
	if err != nil {
		return nil, err
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		log.Warnf("meal ai: unparsable analysis: %s", err)
		return nil, err
	}
	return analysis, nil
}

func (c *Client) Recommend(ctx context.Context, req RecommendationRequest) (_ *Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mealai.recommend")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("meal.time", req.MealTime))

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	raw, err := c.post(ctx, recommendPath, req)
	if err != nil {
		return nil, err
	}

	rec, err := ParseRecommendation(raw)
	if err != nil {
		log.Warnf("meal ai: unparsable recommendation: %s", err)
		return nil, err
	}
	return rec, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ai proxy %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBytes)))
	}

	return string(respBytes), nil
}
