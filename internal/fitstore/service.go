package fitstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/metrics"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/tracker"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidDocument = errors.New("invalid fitness data")
	ErrInvalidSettings = errors.New("invalid settings")

	SupportedLanguages = []string{"en", "ru", "uk"}

	emptyDocument = []byte("{}")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=fitstore

type repository interface {
	GetDocument(ctx context.Context, userID int) (*Document, error)
	SaveDocument(ctx context.Context, userID int, data []byte, savedAt time.Time) error
	GetSettings(ctx context.Context, userID int) (*tracker.UserSettings, error)
	SaveSettings(ctx context.Context, userID int, s tracker.UserSettings) error
}

type documentCache interface {
	Get(ctx context.Context, userID int) ([]byte, error)
	Set(ctx context.Context, userID int, data []byte) error
	Invalidate(ctx context.Context, userID int) error
}

// Service stores the fitness data document and the settings of each user.
// The document is opaque to the server apart from a shape check on write.
type Service struct {
	repo           repository
	cache          documentCache
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(repo repository, cache documentCache, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		cache:          cache,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// LoadDocument returns the stored document, or an empty JSON object for a new user.
func (s *Service) LoadDocument(ctx context.Context, userID int) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitstore.loadDocument")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	data, err := s.cache.Get(ctx, userID)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Warnf("fitstore: get cached document of user %d: %s", userID, err)
	}

	doc, err := s.repo.GetDocument(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return emptyDocument, nil
		}
		return nil, err
	}
	// Reads never fill the cache: a fill racing a save could store the older row.
	return doc.Data, nil
}

// SaveDocument replaces the document of the user and returns the time it was stored.
func (s *Service) SaveDocument(ctx context.Context, userID int, data []byte) (_ time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitstore.saveDocument")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	compacted, err := validateDocument(data)
	if err != nil {
		return time.Time{}, err
	}

	savedAt := s.now().UTC()
	if err := s.repo.SaveDocument(ctx, userID, compacted, savedAt); err != nil {
		return time.Time{}, err
	}
	if err := s.cache.Set(ctx, userID, compacted); err != nil {
		log.Warnf("fitstore: cache document of user %d: %s", userID, err)
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			log.Errorf("fitstore: invalidate cached document of user %d: %s", userID, err)
		}
	}

	s.metricsManager.CounterDocumentSaves.Inc()
	s.metricsManager.HistogramDocumentSize.Observe(float64(len(compacted)))
	return savedAt, nil
}

// validateDocument checks that data is a JSON object decoding into the aggregate
// state, and returns it compacted. Unknown fields are kept.
func validateDocument(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not a json object", ErrInvalidDocument)
	}

	var state tracker.State
	if err := json.Unmarshal(trimmed, &state); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err)
	}
	return buf.Bytes(), nil
}

// LoadSettings returns the stored settings, the defaults for a new user.
func (s *Service) LoadSettings(ctx context.Context, userID int) (_ tracker.UserSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitstore.loadSettings")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return tracker.DefaultSettings(), nil
		}
		return tracker.UserSettings{}, err
	}
	return *settings, nil
}

// SaveSettings merges the non-empty fields of update into the stored settings.
func (s *Service) SaveSettings(ctx context.Context, userID int, update tracker.UserSettings) (_ tracker.UserSettings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitstore.saveSettings")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := ValidateSettings(update); err != nil {
		return tracker.UserSettings{}, err
	}

	current, err := s.LoadSettings(ctx, userID)
	if err != nil {
		return tracker.UserSettings{}, err
	}
	merged := current.Merge(update)
	if err := s.repo.SaveSettings(ctx, userID, merged); err != nil {
		return tracker.UserSettings{}, err
	}

	s.metricsManager.CounterSettingsSaves.Inc()
	return merged, nil
}

// ValidateSettings checks the language and the timezone when they are set.
func ValidateSettings(settings tracker.UserSettings) error {
	if settings.Language != "" && !slices.Contains(SupportedLanguages, settings.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidSettings, settings.Language)
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidSettings, settings.Timezone)
		}
	}
	return nil
}
