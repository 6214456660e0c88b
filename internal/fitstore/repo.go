package fitstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlog/internal/tracker"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDocumentNotFound = errors.New("fitness data not found")
	ErrSettingsNotFound = errors.New("settings not found")
)

// Document is the stored fitness data of one user, kept as raw JSON.
type Document struct {
	Data      []byte
	UpdatedAt time.Time
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetDocument(ctx context.Context, userID int) (*Document, error) {
	var doc Document
	err := r.db.QueryRow(
		ctx,
		`SELECT document, updated_at FROM fitness_data WHERE user_id = $1;`,
		userID,
	).Scan(&doc.Data, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document of user %d: %w", userID, err)
	}
	return &doc, nil
}

// SaveDocument replaces the whole document of the user.
func (r *Repo) SaveDocument(ctx context.Context, userID int, data []byte, savedAt time.Time) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO fitness_data (user_id, document, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at;`,
		userID, data, savedAt,
	)
	if err != nil {
		return fmt.Errorf("save document of user %d: %w", userID, err)
	}
	return nil
}

func (r *Repo) GetSettings(ctx context.Context, userID int) (*tracker.UserSettings, error) {
	var s tracker.UserSettings
	err := r.db.QueryRow(
		ctx,
		`SELECT name, language, timezone, email FROM user_settings WHERE user_id = $1;`,
		userID,
	).Scan(&s.Name, &s.Language, &s.Timezone, &s.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings of user %d: %w", userID, err)
	}
	return &s, nil
}

func (r *Repo) SaveSettings(ctx context.Context, userID int, s tracker.UserSettings) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO user_settings (user_id, name, language, timezone, email, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			language = EXCLUDED.language,
			timezone = EXCLUDED.timezone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at;`,
		userID, s.Name, s.Language, s.Timezone, s.Email,
	)
	if err != nil {
		return fmt.Errorf("save settings of user %d: %w", userID, err)
	}
	return nil
}
