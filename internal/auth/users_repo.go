package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitlog/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type User struct {
	ID           int
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, email, created_at FROM users WHERE username = $1;`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &u, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash, email string) (*User, error) {
	if username == "" || passwordHash == "" {
		return nil, errors.New("username or password hash empty")
	}

	u := User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
	}
	err := r.db.QueryRow(
		ctx,
		`INSERT INTO users (username, password_hash, email) VALUES ($1, $2, $3) RETURNING id, created_at;`,
		username, passwordHash, email,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user %s: %w", username, err)
	}
	return &u, nil
}
