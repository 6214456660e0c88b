package pkg

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost = 14
	// MinPasswordLength applies to new accounts only; existing hashes are never re-checked.
	MinPasswordLength = 8
)

var ErrPasswordTooShort = fmt.Errorf("password must have at least %d characters", MinPasswordLength)

// HashPassword returns the bcrypt hash of a new password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return BytesToString(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
