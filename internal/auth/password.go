package auth

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrWeakPassword is returned by CheckPassword.
var ErrWeakPassword = errors.New("password must be at least 8 characters and not all whitespace")

// CheckPassword enforces the password policy.
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength || strings.TrimSpace(password) == "" {
		return ErrWeakPassword
	}
	return nil
}

// HashPassword hashes a plaintext secret. Costs outside bcrypt's range fall
// back to the library default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a secret against its hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
