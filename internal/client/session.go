package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

// TrustValidity is how long a verified admin OTP bypasses the next prompt.
const TrustValidity = 30 * 24 * time.Hour

// OTPTrust is the admin OTP bypass stored between runs.
type OTPTrust struct {
	Email      string    `json:"email"`
	TrustToken string    `json:"trustToken"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// ValidFor reports whether the trust applies to email at now.
func (t OTPTrust) ValidFor(email string, now time.Time) bool {
	if t.TrustToken == "" || !strings.EqualFold(t.Email, email) {
		return false
	}
	return now.Before(t.VerifiedAt.Add(TrustValidity))
}

// Session is the state persisted between boardctl runs.
type Session struct {
	User          *dto.UserResponse `json:"user"`
	AuthToken     string            `json:"authToken"`
	AdminOTPTrust *OTPTrust         `json:"adminOtpTrust,omitempty"`
}

// LoadSession reads the session file. A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Save writes the session atomically with owner-only permissions.
func (s *Session) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, path)
}

// Apply records a successful login. The trust token is kept unless the
// result carries a new one.
func (s *Session) Apply(result LoginResult) {
	user := dto.NewUserResponse(result.User)
	s.User = &user
	s.AuthToken = result.Token
	if result.Trust != nil {
		trust := *result.Trust
		s.AdminOTPTrust = &trust
	}
}

// Logout clears the user and token but keeps the OTP trust.
func (s *Session) Logout() {
	s.User = nil
	s.AuthToken = ""
}

// TrustTokenFor returns the stored trust token for email when still valid.
func (s *Session) TrustTokenFor(email string, now time.Time) string {
	if s.AdminOTPTrust == nil || !s.AdminOTPTrust.ValidFor(email, now) {
		return ""
	}
	return s.AdminOTPTrust.TrustToken
}

// CurrentUser returns the signed-in user.
func (s *Session) CurrentUser() (domain.User, bool) {
	if s.User == nil || s.AuthToken == "" {
		return domain.User{}, false
	}
	return s.User.ToDomain(), true
}
