package dto

import (
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// LoginRequest payload for POST /api/auth/login. Admins present either an OTP
// trust token or go through request-otp/verify-otp; everyone else needs a
// session key.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	SessionKey string `json:"session_key"`
	TrustToken string `json:"trust_token"`
}

// LoginResponse is returned after a successful login or OTP verification.
type LoginResponse struct {
	Token       string        `json:"token,omitempty"`
	ExpiresAt   *time.Time    `json:"expires_at,omitempty"`
	User        *UserResponse `json:"user,omitempty"`
	OTPRequired bool          `json:"otp_required"`
	TrustToken  string        `json:"trust_token,omitempty"`
	VerifiedAt  *time.Time    `json:"verified_at,omitempty"`
}

// VerifyCredentialsRequest checks a password without issuing a token.
type VerifyCredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyCredentialsResponse tells the caller which second factor applies.
type VerifyCredentialsResponse struct {
	Valid              bool   `json:"valid"`
	Role               string `json:"role"`
	RequiresOTP        bool   `json:"requires_otp"`
	RequiresSessionKey bool   `json:"requires_session_key"`
}

// RequestOTPRequest payload for POST /api/auth/request-otp.
type RequestOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPRequest payload for POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ValidateTrustRequest payload for POST /api/auth/validate-otp-trust.
type ValidateTrustRequest struct {
	Email      string `json:"email" validate:"required,email"`
	TrustToken string `json:"trust_token" validate:"required"`
}

// ValidateTrustResponse reports whether a trust token is still honoured.
type ValidateTrustResponse struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateUserRequest payload for POST /api/auth/users.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	SubRole  string `json:"sub_role"`
}

// UserResponse is the public view of a portal user.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	SubRole   string    `json:"sub_role,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueSessionKeyRequest payload for POST /api/auth/session-key.
type IssueSessionKeyRequest struct {
	Email   string `json:"email" validate:"required,email"`
	TTLDays int    `json:"ttl_days" validate:"omitempty,min=1,max=365"`
}

// SessionKeyResponse describes an issued key. Key is only populated once,
// at issue time.
type SessionKeyResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Key        string     `json:"key,omitempty"`
	CreatedBy  string     `json:"created_by"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	Revoked    bool       `json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewUserResponse maps a user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		SubRole:   string(u.SubRole),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// ToDomain maps the wire user back to a domain user.
func (r UserResponse) ToDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      domain.Role(r.Role),
		SubRole:   domain.SubRole(r.SubRole),
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
}

// NewSessionKeyResponse maps a session key; plaintext is included only when
// non-empty.
func NewSessionKeyResponse(k domain.SessionKey, plaintext string) SessionKeyResponse {
	return SessionKeyResponse{
		ID:         k.ID,
		Email:      k.UserEmail,
		Key:        plaintext,
		CreatedBy:  k.CreatedBy,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
		Revoked:    k.Revoked,
		CreatedAt:  k.CreatedAt,
	}
}
