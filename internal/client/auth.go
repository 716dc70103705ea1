package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

// LoginResult is the outcome of a login or OTP verification.
type LoginResult struct {
	Token       string
	ExpiresAt   time.Time
	User        domain.User
	OTPRequired bool
	Trust       *OTPTrust
}

func loginResult(resp dto.LoginResponse) LoginResult {
	result := LoginResult{Token: resp.Token, OTPRequired: resp.OTPRequired}
	if resp.ExpiresAt != nil {
		result.ExpiresAt = *resp.ExpiresAt
	}
	if resp.User != nil {
		result.User = resp.User.ToDomain()
	}
	if resp.TrustToken != "" && resp.User != nil {
		trust := &OTPTrust{Email: resp.User.Email, TrustToken: resp.TrustToken}
		if resp.VerifiedAt != nil {
			trust.VerifiedAt = *resp.VerifiedAt
		}
		result.Trust = trust
	}
	return result
}

// Login authenticates and, on success, stores the bearer token on the client.
// Admin accounts without a valid trust token get OTPRequired=true instead.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (LoginResult, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return LoginResult{}, err
	}
	result := loginResult(resp)
	if result.Token != "" {
		c.SetToken(result.Token)
	}
	return result, nil
}

// VerifyCredentials checks a password and reports the required second factor.
func (c *Client) VerifyCredentials(ctx context.Context, email, password string) (dto.VerifyCredentialsResponse, error) {
	var resp dto.VerifyCredentialsResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-credentials", nil, dto.VerifyCredentialsRequest{Email: email, Password: password}, &resp)
	return resp, err
}

// RequestOTP asks the server to send an admin one-time code.
func (c *Client) RequestOTP(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/request-otp", nil, dto.RequestOTPRequest{Email: email, Password: password}, nil)
}

// VerifyOTP exchanges a one-time code for a token and a 30-day trust token.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (LoginResult, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp", nil, dto.VerifyOTPRequest{Email: email, Code: code}, &resp); err != nil {
		return LoginResult{}, err
	}
	result := loginResult(resp)
	if result.Token != "" {
		c.SetToken(result.Token)
	}
	return result, nil
}

// ValidateOTPTrust asks the server whether a stored trust token still holds.
func (c *Client) ValidateOTPTrust(ctx context.Context, trust OTPTrust) (bool, error) {
	var resp dto.ValidateTrustResponse
	body := dto.ValidateTrustRequest{Email: trust.Email, TrustToken: trust.TrustToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/validate-otp-trust", nil, body, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// ListUsers returns every portal user (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/users", nil, nil, &resp); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(resp))
	for _, u := range resp {
		users = append(users, u.ToDomain())
	}
	return users, nil
}

// CreateUser adds a portal user (admin only).
func (c *Client) CreateUser(ctx context.Context, req dto.CreateUserRequest) (domain.User, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/users", nil, req, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.ToDomain(), nil
}

// DeleteUser deactivates a portal user (admin only).
func (c *Client) DeleteUser(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/users", url.Values{"email": {email}}, nil, nil)
}

// IssueSessionKey creates a session key for a non-admin user. The returned
// Key field holds the only copy of the plaintext key.
func (c *Client) IssueSessionKey(ctx context.Context, email string, ttlDays int) (dto.SessionKeyResponse, error) {
	var resp dto.SessionKeyResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/session-key", nil, dto.IssueSessionKeyRequest{Email: email, TTLDays: ttlDays}, &resp)
	return resp, err
}

// SessionKeys lists the keys issued to email.
func (c *Client) SessionKeys(ctx context.Context, email string) ([]dto.SessionKeyResponse, error) {
	var resp []dto.SessionKeyResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session-keys/"+url.PathEscape(email), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
