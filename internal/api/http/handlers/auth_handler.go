package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/service"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// AuthHandler exposes login, OTP and account management endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		SessionKey: req.SessionKey,
		TrustToken: req.TrustToken,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, loginResponse(result))
}

// VerifyCredentials handles POST /api/auth/verify-credentials.
func (h *AuthHandler) VerifyCredentials(c *fiber.Ctx) error {
	var req dto.VerifyCredentialsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	check, err := h.auth.VerifyCredentials(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.VerifyCredentialsResponse{
		Valid:              check.Valid,
		Role:               string(check.Role),
		RequiresOTP:        check.RequiresOTP,
		RequiresSessionKey: check.RequiresSessionKey,
	})
}

// RequestOTP handles POST /api/auth/request-otp.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.RequestOTPRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.RequestOTP(c.UserContext(), req.Email, req.Password); err != nil {
		return err
	}
	return data(c, fiber.StatusAccepted, fiber.Map{"sent": true})
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	result, err := h.auth.VerifyOTP(c.UserContext(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, loginResponse(result))
}

// ValidateTrust handles POST /api/auth/validate-otp-trust.
func (h *AuthHandler) ValidateTrust(c *fiber.Ctx) error {
	var req dto.ValidateTrustRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	valid, expires, err := h.auth.ValidateTrust(c.UserContext(), req.Email, req.TrustToken)
	if err != nil {
		return err
	}
	resp := dto.ValidateTrustResponse{Valid: valid}
	if valid {
		resp.ExpiresAt = &expires
	}
	return data(c, fiber.StatusOK, resp)
}

// ListUsers handles GET /api/auth/users.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	return data(c, fiber.StatusOK, resp)
}

// CreateUser handles POST /api/auth/users.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "role"})
	}
	subRole, err := domain.ParseSubRole(req.SubRole)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "sub_role"})
	}
	user, err := h.auth.CreateUser(c.UserContext(), service.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		SubRole:  subRole,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewUserResponse(*user))
}

// DeleteUser handles DELETE /api/auth/users?email=.
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	email := c.Query("email")
	if email == "" {
		return apperrors.NewValidationError("email is required", map[string]any{"field": "email"})
	}
	if err := h.auth.DeleteUser(c.UserContext(), actor, email); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// IssueSessionKey handles POST /api/auth/session-key.
func (h *AuthHandler) IssueSessionKey(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.IssueSessionKeyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	key, plaintext, err := h.auth.IssueSessionKey(c.UserContext(), actor, req.Email, req.TTLDays)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewSessionKeyResponse(*key, plaintext))
}

// SessionKeys handles GET /api/auth/session-keys/:email.
func (h *AuthHandler) SessionKeys(c *fiber.Ctx) error {
	keys, err := h.auth.SessionKeys(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	resp := make([]dto.SessionKeyResponse, 0, len(keys))
	for _, k := range keys {
		resp = append(resp, dto.NewSessionKeyResponse(k, ""))
	}
	return data(c, fiber.StatusOK, resp)
}

func loginResponse(result *service.LoginResult) dto.LoginResponse {
	resp := dto.LoginResponse{OTPRequired: result.OTPRequired}
	if result.User != nil {
		user := dto.NewUserResponse(*result.User)
		resp.User = &user
	}
	if result.Token != "" {
		resp.Token = result.Token
		expires := result.ExpiresAt
		resp.ExpiresAt = &expires
	}
	if result.Trust != nil {
		resp.TrustToken = result.Trust.TrustToken
		verified := result.Trust.VerifiedAt
		resp.VerifiedAt = &verified
	}
	return resp
}
