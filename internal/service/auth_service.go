package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// otpHashCost keeps hashing of short-lived codes cheap.
const otpHashCost = 4

// AuthService coordinates login, OTP and account management flows.
type AuthService struct {
	users       repository.UserRepository
	sessionKeys repository.SessionKeyRepository
	otp         repository.OTPStore
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	keyTTL      time.Duration
	otpCfg      config.OTPConfig
	authCfg     config.AuthConfig
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	SessionKeyRepo repository.SessionKeyRepository
	OTPStore       repository.OTPStore
	Logger         *zap.Logger
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email      string
	Password   string
	SessionKey string
	TrustToken string
}

// LoginResult is either an issued token or a request for an OTP.
type LoginResult struct {
	User        *domain.User
	Token       string
	ExpiresAt   time.Time
	OTPRequired bool
	Trust       *domain.OTPTrust
}

// CredentialCheck reports what a login with these credentials would need.
type CredentialCheck struct {
	Valid              bool
	Role               domain.Role
	RequiresOTP        bool
	RequiresSessionKey bool
}

// UserCreateInput describes a new portal account.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	SubRole  domain.SubRole
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		sessionKeys: deps.SessionKeyRepo,
		otp:         deps.OTPStore,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
		keyTTL:      time.Duration(cfg.Auth.SessionKeyTTLDays) * 24 * time.Hour,
		otpCfg:      cfg.OTP,
		authCfg:     cfg.Auth,
		logger:      logger,
	}
}

// Login authenticates a portal user. Admins need a valid OTP trust token or
// get OTPRequired back; everyone else must present an active session key.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.checkCredentials(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if user.Role == domain.RoleAdmin {
		if input.TrustToken == "" {
			return &LoginResult{User: user, OTPRequired: true}, nil
		}
		trust, err := s.lookupTrust(ctx, user.Email, input.TrustToken)
		if err != nil {
			return nil, err
		}
		if trust == nil {
			return &LoginResult{User: user, OTPRequired: true}, nil
		}
		return s.issue(user, trust)
	}

	if err := s.useSessionKey(ctx, user.Email, input.SessionKey); err != nil {
		return nil, err
	}
	return s.issue(user, nil)
}

// VerifyCredentials checks an email and password without logging in.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*CredentialCheck, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == apperrors.CodeUnauthorized {
			return &CredentialCheck{Valid: false}, nil
		}
		return nil, err
	}
	admin := user.Role == domain.RoleAdmin
	return &CredentialCheck{
		Valid:              true,
		Role:               user.Role,
		RequiresOTP:        admin,
		RequiresSessionKey: !admin,
	}, nil
}

// RequestOTP issues a new code for an admin whose credentials check out.
func (s *AuthService) RequestOTP(ctx context.Context, email, password string) error {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("one-time codes are only used for admin accounts")
	}
	code, err := auth.GenerateOTPCode()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(code, otpHashCost)
	if err != nil {
		return err
	}
	if err := s.otp.SaveCode(ctx, user.Email, hash, s.otpCfg.CodeTTL()); err != nil {
		return err
	}
	s.sendOTPStub(user.Email, code)
	return nil
}

// VerifyOTP checks a code, logs the admin in and issues a trust token.
// Too many wrong codes burn the code.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*LoginResult, error) {
	email = normalizeEmail(email)
	hash, err := s.otp.CodeHash(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return nil, apperrors.NewUnauthorized("code expired or not requested")
		}
		return nil, err
	}
	if auth.ComparePassword(hash, code) != nil {
		attempts, err := s.otp.IncrAttempts(ctx, email)
		if err != nil && !errors.Is(err, repository.ErrOTPNotFound) {
			return nil, err
		}
		if int(attempts) >= s.otpCfg.MaxAttempts {
			_ = s.otp.DeleteCode(ctx, email)
			return nil, apperrors.NewUnauthorized("too many invalid codes; request a new one")
		}
		return nil, apperrors.NewUnauthorized("invalid code")
	}
	if err := s.otp.DeleteCode(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	trust := &domain.OTPTrust{
		Email:      user.Email,
		TrustToken: uuid.NewString(),
		VerifiedAt: time.Now().UTC(),
	}
	if err := s.otp.SaveTrust(ctx, *trust, s.otpCfg.TrustTTL()); err != nil {
		return nil, err
	}
	return s.issue(user, trust)
}

// ValidateTrust reports whether a trust token is still valid for email and
// when it expires.
func (s *AuthService) ValidateTrust(ctx context.Context, email, token string) (bool, time.Time, error) {
	trust, err := s.lookupTrust(ctx, email, token)
	if err != nil || trust == nil {
		return false, time.Time{}, err
	}
	return true, trust.VerifiedAt.Add(s.otpCfg.TrustTTL()), nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx, false)
}

// CreateUser adds a portal account.
func (s *AuthService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if err := auth.CheckPassword(input.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if input.SubRole != domain.SubRoleNone && input.Role != domain.RoleOnboardingTeam {
		return nil, apperrors.NewValidationError("sub-roles only apply to the onboarding team", map[string]any{"field": "sub_role"})
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		SubRole:      input.SubRole,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deactivates an account and revokes its session keys. Accounts
// are never hard-deleted so their history stays attributable.
func (s *AuthService) DeleteUser(ctx context.Context, actor domain.User, email string) error {
	email = normalizeEmail(email)
	if strings.EqualFold(actor.Email, email) {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.Active = false
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.sessionKeys.RevokeAll(ctx, user.Email)
}

// IssueSessionKey creates a session key for a non-admin user. The plaintext
// key is only returned here.
func (s *AuthService) IssueSessionKey(ctx context.Context, actor domain.User, email string, ttlDays int) (*domain.SessionKey, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user.Role == domain.RoleAdmin {
		return nil, "", apperrors.NewValidationError("admins sign in with one-time codes, not session keys", nil)
	}
	if !user.Active {
		return nil, "", apperrors.NewValidationError("user is deactivated", nil)
	}

	plaintext, err := auth.GenerateSessionKey()
	if err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(plaintext, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}
	ttl := s.keyTTL
	if ttlDays > 0 {
		ttl = time.Duration(ttlDays) * 24 * time.Hour
	}
	key := &domain.SessionKey{
		UserEmail: user.Email,
		KeyHash:   hash,
		CreatedBy: actor.Email,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.sessionKeys.Create(ctx, key); err != nil {
		return nil, "", err
	}
	return key, plaintext, nil
}

// SessionKeys lists the keys issued to email.
func (s *AuthService) SessionKeys(ctx context.Context, email string) ([]domain.SessionKey, error) {
	return s.sessionKeys.ListByEmail(ctx, email)
}

// EnsureBootstrapAdmin creates the configured admin account when it is missing.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	email := normalizeEmail(s.authCfg.BootstrapAdminEmail)
	if email == "" || s.authCfg.BootstrapAdminPass == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !apperrors.IsNotFound(err) {
		return err
	}
	_, err := s.CreateUser(ctx, UserCreateInput{
		Name:     "Administrator",
		Email:    email,
		Password: s.authCfg.BootstrapAdminPass,
		Role:     domain.RoleAdmin,
	})
	if err == nil {
		s.logger.Info("bootstrap admin created", zap.String("email", email))
	}
	return err
}

func (s *AuthService) checkCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if auth.ComparePassword(user.PasswordHash, password) != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account deactivated")
	}
	return user, nil
}

// lookupTrust returns nil when the token is unknown, expired or issued to
// another email.
func (s *AuthService) lookupTrust(ctx context.Context, email, token string) (*domain.OTPTrust, error) {
	if token == "" {
		return nil, nil
	}
	trust, err := s.otp.GetTrust(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !strings.EqualFold(trust.Email, strings.TrimSpace(email)) {
		return nil, nil
	}
	if time.Since(trust.VerifiedAt) >= s.otpCfg.TrustTTL() {
		return nil, nil
	}
	return trust, nil
}

func (s *AuthService) useSessionKey(ctx context.Context, email, presented string) error {
	if strings.TrimSpace(presented) == "" {
		return apperrors.NewUnauthorized("session key required")
	}
	keys, err := s.sessionKeys.ListActiveByEmail(ctx, email, time.Now())
	if err != nil {
		return err
	}
	for _, key := range keys {
		if auth.ComparePassword(key.KeyHash, presented) == nil {
			if err := s.sessionKeys.MarkUsed(ctx, key.ID, time.Now()); err != nil {
				s.logger.Warn("unable to record session key use", zap.String("key_id", key.ID), zap.Error(err))
			}
			return nil
		}
	}
	return apperrors.NewUnauthorized("invalid or expired session key")
}

func (s *AuthService) issue(user *domain.User, trust *domain.OTPTrust) (*LoginResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp, Trust: trust}, nil
}

func (s *AuthService) sendOTPStub(email, code string) {
	s.logger.Info("otp issued", zap.String("email", email))
	s.logger.Debug("sendOTPStub", zap.String("email", email), zap.String("code", code))
}
