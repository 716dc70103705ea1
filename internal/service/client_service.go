package service

import (
	"context"
	"strings"

	"github.com/careerforge/onboarding-portal/internal/auth"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// ClientService registers clients and manages their dashboard credentials.
type ClientService struct {
	clients    repository.ClientRepository
	counters   repository.CounterRepository
	onboarding *OnboardingService
	bcryptCost int
}

// ClientDependencies bundles collaborators for the client service.
type ClientDependencies struct {
	ClientRepo  repository.ClientRepository
	CounterRepo repository.CounterRepository
	Onboarding  *OnboardingService
	BcryptCost  int
}

// ClientRegisterInput describes a new client.
type ClientRegisterInput struct {
	Name             string
	Email            string
	Password         string
	PlanType         domain.PlanType
	DashboardManager *string
	CSMEmail         *string
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:    deps.ClientRepo,
		counters:   deps.CounterRepo,
		onboarding: deps.Onboarding,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates the client with the next client number and opens its
// onboarding job.
func (s *ClientService) Register(ctx context.Context, actor domain.User, input ClientRegisterInput) (*domain.Client, *domain.Job, error) {
	if !canManageJobs(actor.Role) {
		return nil, nil, apperrors.NewForbidden("only admins, CSMs and team leads can register clients")
	}
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" {
		return nil, nil, apperrors.NewValidationError("client name and email are required", nil)
	}
	if err := auth.CheckPassword(input.Password); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	if _, err := s.clients.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("client already registered", map[string]any{"email": email})
	} else if !apperrors.IsNotFound(err) {
		return nil, nil, err
	}

	plan := input.PlanType
	if plan == "" {
		plan = domain.PlanDefault
	}
	number, err := s.counters.Next(ctx, repository.CounterClientNumber)
	if err != nil {
		return nil, nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}
	client := &domain.Client{
		ClientNumber:     number,
		Name:             name,
		Email:            email,
		PlanType:         plan,
		PasswordHash:     hash,
		DashboardManager: optionalString(input.DashboardManager),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, nil, err
	}

	job, err := s.onboarding.CreateJob(ctx, actor, JobCreateInput{
		ClientEmail:      client.Email,
		ClientName:       client.Name,
		ClientNumber:     client.ClientNumber,
		PlanType:         client.PlanType,
		CSMEmail:         input.CSMEmail,
		DashboardManager: client.DashboardManager,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, job, nil
}

// List returns all clients ordered by client number.
func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

// ChangePassword replaces a client's dashboard password.
func (s *ClientService) ChangePassword(ctx context.Context, email, newPassword string) error {
	if err := auth.CheckPassword(newPassword); err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "new_password"})
	}
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("client", map[string]any{"email": email})
		}
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	client.PasswordHash = hash
	return s.clients.Update(ctx, client)
}
