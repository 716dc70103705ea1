package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/export"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

// OperationsService serves the operations team views: managers, operators,
// application logging and performance reporting.
type OperationsService struct {
	users        repository.UserRepository
	clients      repository.ClientRepository
	jobs         repository.JobRepository
	requests     repository.MoveRequestRepository
	applications repository.ApplicationRepository
}

// OperationsDependencies bundles repositories for the operations service.
type OperationsDependencies struct {
	UserRepo        repository.UserRepository
	ClientRepo      repository.ClientRepository
	JobRepo         repository.JobRepository
	MoveRequestRepo repository.MoveRequestRepository
	ApplicationRepo repository.ApplicationRepository
}

// Manager is a dashboard manager with the number of clients assigned to them.
type Manager struct {
	User    domain.User
	Clients int
}

// OperatorStats aggregates one operator's applications.
type OperatorStats struct {
	Email        string
	Name         string
	Applied      int
	Interviewing int
	Offers       int
	Rejected     int
	Total        int
}

// PerformanceReport summarizes operator output over a period.
type PerformanceReport struct {
	From      time.Time
	To        time.Time
	Operators []OperatorStats
	Total     int
}

// ClientStats is a snapshot of the client base and the board.
type ClientStats struct {
	TotalClients int
	ByPlan       map[domain.PlanType]int
	ByStatus     map[domain.OnboardingStatus]int
	Completed    int
	PendingMoves int
}

// ApplicationInput describes an application submitted for a client.
type ApplicationInput struct {
	ClientEmail string
	Company     string
	Position    string
	Status      domain.ApplicationStatus
	AppliedAt   *time.Time
}

// NewOperationsService constructs the service.
func NewOperationsService(deps OperationsDependencies) *OperationsService {
	return &OperationsService{
		users:        deps.UserRepo,
		clients:      deps.ClientRepo,
		jobs:         deps.JobRepo,
		requests:     deps.MoveRequestRepo,
		applications: deps.ApplicationRepo,
	}
}

// Managers lists active admins, CSMs and team leads with their client counts.
// A client counts for a manager when its dashboard manager matches the
// manager's name or email.
func (s *OperationsService) Managers(ctx context.Context) ([]Manager, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range clients {
		if c.DashboardManager != nil {
			counts[strings.ToLower(strings.TrimSpace(*c.DashboardManager))]++
		}
	}

	managers := []Manager{}
	for _, u := range users {
		if !canManageJobs(u.Role) {
			continue
		}
		n := counts[strings.ToLower(u.Name)]
		if !strings.EqualFold(u.Name, u.Email) {
			n += counts[strings.ToLower(u.Email)]
		}
		managers = append(managers, Manager{User: u, Clients: n})
	}
	return managers, nil
}

// Operators lists active operations interns and onboarding team members.
func (s *OperationsService) Operators(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}
	operators := []domain.User{}
	for _, u := range users {
		if u.Role == domain.RoleOperationsIntern || u.Role == domain.RoleOnboardingTeam {
			operators = append(operators, u)
		}
	}
	return operators, nil
}

// RecordApplication logs an application the actor submitted for a client.
func (s *OperationsService) RecordApplication(ctx context.Context, actor domain.User, input ApplicationInput) (*domain.Application, error) {
	company := strings.TrimSpace(input.Company)
	position := strings.TrimSpace(input.Position)
	if company == "" || position == "" {
		return nil, apperrors.NewValidationError("company and position are required", nil)
	}
	email := normalizeEmail(input.ClientEmail)
	if _, err := s.clients.GetByEmail(ctx, email); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("client", map[string]any{"email": email})
		}
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = domain.ApplicationApplied
	}
	appliedAt := time.Now().UTC()
	if input.AppliedAt != nil {
		appliedAt = *input.AppliedAt
	}
	app := &domain.Application{
		ClientEmail:   email,
		OperatorEmail: actor.Email,
		Company:       company,
		Position:      position,
		Status:        status,
		AppliedAt:     appliedAt,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// PerformanceReport aggregates applications per operator between from and
// to, busiest operator first.
func (s *OperationsService) PerformanceReport(ctx context.Context, from, to time.Time) (*PerformanceReport, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("report end precedes its start", nil)
	}
	apps, err := s.applications.List(ctx, repository.ApplicationFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[strings.ToLower(u.Email)] = u.Name
	}

	byOperator := make(map[string]*OperatorStats)
	for _, app := range apps {
		key := strings.ToLower(app.OperatorEmail)
		stats, ok := byOperator[key]
		if !ok {
			stats = &OperatorStats{Email: app.OperatorEmail, Name: names[key]}
			byOperator[key] = stats
		}
		switch app.Status {
		case domain.ApplicationInterviewing:
			stats.Interviewing++
		case domain.ApplicationOffer:
			stats.Offers++
		case domain.ApplicationRejected:
			stats.Rejected++
		default:
			stats.Applied++
		}
		stats.Total++
	}

	report := &PerformanceReport{From: from, To: to, Operators: make([]OperatorStats, 0, len(byOperator))}
	for _, stats := range byOperator {
		report.Operators = append(report.Operators, *stats)
		report.Total += stats.Total
	}
	sort.Slice(report.Operators, func(i, j int) bool {
		if report.Operators[i].Total != report.Operators[j].Total {
			return report.Operators[i].Total > report.Operators[j].Total
		}
		return report.Operators[i].Email < report.Operators[j].Email
	})
	return report, nil
}

// Table lays the report out for export.
func (r *PerformanceReport) Table() export.Table {
	headers := []string{"Operator", "Applied", "Interviewing", "Offers", "Rejected", "Total"}
	rows := make([]map[string]string, 0, len(r.Operators))
	for _, op := range r.Operators {
		name := op.Name
		if name == "" {
			name = op.Email
		}
		rows = append(rows, map[string]string{
			"Operator":     name,
			"Applied":      strconv.Itoa(op.Applied),
			"Interviewing": strconv.Itoa(op.Interviewing),
			"Offers":       strconv.Itoa(op.Offers),
			"Rejected":     strconv.Itoa(op.Rejected),
			"Total":        strconv.Itoa(op.Total),
		})
	}
	return export.Table{
		Title:    "Operator performance",
		Subtitle: r.From.Format("2006-01-02") + " to " + r.To.Format("2006-01-02"),
		Headers:  headers,
		Rows:     rows,
		Footer:   map[string]string{"Operator": "Total", "Total": strconv.Itoa(r.Total)},
	}
}

// ClientStats counts clients per plan and jobs per status.
func (s *OperationsService) ClientStats(ctx context.Context) (*ClientStats, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ClientStats{
		TotalClients: len(clients),
		ByPlan:       make(map[domain.PlanType]int),
		ByStatus:     make(map[domain.OnboardingStatus]int),
		PendingMoves: len(pending),
	}
	for _, c := range clients {
		stats.ByPlan[c.PlanType]++
	}
	for _, count := range counts {
		stats.ByStatus[count.Status] = count.Count
	}
	stats.Completed = stats.ByStatus[domain.StatusCompleted]
	return stats, nil
}
