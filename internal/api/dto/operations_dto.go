package dto

import (
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// ManagerResponse is a dashboard manager as listed by /api/managers.
type ManagerResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Clients int    `json:"clients"`
}

// OperatorResponse is an operations team member.
type OperatorResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	SubRole string `json:"sub_role,omitempty"`
}

// OperatorPerformance aggregates applications submitted by one operator.
type OperatorPerformance struct {
	OperatorEmail string `json:"operator_email"`
	OperatorName  string `json:"operator_name"`
	Applied       int    `json:"applied"`
	Interviewing  int    `json:"interviewing"`
	Offers        int    `json:"offers"`
	Rejected      int    `json:"rejected"`
	Total         int    `json:"total"`
}

// PerformanceReportResponse payload for GET /api/operations/performance-report.
type PerformanceReportResponse struct {
	From      time.Time             `json:"from"`
	To        time.Time             `json:"to"`
	Operators []OperatorPerformance `json:"operators"`
	Total     int                   `json:"total"`
}

// ClientStatsResponse payload for GET /api/operations/client-stats.
type ClientStatsResponse struct {
	TotalClients int            `json:"total_clients"`
	ByPlan       map[string]int `json:"by_plan"`
	ByStatus     map[string]int `json:"by_status"`
	Completed    int            `json:"completed"`
	PendingMoves int            `json:"pending_moves"`
}

// CreateApplicationRequest payload for POST /api/operations/applications.
type CreateApplicationRequest struct {
	ClientEmail string     `json:"client_email" validate:"required,email"`
	Company     string     `json:"company" validate:"required"`
	Position    string     `json:"position" validate:"required"`
	Status      string     `json:"status" validate:"omitempty,oneof=applied interviewing offer rejected"`
	AppliedAt   *time.Time `json:"applied_at"`
}

// ApplicationResponse is the wire form of an application.
type ApplicationResponse struct {
	ID            string    `json:"id"`
	ClientEmail   string    `json:"client_email"`
	OperatorEmail string    `json:"operator_email"`
	Company       string    `json:"company"`
	Position      string    `json:"position"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
}

// ClientJobAnalysisRequest payload for POST /api/analytics/client-job-analysis.
type ClientJobAnalysisRequest struct {
	ClientEmail string     `json:"client_email" validate:"required,email"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
}

// ClientJobAnalysisResponse summarizes a client's applications.
type ClientJobAnalysisResponse struct {
	ClientEmail  string         `json:"client_email"`
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	TopCompanies []CompanyCount `json:"top_companies"`
}

// CompanyCount is one row of a company histogram.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// AppliedByDateRequest payload for POST /api/analytics/applied-by-date.
type AppliedByDateRequest struct {
	ClientEmail string     `json:"client_email" validate:"omitempty,email"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
}

// DayCount is the number of applications submitted on one day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AppliedByDateResponse payload for applied-by-date.
type AppliedByDateResponse struct {
	Days  []DayCount `json:"days"`
	Total int        `json:"total"`
}

// NewApplicationResponse maps an application.
func NewApplicationResponse(a domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		ClientEmail:   a.ClientEmail,
		OperatorEmail: a.OperatorEmail,
		Company:       a.Company,
		Position:      a.Position,
		Status:        string(a.Status),
		AppliedAt:     a.AppliedAt,
	}
}
