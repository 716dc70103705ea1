package domain

import "time"

// Client is a customer being onboarded.
type Client struct {
	ID               string
	ClientNumber     int64
	Name             string
	Email            string
	PlanType         PlanType
	PasswordHash     string
	DashboardManager *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplicationStatus enumerates the outcome of a submitted job application.
type ApplicationStatus string

const (
	ApplicationApplied      ApplicationStatus = "applied"
	ApplicationInterviewing ApplicationStatus = "interviewing"
	ApplicationOffer        ApplicationStatus = "offer"
	ApplicationRejected     ApplicationStatus = "rejected"
)

// Application is a job application submitted on a client's behalf.
type Application struct {
	ID            string
	ClientEmail   string
	OperatorEmail string
	Company       string
	Position      string
	Status        ApplicationStatus
	AppliedAt     time.Time
	CreatedAt     time.Time
}
