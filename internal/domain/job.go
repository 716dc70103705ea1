package domain

import "time"

// Job tracks one client's progress through the onboarding pipeline.
type Job struct {
	ID                   string
	JobNumber            int64
	ClientEmail          string
	ClientName           string
	ClientNumber         int64
	PlanType             PlanType
	Status               OnboardingStatus
	CSMEmail             *string
	ResumeMakerEmail     *string
	LinkedInMemberEmail  *string
	DashboardManager     *string
	LinkedInPhaseStarted bool
	Comments             []Comment
	MoveHistory          []MoveHistoryEntry
	Attachments          []Attachment
	PendingMoveRequest   *MoveRequest
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Comment is one entry in a job's discussion thread.
type Comment struct {
	ID          string
	JobID       string
	AuthorEmail string
	AuthorName  string
	Body        string
	Mentions    []string
	IsIssue     bool
	Resolved    bool
	ResolvedBy  *string
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MoveHistoryEntry is an immutable record of a status change.
type MoveHistoryEntry struct {
	ID         string
	JobID      string
	FromStatus OnboardingStatus
	ToStatus   OnboardingStatus
	MovedBy    string
	ViaRequest *string
	CreatedAt  time.Time
}

// Attachment stores metadata for an uploaded onboarding file.
type Attachment struct {
	ID         string
	JobID      string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy string
	CreatedAt  time.Time
}
