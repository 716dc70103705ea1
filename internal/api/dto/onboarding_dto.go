package dto

import (
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// CreateJobRequest payload for POST /api/onboarding/jobs.
type CreateJobRequest struct {
	ClientEmail         string  `json:"client_email" validate:"required,email"`
	ClientName          string  `json:"client_name" validate:"required"`
	ClientNumber        int64   `json:"client_number"`
	PlanType            string  `json:"plan_type"`
	CSMEmail            *string `json:"csm_email" validate:"omitempty,email"`
	ResumeMakerEmail    *string `json:"resume_maker_email" validate:"omitempty,email"`
	LinkedInMemberEmail *string `json:"linkedin_member_email" validate:"omitempty,email"`
	DashboardManager    *string `json:"dashboard_manager"`
}

// UpdateJobRequest payload for PATCH /api/onboarding/jobs/:id. Every field is
// optional; only the supplied ones are applied. An empty assignee email
// clears the assignment.
type UpdateJobRequest struct {
	Status               *string          `json:"status"`
	Mode                 string           `json:"mode" validate:"omitempty,oneof=adjacent jump"`
	ClientName           *string          `json:"client_name"`
	PlanType             *string          `json:"plan_type"`
	CSMEmail             *string          `json:"csm_email"`
	ResumeMakerEmail     *string          `json:"resume_maker_email"`
	LinkedInMemberEmail  *string          `json:"linkedin_member_email"`
	DashboardManager     *string          `json:"dashboard_manager"`
	LinkedInPhaseStarted *bool            `json:"linkedin_phase_started"`
	Comment              *CommentInput    `json:"comment"`
	EditComment          *CommentEdit     `json:"edit_comment"`
	ResolveCommentID     *string          `json:"resolve_comment_id"`
	Attachment           *AttachmentInput `json:"attachment"`
}

// CommentInput adds a comment to a job thread.
type CommentInput struct {
	Body    string `json:"body" validate:"required"`
	IsIssue bool   `json:"is_issue"`
}

// CommentEdit rewrites an existing comment.
type CommentEdit struct {
	ID   string `json:"id" validate:"required"`
	Body string `json:"body" validate:"required"`
}

// AttachmentInput references a previously uploaded file.
type AttachmentInput struct {
	StorageKey string `json:"storage_key" validate:"required"`
	FileName   string `json:"file_name" validate:"required"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// MoveRequestInput payload for POST /jobs/:id/request-move.
type MoveRequestInput struct {
	TargetStatus string `json:"target_status" validate:"required"`
}

// ReviewMoveInput payload for approve-move and reject-move.
type ReviewMoveInput struct {
	Note string `json:"note"`
}

// JobResponse is the wire form of a job.
type JobResponse struct {
	ID                   string                `json:"id"`
	JobNumber            int64                 `json:"job_number"`
	ClientEmail          string                `json:"client_email"`
	ClientName           string                `json:"client_name"`
	ClientNumber         int64                 `json:"client_number"`
	PlanType             string                `json:"plan_type"`
	Status               string                `json:"status"`
	CSMEmail             *string               `json:"csm_email"`
	ResumeMakerEmail     *string               `json:"resume_maker_email"`
	LinkedInMemberEmail  *string               `json:"linkedin_member_email"`
	DashboardManager     *string               `json:"dashboard_manager"`
	LinkedInPhaseStarted bool                  `json:"linkedin_phase_started"`
	Comments             []CommentResponse     `json:"comments,omitempty"`
	MoveHistory          []MoveHistoryResponse `json:"move_history,omitempty"`
	Attachments          []AttachmentResponse  `json:"attachments,omitempty"`
	PendingMoveRequest   *MoveRequestResponse  `json:"pending_move_request"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID          string     `json:"id"`
	JobID       string     `json:"job_id"`
	AuthorEmail string     `json:"author_email"`
	AuthorName  string     `json:"author_name"`
	Body        string     `json:"body"`
	Mentions    []string   `json:"mentions"`
	IsIssue     bool       `json:"is_issue"`
	Resolved    bool       `json:"resolved"`
	ResolvedBy  *string    `json:"resolved_by"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MoveHistoryResponse is one move-history row.
type MoveHistoryResponse struct {
	ID         string    `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	MovedBy    string    `json:"moved_by"`
	ViaRequest *string   `json:"via_request"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID         string    `json:"id"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MoveRequestResponse is the wire form of a move request.
type MoveRequestResponse struct {
	ID          string     `json:"id"`
	JobID       string     `json:"job_id"`
	FromStatus  string     `json:"from_status"`
	ToStatus    string     `json:"to_status"`
	RequestedBy string     `json:"requested_by"`
	State       string     `json:"state"`
	ReviewedBy  *string    `json:"reviewed_by"`
	ReviewNote  string     `json:"review_note,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

// DirectoryEntryResponse is a user in a role directory.
type DirectoryEntryResponse struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	SubRole string `json:"sub_role,omitempty"`
}

// RolesResponse payload for GET /api/onboarding/jobs/roles.
type RolesResponse struct {
	Mentionable     []DirectoryEntryResponse `json:"mentionable"`
	CSMs            []DirectoryEntryResponse `json:"csms"`
	ResumeMakers    []DirectoryEntryResponse `json:"resume_makers"`
	LinkedInMembers []DirectoryEntryResponse `json:"linkedin_members"`
	TeamLeads       []DirectoryEntryResponse `json:"team_leads"`
}

// NotificationResponse is one inbox item.
type NotificationResponse struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	CommentID *string   `json:"comment_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueResponse is an unresolved issue comment with its job context.
type IssueResponse struct {
	JobID       string          `json:"job_id"`
	ClientEmail string          `json:"client_email"`
	ClientName  string          `json:"client_name"`
	Status      string          `json:"status"`
	Comment     CommentResponse `json:"comment"`
}

// NewJobResponse maps a domain job to its wire form.
func NewJobResponse(job domain.Job) JobResponse {
	resp := JobResponse{
		ID:                   job.ID,
		JobNumber:            job.JobNumber,
		ClientEmail:          job.ClientEmail,
		ClientName:           job.ClientName,
		ClientNumber:         job.ClientNumber,
		PlanType:             string(job.PlanType),
		Status:               string(job.Status),
		CSMEmail:             job.CSMEmail,
		ResumeMakerEmail:     job.ResumeMakerEmail,
		LinkedInMemberEmail:  job.LinkedInMemberEmail,
		DashboardManager:     job.DashboardManager,
		LinkedInPhaseStarted: job.LinkedInPhaseStarted,
		CreatedAt:            job.CreatedAt,
		UpdatedAt:            job.UpdatedAt,
	}
	for _, c := range job.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(c))
	}
	for _, h := range job.MoveHistory {
		resp.MoveHistory = append(resp.MoveHistory, MoveHistoryResponse{
			ID:         h.ID,
			FromStatus: string(h.FromStatus),
			ToStatus:   string(h.ToStatus),
			MovedBy:    h.MovedBy,
			ViaRequest: h.ViaRequest,
			CreatedAt:  h.CreatedAt,
		})
	}
	for _, a := range job.Attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(a))
	}
	if job.PendingMoveRequest != nil {
		mr := NewMoveRequestResponse(*job.PendingMoveRequest)
		resp.PendingMoveRequest = &mr
	}
	return resp
}

// ToDomain maps the wire form back to a domain job.
func (r JobResponse) ToDomain() domain.Job {
	job := domain.Job{
		ID:                   r.ID,
		JobNumber:            r.JobNumber,
		ClientEmail:          r.ClientEmail,
		ClientName:           r.ClientName,
		ClientNumber:         r.ClientNumber,
		PlanType:             domain.PlanType(r.PlanType),
		Status:               domain.OnboardingStatus(r.Status),
		CSMEmail:             r.CSMEmail,
		ResumeMakerEmail:     r.ResumeMakerEmail,
		LinkedInMemberEmail:  r.LinkedInMemberEmail,
		DashboardManager:     r.DashboardManager,
		LinkedInPhaseStarted: r.LinkedInPhaseStarted,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	for _, c := range r.Comments {
		job.Comments = append(job.Comments, c.ToDomain())
	}
	for _, h := range r.MoveHistory {
		job.MoveHistory = append(job.MoveHistory, domain.MoveHistoryEntry{
			ID:         h.ID,
			JobID:      r.ID,
			FromStatus: domain.OnboardingStatus(h.FromStatus),
			ToStatus:   domain.OnboardingStatus(h.ToStatus),
			MovedBy:    h.MovedBy,
			ViaRequest: h.ViaRequest,
			CreatedAt:  h.CreatedAt,
		})
	}
	for _, a := range r.Attachments {
		job.Attachments = append(job.Attachments, domain.Attachment{
			ID:         a.ID,
			JobID:      r.ID,
			StorageKey: a.StorageKey,
			FileName:   a.FileName,
			MimeType:   a.MimeType,
			SizeBytes:  a.SizeBytes,
			UploadedBy: a.UploadedBy,
			CreatedAt:  a.CreatedAt,
		})
	}
	if r.PendingMoveRequest != nil {
		mr := r.PendingMoveRequest.ToDomain()
		job.PendingMoveRequest = &mr
	}
	return job
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c domain.Comment) CommentResponse {
	mentions := c.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	return CommentResponse{
		ID:          c.ID,
		JobID:       c.JobID,
		AuthorEmail: c.AuthorEmail,
		AuthorName:  c.AuthorName,
		Body:        c.Body,
		Mentions:    mentions,
		IsIssue:     c.IsIssue,
		Resolved:    c.Resolved,
		ResolvedBy:  c.ResolvedBy,
		ResolvedAt:  c.ResolvedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToDomain maps a wire comment.
func (r CommentResponse) ToDomain() domain.Comment {
	return domain.Comment{
		ID:          r.ID,
		JobID:       r.JobID,
		AuthorEmail: r.AuthorEmail,
		AuthorName:  r.AuthorName,
		Body:        r.Body,
		Mentions:    r.Mentions,
		IsIssue:     r.IsIssue,
		Resolved:    r.Resolved,
		ResolvedBy:  r.ResolvedBy,
		ResolvedAt:  r.ResolvedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// NewAttachmentResponse maps attachment metadata.
func NewAttachmentResponse(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		StorageKey: a.StorageKey,
		FileName:   a.FileName,
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
	}
}

// NewMoveRequestResponse maps a move request.
func NewMoveRequestResponse(mr domain.MoveRequest) MoveRequestResponse {
	return MoveRequestResponse{
		ID:          mr.ID,
		JobID:       mr.JobID,
		FromStatus:  string(mr.FromStatus),
		ToStatus:    string(mr.ToStatus),
		RequestedBy: mr.RequestedBy,
		State:       string(mr.State),
		ReviewedBy:  mr.ReviewedBy,
		ReviewNote:  mr.ReviewNote,
		CreatedAt:   mr.CreatedAt,
		ReviewedAt:  mr.ReviewedAt,
	}
}

// ToDomain maps a wire move request.
func (r MoveRequestResponse) ToDomain() domain.MoveRequest {
	return domain.MoveRequest{
		ID:          r.ID,
		JobID:       r.JobID,
		FromStatus:  domain.OnboardingStatus(r.FromStatus),
		ToStatus:    domain.OnboardingStatus(r.ToStatus),
		RequestedBy: r.RequestedBy,
		State:       domain.MoveRequestState(r.State),
		ReviewedBy:  r.ReviewedBy,
		ReviewNote:  r.ReviewNote,
		CreatedAt:   r.CreatedAt,
		ReviewedAt:  r.ReviewedAt,
	}
}

// NewRolesResponse maps the role directory.
func NewRolesResponse(dir domain.RoleDirectory) RolesResponse {
	return RolesResponse{
		Mentionable:     directoryResponse(dir.Mentionable),
		CSMs:            directoryResponse(dir.CSMs),
		ResumeMakers:    directoryResponse(dir.ResumeMakers),
		LinkedInMembers: directoryResponse(dir.LinkedInMembers),
		TeamLeads:       directoryResponse(dir.TeamLeads),
	}
}

// ToDomain maps the wire directory.
func (r RolesResponse) ToDomain() domain.RoleDirectory {
	return domain.RoleDirectory{
		Mentionable:     directoryDomain(r.Mentionable),
		CSMs:            directoryDomain(r.CSMs),
		ResumeMakers:    directoryDomain(r.ResumeMakers),
		LinkedInMembers: directoryDomain(r.LinkedInMembers),
		TeamLeads:       directoryDomain(r.TeamLeads),
	}
}

func directoryResponse(entries []domain.DirectoryEntry) []DirectoryEntryResponse {
	out := make([]DirectoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirectoryEntryResponse{Email: e.Email, Name: e.Name, Role: string(e.Role), SubRole: string(e.SubRole)})
	}
	return out
}

func directoryDomain(entries []DirectoryEntryResponse) []domain.DirectoryEntry {
	out := make([]domain.DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.DirectoryEntry{Email: e.Email, Name: e.Name, Role: domain.Role(e.Role), SubRole: domain.SubRole(e.SubRole)})
	}
	return out
}

// NewNotificationResponse maps a notification.
func NewNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		JobID:     n.JobID,
		CommentID: n.CommentID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
