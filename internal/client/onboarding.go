package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/board"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

var _ board.Backend = (*Client)(nil)

func jobPath(id string) string {
	return "/api/onboarding/jobs/" + url.PathEscape(id)
}

// ListJobs fetches every job visible to the caller.
func (c *Client) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var resp []dto.JobResponse
	if err := c.do(ctx, http.MethodGet, "/api/onboarding/jobs", nil, nil, &resp); err != nil {
		return nil, err
	}
	jobs := make([]domain.Job, 0, len(resp))
	for _, r := range resp {
		jobs = append(jobs, r.ToDomain())
	}
	return jobs, nil
}

// GetJob fetches one job with its comments, history and attachments.
func (c *Client) GetJob(ctx context.Context, id string) (domain.Job, error) {
	var resp dto.JobResponse
	if err := c.do(ctx, http.MethodGet, jobPath(id), nil, nil, &resp); err != nil {
		return domain.Job{}, err
	}
	return resp.ToDomain(), nil
}

// CreateJob opens an onboarding job.
func (c *Client) CreateJob(ctx context.Context, req dto.CreateJobRequest) (domain.Job, error) {
	var resp dto.JobResponse
	if err := c.do(ctx, http.MethodPost, "/api/onboarding/jobs", nil, req, &resp); err != nil {
		return domain.Job{}, err
	}
	return resp.ToDomain(), nil
}

// UpdateJob sends a PATCH with the supplied fields.
func (c *Client) UpdateJob(ctx context.Context, id string, req dto.UpdateJobRequest) (domain.Job, error) {
	var resp dto.JobResponse
	if err := c.do(ctx, http.MethodPatch, jobPath(id), nil, req, &resp); err != nil {
		return domain.Job{}, err
	}
	return resp.ToDomain(), nil
}

// MoveJob changes a job's status directly. mode is "adjacent" or "jump".
func (c *Client) MoveJob(ctx context.Context, id string, target domain.OnboardingStatus, mode string) (domain.Job, error) {
	status := string(target)
	return c.UpdateJob(ctx, id, dto.UpdateJobRequest{Status: &status, Mode: mode})
}

// RequestMove files a move request for review.
func (c *Client) RequestMove(ctx context.Context, id string, target domain.OnboardingStatus) (domain.MoveRequest, error) {
	var resp dto.MoveRequestResponse
	body := dto.MoveRequestInput{TargetStatus: string(target)}
	if err := c.do(ctx, http.MethodPost, jobPath(id)+"/request-move", nil, body, &resp); err != nil {
		return domain.MoveRequest{}, err
	}
	return resp.ToDomain(), nil
}

// ApproveMove applies the job's pending move request.
func (c *Client) ApproveMove(ctx context.Context, id, note string) (domain.Job, error) {
	var resp dto.JobResponse
	if err := c.do(ctx, http.MethodPost, jobPath(id)+"/approve-move", nil, dto.ReviewMoveInput{Note: note}, &resp); err != nil {
		return domain.Job{}, err
	}
	return resp.ToDomain(), nil
}

// RejectMove discards the job's pending move request.
func (c *Client) RejectMove(ctx context.Context, id, note string) (domain.MoveRequest, error) {
	var resp dto.MoveRequestResponse
	if err := c.do(ctx, http.MethodPost, jobPath(id)+"/reject-move", nil, dto.ReviewMoveInput{Note: note}, &resp); err != nil {
		return domain.MoveRequest{}, err
	}
	return resp.ToDomain(), nil
}

// AddComment posts a comment; mentions are resolved by the server.
func (c *Client) AddComment(ctx context.Context, id, body string, isIssue bool) (domain.Job, error) {
	return c.UpdateJob(ctx, id, dto.UpdateJobRequest{Comment: &dto.CommentInput{Body: body, IsIssue: isIssue}})
}

// EditComment rewrites one of the caller's comments.
func (c *Client) EditComment(ctx context.Context, jobID, commentID, body string) error {
	_, err := c.UpdateJob(ctx, jobID, dto.UpdateJobRequest{EditComment: &dto.CommentEdit{ID: commentID, Body: body}})
	return err
}

// ResolveComment marks an issue comment resolved.
func (c *Client) ResolveComment(ctx context.Context, jobID, commentID string) (domain.Job, error) {
	return c.UpdateJob(ctx, jobID, dto.UpdateJobRequest{ResolveCommentID: &commentID})
}

// RenameClient changes the client name on a job.
func (c *Client) RenameClient(ctx context.Context, jobID, name string) error {
	_, err := c.UpdateJob(ctx, jobID, dto.UpdateJobRequest{ClientName: &name})
	return err
}

// Roles fetches the board's role directories.
func (c *Client) Roles(ctx context.Context) (domain.RoleDirectory, error) {
	var resp dto.RolesResponse
	if err := c.do(ctx, http.MethodGet, "/api/onboarding/jobs/roles", nil, nil, &resp); err != nil {
		return domain.RoleDirectory{}, err
	}
	return resp.ToDomain(), nil
}

// Notifications lists the caller's inbox.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error) {
	var query url.Values
	if unreadOnly {
		query = url.Values{"unread": {"true"}}
	}
	var resp []dto.NotificationResponse
	if err := c.do(ctx, http.MethodGet, "/api/onboarding/notifications", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/onboarding/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// UnresolvedIssues lists open issue comments across jobs.
func (c *Client) UnresolvedIssues(ctx context.Context) ([]dto.IssueResponse, error) {
	var resp []dto.IssueResponse
	if err := c.do(ctx, http.MethodGet, "/api/onboarding/issues/non-resolved", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UploadAttachment stores a file and attaches it to the job.
func (c *Client) UploadAttachment(ctx context.Context, jobID, fileName string, content io.Reader) (domain.Job, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("job_id", jobID); err != nil {
		return domain.Job{}, err
	}
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return domain.Job{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return domain.Job{}, fmt.Errorf("read attachment: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.Job{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/onboarding-attachment", &buf)
	if err != nil {
		return domain.Job{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var uploaded dto.AttachmentResponse
	if err := c.send(req, &uploaded); err != nil {
		return domain.Job{}, err
	}
	return c.UpdateJob(ctx, jobID, dto.UpdateJobRequest{Attachment: &dto.AttachmentInput{
		StorageKey: uploaded.StorageKey,
		FileName:   uploaded.FileName,
		MimeType:   uploaded.MimeType,
		SizeBytes:  uploaded.SizeBytes,
	}})
}
