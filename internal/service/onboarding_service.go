package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/events"
	"github.com/careerforge/onboarding-portal/internal/mention"
	"github.com/careerforge/onboarding-portal/internal/observability"
	"github.com/careerforge/onboarding-portal/internal/pipeline"
	"github.com/careerforge/onboarding-portal/internal/repository"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

const issueScanLimit = 200

// OnboardingService coordinates onboarding board workflows.
type OnboardingService struct {
	jobs        repository.JobRepository
	comments    repository.CommentRepository
	history     repository.MoveHistoryRepository
	attachments repository.AttachmentRepository
	requests    repository.MoveRequestRepository
	users       repository.UserRepository
	counters    repository.CounterRepository
	cache       repository.JobCache
	tx          repository.Transactor
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// OnboardingDependencies bundles collaborators for the onboarding service.
type OnboardingDependencies struct {
	JobRepo         repository.JobRepository
	CommentRepo     repository.CommentRepository
	HistoryRepo     repository.MoveHistoryRepository
	AttachmentRepo  repository.AttachmentRepository
	MoveRequestRepo repository.MoveRequestRepository
	UserRepo        repository.UserRepository
	CounterRepo     repository.CounterRepository
	JobCache        repository.JobCache
	Tx              repository.Transactor
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// JobCreateInput describes a new onboarding job.
type JobCreateInput struct {
	ClientEmail         string
	ClientName          string
	ClientNumber        int64
	PlanType            domain.PlanType
	CSMEmail            *string
	ResumeMakerEmail    *string
	LinkedInMemberEmail *string
	DashboardManager    *string
}

// JobListFilter describes board listing filters.
type JobListFilter struct {
	Statuses      []domain.OnboardingStatus
	PlanTypes     []domain.PlanType
	ClientEmail   *string
	AssigneeEmail *string
	UpdatedFrom   *time.Time
	Limit         int
	Offset        int
}

// JobUpdateInput is a partial update of a job. Nil fields are left as is;
// an empty assignee string clears the assignment.
type JobUpdateInput struct {
	Status               *domain.OnboardingStatus
	Mode                 pipeline.Mode
	ClientName           *string
	PlanType             *domain.PlanType
	CSMEmail             *string
	ResumeMakerEmail     *string
	LinkedInMemberEmail  *string
	DashboardManager     *string
	LinkedInPhaseStarted *bool
	Comment              *CommentInput
	EditComment          *CommentEditInput
	ResolveCommentID     *string
	Attachment           *AttachmentInput
}

// CommentInput is a new comment.
type CommentInput struct {
	Body    string
	IsIssue bool
}

// CommentEditInput replaces a comment body.
type CommentEditInput struct {
	ID   string
	Body string
}

// AttachmentInput defines uploaded file metadata.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// Issue is an unresolved issue comment together with its job.
type Issue struct {
	Job     domain.Job
	Comment domain.Comment
}

// NewOnboardingService constructs the service.
func NewOnboardingService(deps OnboardingDependencies) *OnboardingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingService{
		jobs:        deps.JobRepo,
		comments:    deps.CommentRepo,
		history:     deps.HistoryRepo,
		attachments: deps.AttachmentRepo,
		requests:    deps.MoveRequestRepo,
		users:       deps.UserRepo,
		counters:    deps.CounterRepo,
		cache:       deps.JobCache,
		tx:          deps.Tx,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// CreateJob opens a job at the start of the pipeline.
func (s *OnboardingService) CreateJob(ctx context.Context, actor domain.User, input JobCreateInput) (*domain.Job, error) {
	if !canManageJobs(actor.Role) {
		return nil, apperrors.NewForbidden("only admins, CSMs and team leads can create jobs")
	}
	email := normalizeEmail(input.ClientEmail)
	name := strings.TrimSpace(input.ClientName)
	if email == "" || name == "" {
		return nil, apperrors.NewValidationError("client email and name are required", nil)
	}
	plan := input.PlanType
	if plan == "" {
		plan = domain.PlanDefault
	}

	number, err := s.counters.Next(ctx, repository.CounterJobNumber)
	if err != nil {
		return nil, err
	}
	job := &domain.Job{
		JobNumber:           number,
		ClientEmail:         email,
		ClientName:          name,
		ClientNumber:        input.ClientNumber,
		PlanType:            plan,
		Status:              domain.StatusResumeInProgress,
		CSMEmail:            optionalEmail(input.CSMEmail),
		ResumeMakerEmail:    optionalEmail(input.ResumeMakerEmail),
		LinkedInMemberEmail: optionalEmail(input.LinkedInMemberEmail),
		DashboardManager:    optionalString(input.DashboardManager),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:  events.EventJobCreated,
		JobID: job.ID,
		Actor: actorOf(actor),
		Payload: events.JobCreatedPayload{
			ClientEmail: job.ClientEmail,
			ClientName:  job.ClientName,
			PlanType:    job.PlanType,
		},
	})
	return job, nil
}

// ListJobs returns the jobs on the caller's board. Roles with a partial board
// only see their own columns, plus approved resumes whose LinkedIn phase has
// started when the LinkedIn column is theirs.
func (s *OnboardingService) ListJobs(ctx context.Context, actor domain.User, filter JobListFilter) ([]domain.Job, error) {
	visible := pipeline.VisibleColumnsForUser(actor.Role, actor.SubRole)
	if len(visible) == 0 {
		return nil, apperrors.NewForbidden("role has no board access")
	}

	statuses := visible
	if len(filter.Statuses) > 0 {
		statuses = nil
		for _, status := range filter.Statuses {
			if hasStatus(visible, status) {
				statuses = append(statuses, status)
			}
		}
	}
	forkOnly := hasStatus(statuses, domain.StatusLinkedInInProgress) && !hasStatus(visible, domain.StatusResumeApproved)
	if forkOnly {
		statuses = append(statuses, domain.StatusResumeApproved)
	}
	if len(statuses) == 0 {
		return []domain.Job{}, nil
	}

	jobs, err := s.jobs.List(ctx, repository.JobFilter{
		Statuses:      statuses,
		PlanTypes:     filter.PlanTypes,
		ClientEmail:   filter.ClientEmail,
		AssigneeEmail: filter.AssigneeEmail,
		UpdatedFrom:   filter.UpdatedFrom,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	})
	if err != nil {
		return nil, err
	}

	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	pendingByJob := make(map[string]domain.MoveRequest, len(pending))
	for _, req := range pending {
		pendingByJob[req.JobID] = req
	}

	result := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if forkOnly && job.Status == domain.StatusResumeApproved && !job.LinkedInPhaseStarted {
			continue
		}
		if req, ok := pendingByJob[job.ID]; ok {
			req := req
			job.PendingMoveRequest = &req
		}
		result = append(result, job)
	}
	return result, nil
}

// GetJob returns a job with comments, history, attachments and the pending
// move request. Details are served from the cache when present.
func (s *OnboardingService) GetJob(ctx context.Context, actor domain.User, id string) (*domain.Job, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			s.metrics.RecordCacheLookup(true)
			if !jobVisible(actor, cached) {
				return nil, apperrors.NewForbidden("job is not on your board")
			}
			return cached, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("job cache read failed", zap.String("job_id", id), zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	job, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !jobVisible(actor, job) {
		return nil, apperrors.NewForbidden("job is not on your board")
	}
	s.storeCache(ctx, job)
	return job, nil
}

// UpdateJob applies a partial update: field edits, a direct status move,
// comment operations and an attachment, in that order. The refreshed detail
// is returned.
func (s *OnboardingService) UpdateJob(ctx context.Context, actor domain.User, id string, input JobUpdateInput) (*domain.Job, error) {
	job, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	changed, err := s.applyFieldUpdates(job, actor, input)
	if err != nil {
		return nil, err
	}

	oldStatus := job.Status
	if input.Status != nil && *input.Status != job.Status {
		if err := s.checkDirectMove(actor, job, *input.Status, input.Mode); err != nil {
			return nil, err
		}
		job.Status = *input.Status
		changed = true
	}

	moved := job.Status != oldStatus
	if changed {
		err := s.withinTx(ctx, func(ctx context.Context) error {
			if err := s.jobs.Update(ctx, job); err != nil {
				return err
			}
			if moved {
				return s.appendHistory(ctx, actor, job, oldStatus, nil)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if moved {
		s.announceMove(ctx, actor, job, oldStatus, nil)
		s.metrics.RecordMove("direct")
	}

	if input.Comment != nil {
		if _, err := s.addComment(ctx, actor, job, *input.Comment); err != nil {
			return nil, err
		}
	}
	if input.EditComment != nil {
		if _, err := s.editComment(ctx, actor, job, *input.EditComment); err != nil {
			return nil, err
		}
	}
	if input.ResolveCommentID != nil {
		if _, err := s.resolveComment(ctx, actor, job, *input.ResolveCommentID); err != nil {
			return nil, err
		}
	}
	if input.Attachment != nil {
		if _, err := s.addAttachment(ctx, actor, job, *input.Attachment); err != nil {
			return nil, err
		}
	}

	return s.refresh(ctx, id)
}

// RequestMove files a move request for review. At most one request may be
// pending per job.
func (s *OnboardingService) RequestMove(ctx context.Context, actor domain.User, jobID string, target domain.OnboardingStatus) (*domain.MoveRequest, error) {
	job, err := s.loadVisible(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	mode := pipeline.ModeAdjacent
	if pipeline.CanUserMoveDirectly(actor.Role) {
		mode = pipeline.ModeJump
	}
	if _, err := pipeline.Decide(pipeline.MoveAttempt{
		Plan:    job.PlanType,
		Current: job.Status,
		Target:  target,
		Role:    actor.Role,
		SubRole: actor.SubRole,
		Mode:    mode,
		Forked:  job.LinkedInPhaseStarted,
	}); err != nil {
		s.metrics.RecordMove("rejected")
		return nil, moveError(err)
	}

	if _, err := s.pendingRequest(ctx, job.ID); err == nil {
		return nil, errPendingRequest(job.ID)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	req := &domain.MoveRequest{
		JobID:       job.ID,
		FromStatus:  job.Status,
		ToStatus:    target,
		RequestedBy: actor.Email,
		State:       domain.MoveRequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrPendingMoveRequest) {
			return nil, errPendingRequest(job.ID)
		}
		return nil, err
	}
	s.invalidate(ctx, job.ID)
	s.metrics.RecordMove("request")

	reviewers, err := s.reviewerEmails(ctx, actor.Email)
	if err != nil {
		s.logger.Warn("unable to load reviewers", zap.String("job_id", job.ID), zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:  events.EventMoveRequested,
		JobID: job.ID,
		Actor: actorOf(actor),
		Payload: events.MoveRequestedPayload{
			RequestID:  req.ID,
			ClientName: job.ClientName,
			FromStatus: req.FromStatus,
			ToStatus:   req.ToStatus,
			Reviewers:  reviewers,
		},
	})
	return req, nil
}

// ApproveMove applies the job's pending move request.
func (s *OnboardingService) ApproveMove(ctx context.Context, actor domain.User, jobID, note string) (*domain.Job, error) {
	if !pipeline.CanReviewMoveRequests(actor.Role) {
		return nil, apperrors.NewForbidden("only admins and team leads can review move requests")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	req, err := s.pendingRequest(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != req.FromStatus {
		return nil, apperrors.NewConflict("job has moved since the request was filed", map[string]any{
			"request_from":   string(req.FromStatus),
			"current_status": string(job.Status),
		})
	}
	if !pipeline.PlanAllows(job.PlanType, req.ToStatus) {
		return nil, moveError(&pipeline.PlanMismatchError{
			Plan:    job.PlanType,
			Target:  req.ToStatus,
			Allowed: pipeline.AllowedStatusesForPlan(job.PlanType),
		})
	}

	oldStatus := job.Status
	job.Status = req.ToStatus
	err = s.withinTx(ctx, func(ctx context.Context) error {
		if err := s.closeRequest(ctx, actor, req, domain.MoveRequestApproved, note); err != nil {
			return err
		}
		if err := s.jobs.Update(ctx, job); err != nil {
			return err
		}
		return s.appendHistory(ctx, actor, job, oldStatus, &req.ID)
	})
	if err != nil {
		return nil, err
	}
	s.announceMove(ctx, actor, job, oldStatus, &req.ID)
	s.metrics.RecordMove("approved")
	s.publishReview(ctx, actor, job, req)
	return s.refresh(ctx, jobID)
}

// RejectMove closes the job's pending move request without moving the job.
func (s *OnboardingService) RejectMove(ctx context.Context, actor domain.User, jobID, note string) (*domain.MoveRequest, error) {
	if !pipeline.CanReviewMoveRequests(actor.Role) {
		return nil, apperrors.NewForbidden("only admins and team leads can review move requests")
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	req, err := s.pendingRequest(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.closeRequest(ctx, actor, req, domain.MoveRequestRejected, note); err != nil {
		return nil, err
	}
	s.invalidate(ctx, jobID)
	s.metrics.RecordMove("rejected_by_reviewer")
	s.publishReview(ctx, actor, job, req)
	return req, nil
}

// Roles returns the directories the board uses for mentions and assignment.
func (s *OnboardingService) Roles(ctx context.Context) (*domain.RoleDirectory, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}
	dir := &domain.RoleDirectory{
		Mentionable:     []domain.DirectoryEntry{},
		CSMs:            []domain.DirectoryEntry{},
		ResumeMakers:    []domain.DirectoryEntry{},
		LinkedInMembers: []domain.DirectoryEntry{},
		TeamLeads:       []domain.DirectoryEntry{},
	}
	for _, u := range users {
		entry := domain.DirectoryEntry{Email: u.Email, Name: u.Name, Role: u.Role, SubRole: u.SubRole}
		dir.Mentionable = append(dir.Mentionable, entry)
		switch {
		case u.Role == domain.RoleCSM:
			dir.CSMs = append(dir.CSMs, entry)
		case u.Role == domain.RoleTeamLead:
			dir.TeamLeads = append(dir.TeamLeads, entry)
		case u.Role == domain.RoleOnboardingTeam && u.SubRole == domain.SubRoleResumeMaker:
			dir.ResumeMakers = append(dir.ResumeMakers, entry)
		case u.Role == domain.RoleOnboardingTeam && u.SubRole == domain.SubRoleLinkedInAndCoverLetter:
			dir.LinkedInMembers = append(dir.LinkedInMembers, entry)
		}
	}
	return dir, nil
}

// UnresolvedIssues lists open issue comments on jobs the caller can see.
func (s *OnboardingService) UnresolvedIssues(ctx context.Context, actor domain.User) ([]Issue, error) {
	comments, err := s.comments.ListUnresolvedIssues(ctx, issueScanLimit)
	if err != nil {
		return nil, err
	}
	jobs := make(map[string]*domain.Job)
	issues := make([]Issue, 0, len(comments))
	for _, comment := range comments {
		job, ok := jobs[comment.JobID]
		if !ok {
			job, err = s.jobs.GetByID(ctx, comment.JobID)
			if err != nil {
				return nil, err
			}
			jobs[comment.JobID] = job
		}
		if !jobVisible(actor, job) {
			continue
		}
		issues = append(issues, Issue{Job: *job, Comment: comment})
	}
	return issues, nil
}

func (s *OnboardingService) applyFieldUpdates(job *domain.Job, actor domain.User, input JobUpdateInput) (bool, error) {
	touches := input.ClientName != nil || input.PlanType != nil || input.CSMEmail != nil ||
		input.ResumeMakerEmail != nil || input.LinkedInMemberEmail != nil ||
		input.DashboardManager != nil || input.LinkedInPhaseStarted != nil
	if !touches {
		return false, nil
	}
	if !canManageJobs(actor.Role) {
		return false, apperrors.NewForbidden("only admins, CSMs and team leads can edit job details")
	}

	if input.ClientName != nil {
		name := strings.TrimSpace(*input.ClientName)
		if name == "" {
			return false, apperrors.NewValidationError("client name cannot be empty", nil)
		}
		job.ClientName = name
	}
	if input.PlanType != nil {
		if !pipeline.PlanAllows(*input.PlanType, job.Status) {
			return false, apperrors.NewPlanMismatch(string(*input.PlanType),
				domain.StatusStrings(pipeline.AllowedStatusesForPlan(*input.PlanType)))
		}
		job.PlanType = *input.PlanType
	}
	if input.CSMEmail != nil {
		job.CSMEmail = optionalEmail(input.CSMEmail)
	}
	if input.ResumeMakerEmail != nil {
		job.ResumeMakerEmail = optionalEmail(input.ResumeMakerEmail)
	}
	if input.LinkedInMemberEmail != nil {
		job.LinkedInMemberEmail = optionalEmail(input.LinkedInMemberEmail)
	}
	if input.DashboardManager != nil {
		job.DashboardManager = optionalString(input.DashboardManager)
	}
	if input.LinkedInPhaseStarted != nil {
		job.LinkedInPhaseStarted = *input.LinkedInPhaseStarted
	}
	return true, nil
}

func (s *OnboardingService) checkDirectMove(actor domain.User, job *domain.Job, target domain.OnboardingStatus, mode pipeline.Mode) error {
	if mode == "" {
		mode = pipeline.ModeAdjacent
	}
	decision, err := pipeline.Decide(pipeline.MoveAttempt{
		Plan:    job.PlanType,
		Current: job.Status,
		Target:  target,
		Role:    actor.Role,
		SubRole: actor.SubRole,
		Mode:    mode,
		Forked:  job.LinkedInPhaseStarted,
	})
	if err != nil {
		s.metrics.RecordMove("rejected")
		return moveError(err)
	}
	if decision != pipeline.DecisionDirect {
		return apperrors.NewPermissionDenied("this move needs approval; submit a move request instead",
			domain.StatusStrings(pipeline.VisibleColumnsForUser(actor.Role, actor.SubRole)))
	}
	return nil
}

func (s *OnboardingService) appendHistory(ctx context.Context, actor domain.User, job *domain.Job, from domain.OnboardingStatus, viaRequest *string) error {
	return s.history.Create(ctx, &domain.MoveHistoryEntry{
		JobID:      job.ID,
		FromStatus: from,
		ToStatus:   job.Status,
		MovedBy:    actor.Email,
		ViaRequest: viaRequest,
	})
}

// announceMove runs after the move is durable.
func (s *OnboardingService) announceMove(ctx context.Context, actor domain.User, job *domain.Job, from domain.OnboardingStatus, viaRequest *string) {
	s.invalidate(ctx, job.ID)
	s.publishEvent(ctx, events.Event{
		Type:  events.EventJobStatusChanged,
		JobID: job.ID,
		Actor: actorOf(actor),
		Payload: events.JobStatusChangedPayload{
			ClientName: job.ClientName,
			OldStatus:  from,
			NewStatus:  job.Status,
			ViaRequest: viaRequest,
		},
	})
}

// withinTx runs fn in a transaction when a Transactor is configured.
func (s *OnboardingService) withinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

func (s *OnboardingService) closeRequest(ctx context.Context, actor domain.User, req *domain.MoveRequest, state domain.MoveRequestState, note string) error {
	now := time.Now()
	reviewer := actor.Email
	req.State = state
	req.ReviewedBy = &reviewer
	req.ReviewNote = strings.TrimSpace(note)
	req.ReviewedAt = &now
	return s.requests.Update(ctx, req)
}

func (s *OnboardingService) publishReview(ctx context.Context, actor domain.User, job *domain.Job, req *domain.MoveRequest) {
	s.publishEvent(ctx, events.Event{
		Type:  events.EventMoveReviewed,
		JobID: job.ID,
		Actor: actorOf(actor),
		Payload: events.MoveReviewedPayload{
			RequestID:   req.ID,
			ClientName:  job.ClientName,
			RequestedBy: req.RequestedBy,
			ToStatus:    req.ToStatus,
			State:       req.State,
			Note:        req.ReviewNote,
		},
	})
}

func (s *OnboardingService) addComment(ctx context.Context, actor domain.User, job *domain.Job, input CommentInput) (*domain.Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	mentions, err := s.resolveMentions(ctx, body)
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		JobID:       job.ID,
		AuthorEmail: actor.Email,
		AuthorName:  actor.Name,
		Body:        body,
		Mentions:    mentions,
		IsIssue:     input.IsIssue,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, job.ID)
	s.publishEvent(ctx, events.Event{
		Type:  events.EventCommentAdded,
		JobID: job.ID,
		Actor: actorOf(actor),
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			ClientName:  job.ClientName,
			IsIssue:     comment.IsIssue,
			Mentions:    comment.Mentions,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

func (s *OnboardingService) editComment(ctx context.Context, actor domain.User, job *domain.Job, input CommentEditInput) (*domain.Comment, error) {
	comment, err := s.commentOnJob(ctx, job.ID, input.ID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(comment.AuthorEmail, actor.Email) {
		return nil, apperrors.NewForbidden("only the author can edit a comment")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	mentions, err := s.resolveMentions(ctx, body)
	if err != nil {
		return nil, err
	}
	comment.Body = body
	comment.Mentions = mentions
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, job.ID)
	return comment, nil
}

func (s *OnboardingService) resolveComment(ctx context.Context, actor domain.User, job *domain.Job, commentID string) (*domain.Comment, error) {
	comment, err := s.commentOnJob(ctx, job.ID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Resolved {
		return comment, nil
	}
	now := time.Now()
	resolver := actor.Email
	comment.Resolved = true
	comment.ResolvedBy = &resolver
	comment.ResolvedAt = &now
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, job.ID)
	return comment, nil
}

func (s *OnboardingService) addAttachment(ctx context.Context, actor domain.User, job *domain.Job, input AttachmentInput) (*domain.Attachment, error) {
	if strings.TrimSpace(input.StorageKey) == "" || strings.TrimSpace(input.FileName) == "" {
		return nil, apperrors.NewValidationError("attachment storage key and file name are required", nil)
	}
	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	record := &domain.Attachment{
		JobID:      job.ID,
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		MimeType:   mimeType,
		SizeBytes:  input.SizeBytes,
		UploadedBy: actor.Email,
	}
	if err := s.attachments.Create(ctx, record); err != nil {
		return nil, err
	}
	s.invalidate(ctx, job.ID)
	return record, nil
}

func (s *OnboardingService) commentOnJob(ctx context.Context, jobID, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, err
	}
	if comment.JobID != jobID {
		return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
	}
	return comment, nil
}

func (s *OnboardingService) resolveMentions(ctx context.Context, body string) ([]string, error) {
	if len(mention.Tokenize(body)) == 0 {
		return []string{}, nil
	}
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}
	directory := make([]mention.Entry, 0, len(users))
	for _, u := range users {
		directory = append(directory, mention.Entry{Email: u.Email, Name: u.Name})
	}
	return mention.Parse(body, directory).RecipientEmails(), nil
}

func (s *OnboardingService) reviewerEmails(ctx context.Context, exclude string) ([]string, error) {
	users, err := s.users.List(ctx, true)
	if err != nil {
		return nil, err
	}
	var emails []string
	for _, u := range users {
		if pipeline.CanReviewMoveRequests(u.Role) && !strings.EqualFold(u.Email, exclude) {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

func (s *OnboardingService) pendingRequest(ctx context.Context, jobID string) (*domain.MoveRequest, error) {
	req, err := s.requests.GetPendingByJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pending move request", map[string]any{"job_id": jobID})
		}
		return nil, err
	}
	return req, nil
}

func (s *OnboardingService) loadVisible(ctx context.Context, actor domain.User, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !jobVisible(actor, job) {
		return nil, apperrors.NewForbidden("job is not on your board")
	}
	return job, nil
}

func (s *OnboardingService) loadDetail(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Comments, err = s.comments.ListByJob(ctx, id); err != nil {
		return nil, err
	}
	if job.MoveHistory, err = s.history.ListByJob(ctx, id); err != nil {
		return nil, err
	}
	if job.Attachments, err = s.attachments.ListByJob(ctx, id); err != nil {
		return nil, err
	}
	pending, err := s.requests.GetPendingByJob(ctx, id)
	switch {
	case err == nil:
		job.PendingMoveRequest = pending
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}
	return job, nil
}

func (s *OnboardingService) refresh(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.loadDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, job)
	return job, nil
}

func (s *OnboardingService) storeCache(ctx context.Context, job *domain.Job) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, job); err != nil {
		s.logger.Warn("job cache write failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *OnboardingService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("job cache invalidate failed", zap.String("job_id", id), zap.Error(err))
	}
}

func (s *OnboardingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// moveError maps pipeline rejections onto API errors.
func moveError(err error) error {
	var planErr *pipeline.PlanMismatchError
	var permErr *pipeline.PermissionError
	var transErr *pipeline.InvalidTransitionError
	switch {
	case errors.As(err, &planErr):
		return apperrors.NewPlanMismatch(string(planErr.Plan), domain.StatusStrings(planErr.Allowed))
	case errors.As(err, &permErr):
		return apperrors.NewPermissionDenied(permErr.Error(), domain.StatusStrings(permErr.Allowed))
	case errors.As(err, &transErr):
		return apperrors.NewInvalidTransition(string(transErr.From), string(transErr.To), domain.StatusStrings(transErr.Allowed))
	case errors.Is(err, pipeline.ErrSameStatus), errors.Is(err, pipeline.ErrUnknownStatus):
		return apperrors.NewValidationError(err.Error(), nil)
	default:
		return err
	}
}

func errPendingRequest(jobID string) error {
	return apperrors.NewConflict("job already has a pending move request", map[string]any{"job_id": jobID})
}

func canManageJobs(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleCSM, domain.RoleTeamLead:
		return true
	default:
		return false
	}
}

// jobVisible reports whether the job sits in one of the caller's columns,
// counting the LinkedIn fork of approved resumes.
func jobVisible(actor domain.User, job *domain.Job) bool {
	visible := pipeline.VisibleColumnsForUser(actor.Role, actor.SubRole)
	if hasStatus(visible, job.Status) {
		return true
	}
	return pipeline.IsForked(job.Status, job.LinkedInPhaseStarted) &&
		hasStatus(visible, domain.StatusLinkedInInProgress)
}

func hasStatus(statuses []domain.OnboardingStatus, target domain.OnboardingStatus) bool {
	for _, status := range statuses {
		if status == target {
			return true
		}
	}
	return false
}

func actorOf(user domain.User) events.Actor {
	return events.Actor{Email: user.Email, Name: user.Name, Role: user.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := normalizeEmail(*email)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// stringPreview shortens body to at most max runes.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
