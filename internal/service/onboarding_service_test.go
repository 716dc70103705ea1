package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/events"
	"github.com/careerforge/onboarding-portal/internal/pipeline"
	apperrors "github.com/careerforge/onboarding-portal/pkg/util/errorutil"
)

var (
	adminUser    = domain.User{ID: "u-admin", Name: "Ada Admin", Email: "ada@portal.test", Role: domain.RoleAdmin, Active: true}
	leadUser     = domain.User{ID: "u-lead", Name: "Tom Lead", Email: "tom@portal.test", Role: domain.RoleTeamLead, Active: true}
	csmUser      = domain.User{ID: "u-csm", Name: "Cara Smith", Email: "cara@portal.test", Role: domain.RoleCSM, Active: true}
	internUser   = domain.User{ID: "u-intern", Name: "Ivan Intern", Email: "ivan@portal.test", Role: domain.RoleOperationsIntern, Active: true}
	resumeUser   = domain.User{ID: "u-resume", Name: "Rita Resume", Email: "rita@portal.test", Role: domain.RoleOnboardingTeam, SubRole: domain.SubRoleResumeMaker, Active: true}
	linkedInUser = domain.User{ID: "u-li", Name: "Liam Link", Email: "liam@portal.test", Role: domain.RoleOnboardingTeam, SubRole: domain.SubRoleLinkedInAndCoverLetter, Active: true}
)

type onboardingFixture struct {
	svc           *OnboardingService
	jobs          *jobRepoStub
	comments      *commentRepoStub
	history       *historyRepoStub
	attachments   *attachmentRepoStub
	requests      *moveRequestRepoStub
	cache         *jobCacheStub
	notifications *notificationRepoStub
	tx            *txStub
}

func newOnboardingFixture(t *testing.T, jobs ...domain.Job) *onboardingFixture {
	t.Helper()
	f := &onboardingFixture{
		jobs:          newJobRepoStub(),
		comments:      &commentRepoStub{},
		history:       &historyRepoStub{},
		attachments:   &attachmentRepoStub{},
		requests:      &moveRequestRepoStub{},
		cache:         newJobCacheStub(),
		notifications: &notificationRepoStub{},
	}
	for _, job := range jobs {
		f.jobs.put(job)
	}
	f.tx = &txStub{jobs: f.jobs, requests: f.requests}

	dispatcher := events.NewInMemoryDispatcher(nil)
	notifier := NewNotificationService(NotificationDependencies{
		Dispatcher:       dispatcher,
		NotificationRepo: f.notifications,
	}, nil, config.NotificationConfig{})
	notifier.RegisterHandlers()

	f.svc = NewOnboardingService(OnboardingDependencies{
		JobRepo:         f.jobs,
		CommentRepo:     f.comments,
		HistoryRepo:     f.history,
		AttachmentRepo:  f.attachments,
		MoveRequestRepo: f.requests,
		UserRepo:        newUserRepoStub(adminUser, leadUser, csmUser, internUser, resumeUser, linkedInUser),
		CounterRepo:     newCounterRepoStub(),
		JobCache:        f.cache,
		Tx:              f.tx,
		Dispatcher:      dispatcher,
	})
	return f
}

func testJob(id string, plan domain.PlanType, status domain.OnboardingStatus) domain.Job {
	return domain.Job{
		ID:          id,
		ClientEmail: id + "@client.test",
		ClientName:  "Client " + id,
		PlanType:    plan,
		Status:      status,
	}
}

func statusPtr(s domain.OnboardingStatus) *domain.OnboardingStatus { return &s }

func strPtr(s string) *string { return &s }

func requireDomainCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
	return domainErr
}

func TestUpdateJobRejectsStatusOutsidePlanForIntern(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanProfessional, domain.StatusLinkedInDone))

	_, err := f.svc.UpdateJob(context.Background(), internUser, "job-1", JobUpdateInput{
		Status: statusPtr(domain.StatusCoverLetterInProgress),
	})
	domainErr := requireDomainCode(t, err, apperrors.CodePlanMismatch)
	assert.Equal(t, http.StatusUnprocessableEntity, domainErr.HTTPStatus)
	assert.Equal(t, "professional", domainErr.Details["plan"])

	job, err := f.jobs.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInDone, job.Status)
	assert.Empty(t, f.history.entries)
}

func TestUpdateJobTeamLeadMovesDirectly(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeApproved))

	job, err := f.svc.UpdateJob(context.Background(), leadUser, "job-1", JobUpdateInput{
		Status: statusPtr(domain.StatusLinkedInInProgress),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, job.Status)
	require.Len(t, job.MoveHistory, 1)
	assert.Equal(t, domain.StatusResumeApproved, job.MoveHistory[0].FromStatus)
	assert.Equal(t, leadUser.Email, job.MoveHistory[0].MovedBy)
	assert.Nil(t, job.MoveHistory[0].ViaRequest)
	assert.Contains(t, f.cache.invalidated, "job-1")
}

func TestUpdateJobUnprivilegedMoveNeedsRequest(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))

	_, err := f.svc.UpdateJob(context.Background(), linkedInUser, "job-1", JobUpdateInput{
		Status: statusPtr(domain.StatusLinkedInDone),
	})
	requireDomainCode(t, err, apperrors.CodePermissionDenied)
}

func TestUpdateJobEnforcesAdjacencyUnlessJump(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanDefault, domain.StatusResumeInProgress))
	ctx := context.Background()

	_, err := f.svc.UpdateJob(ctx, csmUser, "job-1", JobUpdateInput{Status: statusPtr(domain.StatusResumeInReview)})
	domainErr := requireDomainCode(t, err, apperrors.CodeInvalidMove)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)

	job, err := f.svc.UpdateJob(ctx, csmUser, "job-1", JobUpdateInput{
		Status: statusPtr(domain.StatusResumeInReview),
		Mode:   pipeline.ModeJump,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResumeInReview, job.Status)
}

func TestUpdateJobPlanChangeGuard(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusCoverLetterInProgress))
	ctx := context.Background()

	professional := domain.PlanProfessional
	_, err := f.svc.UpdateJob(ctx, leadUser, "job-1", JobUpdateInput{PlanType: &professional})
	requireDomainCode(t, err, apperrors.CodePlanMismatch)

	job, err := f.jobs.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanExecutive, job.PlanType)

	_, err = f.svc.UpdateJob(ctx, internUser, "job-1", JobUpdateInput{ClientName: strPtr("Renamed")})
	requireDomainCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateJobAssignmentsAndAttachment(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))

	job, err := f.svc.UpdateJob(context.Background(), csmUser, "job-1", JobUpdateInput{
		ResumeMakerEmail: strPtr(" Rita@Portal.test "),
		CSMEmail:         strPtr(""),
		Attachment: &AttachmentInput{
			StorageKey: "onboarding/job-1/resume.pdf",
			FileName:   "resume.pdf",
			SizeBytes:  2048,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, job.ResumeMakerEmail)
	assert.Equal(t, "rita@portal.test", *job.ResumeMakerEmail)
	assert.Nil(t, job.CSMEmail)
	require.Len(t, job.Attachments, 1)
	assert.Equal(t, "application/octet-stream", job.Attachments[0].MimeType)
	assert.Equal(t, csmUser.Email, job.Attachments[0].UploadedBy)
}

func TestRequestMoveByLinkedInMember(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	req, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveRequestPending, req.State)
	assert.Equal(t, domain.StatusLinkedInInProgress, req.FromStatus)
	assert.Equal(t, linkedInUser.Email, req.RequestedBy)

	job, err := f.svc.GetJob(ctx, linkedInUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, job.Status)
	require.NotNil(t, job.PendingMoveRequest)
	assert.Equal(t, req.ID, job.PendingMoveRequest.ID)

	assert.Equal(t, []string{adminUser.Email, leadUser.Email}, f.notifications.recipients(domain.NotificationMoveRequested))

	_, err = f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	requireDomainCode(t, err, apperrors.CodeConflict)
}

func TestRequestMoveOutsideOwnColumns(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeApproved))

	_, err := f.svc.RequestMove(context.Background(), resumeUser, "job-1", domain.StatusLinkedInInProgress)
	domainErr := requireDomainCode(t, err, apperrors.CodePermissionDenied)
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
	assert.Equal(t, domain.StatusStrings(pipeline.VisibleColumnsForUser(resumeUser.Role, resumeUser.SubRole)),
		domainErr.Details["allowed_statuses"])
}

func TestApproveMoveAppliesRequest(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	req, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)

	_, err = f.svc.ApproveMove(ctx, csmUser, "job-1", "")
	requireDomainCode(t, err, apperrors.CodeForbidden)

	job, err := f.svc.ApproveMove(ctx, leadUser, "job-1", "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInDone, job.Status)
	assert.Nil(t, job.PendingMoveRequest)
	require.Len(t, job.MoveHistory, 1)
	require.NotNil(t, job.MoveHistory[0].ViaRequest)
	assert.Equal(t, req.ID, *job.MoveHistory[0].ViaRequest)

	stored := f.requests.requests[0]
	assert.Equal(t, domain.MoveRequestApproved, stored.State)
	assert.Equal(t, "looks good", stored.ReviewNote)
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, leadUser.Email, *stored.ReviewedBy)

	assert.Equal(t, []string{linkedInUser.Email}, f.notifications.recipients(domain.NotificationMoveReviewed))

	_, err = f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	requireDomainCode(t, err, apperrors.CodeNotFound)
}

func TestRejectMoveKeepsStatus(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	_, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)

	req, err := f.svc.RejectMove(ctx, adminUser, "job-1", "not yet")
	require.NoError(t, err)
	assert.Equal(t, domain.MoveRequestRejected, req.State)

	job, err := f.svc.GetJob(ctx, adminUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, job.Status)
	assert.Nil(t, job.PendingMoveRequest)
	assert.Empty(t, job.MoveHistory)

	_, err = f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	assert.NoError(t, err)
}

func TestApproveMoveAfterJobMovedIsConflict(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	_, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)
	_, err = f.svc.UpdateJob(ctx, leadUser, "job-1", JobUpdateInput{Status: statusPtr(domain.StatusLinkedInDone)})
	require.NoError(t, err)

	_, err = f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	requireDomainCode(t, err, apperrors.CodeConflict)
}

func TestApproveMoveRollsBackWhenHistoryFails(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	_, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)

	f.history.err = errors.New("history insert failed")
	_, err = f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	require.Error(t, err)
	assert.Equal(t, 1, f.tx.calls)

	job, err := f.svc.GetJob(ctx, leadUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, job.Status)
	require.NotNil(t, job.PendingMoveRequest)
	assert.Empty(t, f.notifications.recipients(domain.NotificationMoveReviewed))

	f.history.err = nil
	job, err = f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInDone, job.Status)
}

func TestApproveMoveLosesToConcurrentReview(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusLinkedInInProgress))
	ctx := context.Background()

	_, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInDone)
	require.NoError(t, err)

	f.requests.afterRead = func(stored *domain.MoveRequest) {
		stored.State = domain.MoveRequestRejected
		f.requests.afterRead = nil
	}
	_, err = f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	require.Error(t, err)

	job, err := f.jobs.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, job.Status)
	assert.Empty(t, f.history.entries)
}

func TestForkedCardRequestsLinkedInStages(t *testing.T) {
	job := testJob("job-1", domain.PlanExecutive, domain.StatusResumeApproved)
	job.LinkedInPhaseStarted = true
	f := newOnboardingFixture(t, job)
	ctx := context.Background()

	jobs, err := f.svc.ListJobs(ctx, linkedInUser, JobListFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	req, err := f.svc.RequestMove(ctx, linkedInUser, "job-1", domain.StatusLinkedInInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResumeApproved, req.FromStatus)

	approved, err := f.svc.ApproveMove(ctx, leadUser, "job-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLinkedInInProgress, approved.Status)

	_, err = f.svc.RequestMove(ctx, resumeUser, "job-1", domain.StatusResumeInReview)
	requireDomainCode(t, err, apperrors.CodeForbidden)
}

func TestForkedCardStillNeedsFlag(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeApproved))

	_, err := f.svc.RequestMove(context.Background(), linkedInUser, "job-1", domain.StatusLinkedInInProgress)
	requireDomainCode(t, err, apperrors.CodeForbidden)
}

func TestStringPreviewKeepsRunesWhole(t *testing.T) {
	preview := stringPreview("héllo wörld, ça va?", 8)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, "héllo...", preview)
	assert.Equal(t, "ça", stringPreview("ça", 2))
	assert.Equal(t, "çaç", stringPreview("çaçaç", 3))
}

func TestCommentMentionsNotifyOthers(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))

	job, err := f.svc.UpdateJob(context.Background(), resumeUser, "job-1", JobUpdateInput{
		Comment: &CommentInput{Body: "@liam and @Tom please review, thanks @rita"},
	})
	require.NoError(t, err)
	require.Len(t, job.Comments, 1)
	assert.Equal(t, []string{linkedInUser.Email, leadUser.Email, resumeUser.Email}, job.Comments[0].Mentions)
	assert.Equal(t, resumeUser.Name, job.Comments[0].AuthorName)

	assert.Equal(t, []string{linkedInUser.Email, leadUser.Email}, f.notifications.recipients(domain.NotificationMention))
	require.NotNil(t, f.notifications.notifications[0].CommentID)
	assert.Equal(t, job.Comments[0].ID, *f.notifications.notifications[0].CommentID)
}

func TestEditCommentAuthorOnly(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))
	ctx := context.Background()

	job, err := f.svc.UpdateJob(ctx, resumeUser, "job-1", JobUpdateInput{Comment: &CommentInput{Body: "first draft"}})
	require.NoError(t, err)
	commentID := job.Comments[0].ID

	_, err = f.svc.UpdateJob(ctx, leadUser, "job-1", JobUpdateInput{EditComment: &CommentEditInput{ID: commentID, Body: "hijack"}})
	requireDomainCode(t, err, apperrors.CodeForbidden)

	job, err = f.svc.UpdateJob(ctx, resumeUser, "job-1", JobUpdateInput{EditComment: &CommentEditInput{ID: commentID, Body: "second draft @cara"}})
	require.NoError(t, err)
	assert.Equal(t, "second draft @cara", job.Comments[0].Body)
	assert.Equal(t, []string{csmUser.Email}, job.Comments[0].Mentions)

	_, err = f.svc.UpdateJob(ctx, resumeUser, "job-1", JobUpdateInput{EditComment: &CommentEditInput{ID: "missing", Body: "x"}})
	requireDomainCode(t, err, apperrors.CodeNotFound)
}

func TestUnresolvedIssuesFollowVisibility(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))
	ctx := context.Background()

	job, err := f.svc.UpdateJob(ctx, resumeUser, "job-1", JobUpdateInput{
		Comment: &CommentInput{Body: "client sent wrong transcript", IsIssue: true},
	})
	require.NoError(t, err)

	issues, err := f.svc.UnresolvedIssues(ctx, adminUser)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "job-1", issues[0].Job.ID)

	issues, err = f.svc.UnresolvedIssues(ctx, linkedInUser)
	require.NoError(t, err)
	assert.Empty(t, issues)

	job, err = f.svc.UpdateJob(ctx, leadUser, "job-1", JobUpdateInput{ResolveCommentID: strPtr(job.Comments[0].ID)})
	require.NoError(t, err)
	assert.True(t, job.Comments[0].Resolved)
	require.NotNil(t, job.Comments[0].ResolvedBy)
	assert.Equal(t, leadUser.Email, *job.Comments[0].ResolvedBy)

	issues, err = f.svc.UnresolvedIssues(ctx, adminUser)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestListJobsScopedByRole(t *testing.T) {
	forked := testJob("j2", domain.PlanExecutive, domain.StatusResumeApproved)
	forked.LinkedInPhaseStarted = true
	f := newOnboardingFixture(t,
		testJob("j1", domain.PlanExecutive, domain.StatusResumeInProgress),
		forked,
		testJob("j3", domain.PlanExecutive, domain.StatusResumeApproved),
		testJob("j4", domain.PlanExecutive, domain.StatusLinkedInInProgress),
		testJob("j5", domain.PlanExecutive, domain.StatusCompleted),
	)
	ctx := context.Background()

	ids := func(jobs []domain.Job) []string {
		out := make([]string, 0, len(jobs))
		for _, job := range jobs {
			out = append(out, job.ID)
		}
		return out
	}

	jobs, err := f.svc.ListJobs(ctx, resumeUser, JobListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j2", "j3"}, ids(jobs))

	_, err = f.svc.RequestMove(ctx, linkedInUser, "j4", domain.StatusLinkedInDone)
	require.NoError(t, err)

	jobs, err = f.svc.ListJobs(ctx, linkedInUser, JobListFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"j2", "j4"}, ids(jobs))
	assert.Nil(t, jobs[0].PendingMoveRequest)
	require.NotNil(t, jobs[1].PendingMoveRequest)

	jobs, err = f.svc.ListJobs(ctx, internUser, JobListFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 5)

	jobs, err = f.svc.ListJobs(ctx, resumeUser, JobListFilter{Statuses: []domain.OnboardingStatus{domain.StatusCompleted}})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = f.svc.ListJobs(ctx, domain.User{Role: domain.RoleOnboardingTeam}, JobListFilter{})
	requireDomainCode(t, err, apperrors.CodeForbidden)
}

func TestGetJobServesFromCacheUntilMutation(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))
	ctx := context.Background()

	job, err := f.svc.GetJob(ctx, adminUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Client job-1", job.ClientName)

	changed := testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress)
	changed.ClientName = "Changed behind the cache"
	f.jobs.put(changed)

	job, err = f.svc.GetJob(ctx, adminUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Client job-1", job.ClientName)

	job, err = f.svc.UpdateJob(ctx, adminUser, "job-1", JobUpdateInput{ClientName: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", job.ClientName)

	job, err = f.svc.GetJob(ctx, adminUser, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", job.ClientName)
}

func TestGetJobHiddenFromOtherTeam(t *testing.T) {
	f := newOnboardingFixture(t, testJob("job-1", domain.PlanExecutive, domain.StatusResumeInProgress))

	_, err := f.svc.GetJob(context.Background(), linkedInUser, "job-1")
	requireDomainCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.GetJob(context.Background(), adminUser, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateJobAllocatesNumbers(t *testing.T) {
	f := newOnboardingFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateJob(ctx, csmUser, JobCreateInput{ClientEmail: " New@Client.TEST ", ClientName: "New Client"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.JobNumber)
	assert.Equal(t, "new@client.test", first.ClientEmail)
	assert.Equal(t, domain.PlanDefault, first.PlanType)
	assert.Equal(t, domain.StatusResumeInProgress, first.Status)

	second, err := f.svc.CreateJob(ctx, adminUser, JobCreateInput{ClientEmail: "b@client.test", ClientName: "B", PlanType: domain.PlanExecutive})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.JobNumber)

	_, err = f.svc.CreateJob(ctx, internUser, JobCreateInput{ClientEmail: "c@client.test", ClientName: "C"})
	requireDomainCode(t, err, apperrors.CodeForbidden)

	_, err = f.svc.CreateJob(ctx, adminUser, JobCreateInput{ClientEmail: "", ClientName: "C"})
	requireDomainCode(t, err, apperrors.CodeValidation)
}

func TestRolesDirectory(t *testing.T) {
	f := newOnboardingFixture(t)

	dir, err := f.svc.Roles(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Mentionable, 6)
	require.Len(t, dir.CSMs, 1)
	assert.Equal(t, csmUser.Email, dir.CSMs[0].Email)
	require.Len(t, dir.TeamLeads, 1)
	assert.Equal(t, leadUser.Email, dir.TeamLeads[0].Email)
	require.Len(t, dir.ResumeMakers, 1)
	assert.Equal(t, resumeUser.Email, dir.ResumeMakers[0].Email)
	require.Len(t, dir.LinkedInMembers, 1)
	assert.Equal(t, linkedInUser.Email, dir.LinkedInMembers[0].Email)
}
