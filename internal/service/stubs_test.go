package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/repository"
)

type jobRepoStub struct {
	jobs map[string]*domain.Job
	seq  int
}

func newJobRepoStub() *jobRepoStub {
	return &jobRepoStub{jobs: make(map[string]*domain.Job)}
}

func (r *jobRepoStub) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		r.seq++
		job.ID = fmt.Sprintf("job-%d", r.seq)
	}
	now := time.Now()
	job.CreatedAt, job.UpdatedAt = now, now
	stored := job.Clone()
	r.jobs[job.ID] = &stored
	return nil
}

func (r *jobRepoStub) Update(ctx context.Context, job *domain.Job) error {
	if _, ok := r.jobs[job.ID]; !ok {
		return pgx.ErrNoRows
	}
	job.UpdatedAt = time.Now()
	stored := job.Clone()
	stored.Comments, stored.MoveHistory, stored.Attachments, stored.PendingMoveRequest = nil, nil, nil, nil
	r.jobs[job.ID] = &stored
	return nil
}

func (r *jobRepoStub) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := job.Clone()
	return &out, nil
}

func (r *jobRepoStub) List(ctx context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	var out []domain.Job
	for _, job := range r.jobs {
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, job.Status) {
			continue
		}
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *jobRepoStub) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	counts := make(map[domain.OnboardingStatus]int)
	for _, job := range r.jobs {
		counts[job.Status]++
	}
	var out []repository.StatusCount
	for status, n := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

// put stores a job as is, for seeding.
func (r *jobRepoStub) put(job domain.Job) {
	stored := job.Clone()
	r.jobs[job.ID] = &stored
}

type commentRepoStub struct {
	comments []*domain.Comment
}

func (r *commentRepoStub) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = fmt.Sprintf("comment-%d", len(r.comments)+1)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *commentRepoStub) Update(ctx context.Context, comment *domain.Comment) error {
	for i, c := range r.comments {
		if c.ID == comment.ID {
			stored := *comment
			r.comments[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *commentRepoStub) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *commentRepoStub) ListByJob(ctx context.Context, jobID string) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, c := range r.comments {
		if c.JobID == jobID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *commentRepoStub) ListUnresolvedIssues(ctx context.Context, limit int) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, c := range r.comments {
		if c.IsIssue && !c.Resolved {
			out = append(out, *c)
		}
	}
	return out, nil
}

type historyRepoStub struct {
	entries []domain.MoveHistoryEntry
	err     error
}

func (r *historyRepoStub) Create(ctx context.Context, entry *domain.MoveHistoryEntry) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = fmt.Sprintf("history-%d", len(r.entries)+1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *historyRepoStub) ListByJob(ctx context.Context, jobID string) ([]domain.MoveHistoryEntry, error) {
	out := []domain.MoveHistoryEntry{}
	for _, e := range r.entries {
		if e.JobID == jobID {
			out = append(out, e)
		}
	}
	return out, nil
}

type attachmentRepoStub struct {
	attachments []domain.Attachment
}

func (r *attachmentRepoStub) Create(ctx context.Context, attachment *domain.Attachment) error {
	attachment.ID = fmt.Sprintf("attachment-%d", len(r.attachments)+1)
	attachment.CreatedAt = time.Now()
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *attachmentRepoStub) ListByJob(ctx context.Context, jobID string) ([]domain.Attachment, error) {
	out := []domain.Attachment{}
	for _, a := range r.attachments {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

type moveRequestRepoStub struct {
	requests []*domain.MoveRequest
	// afterRead runs once a pending request has been handed out.
	afterRead func(stored *domain.MoveRequest)
}

func (r *moveRequestRepoStub) Create(ctx context.Context, req *domain.MoveRequest) error {
	for _, existing := range r.requests {
		if existing.JobID == req.JobID && existing.State == domain.MoveRequestPending {
			return repository.ErrPendingMoveRequest
		}
	}
	req.ID = fmt.Sprintf("request-%d", len(r.requests)+1)
	req.CreatedAt = time.Now()
	stored := *req
	r.requests = append(r.requests, &stored)
	return nil
}

func (r *moveRequestRepoStub) Update(ctx context.Context, req *domain.MoveRequest) error {
	for i, existing := range r.requests {
		if existing.ID == req.ID && existing.State == domain.MoveRequestPending {
			stored := *req
			r.requests[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *moveRequestRepoStub) GetPendingByJob(ctx context.Context, jobID string) (*domain.MoveRequest, error) {
	for _, existing := range r.requests {
		if existing.JobID == jobID && existing.State == domain.MoveRequestPending {
			out := *existing
			if r.afterRead != nil {
				r.afterRead(existing)
			}
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *moveRequestRepoStub) ListPending(ctx context.Context) ([]domain.MoveRequest, error) {
	out := []domain.MoveRequest{}
	for _, existing := range r.requests {
		if existing.State == domain.MoveRequestPending {
			out = append(out, *existing)
		}
	}
	return out, nil
}

type userRepoStub struct {
	users []*domain.User
}

func newUserRepoStub(users ...domain.User) *userRepoStub {
	r := &userRepoStub{}
	for i := range users {
		u := users[i]
		if u.ID == "" {
			u.ID = fmt.Sprintf("user-%d", i+1)
		}
		r.users = append(r.users, &u)
	}
	return r
}

func (r *userRepoStub) Create(ctx context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *userRepoStub) Update(ctx context.Context, user *domain.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			stored := *user
			r.users[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *userRepoStub) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepoStub) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *userRepoStub) List(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.users {
		if activeOnly && !u.Active {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

type counterRepoStub struct {
	values map[string]int64
}

func newCounterRepoStub() *counterRepoStub {
	return &counterRepoStub{values: make(map[string]int64)}
}

func (r *counterRepoStub) Next(ctx context.Context, name string) (int64, error) {
	r.values[name]++
	return r.values[name], nil
}

type notificationRepoStub struct {
	notifications []domain.Notification
}

func (r *notificationRepoStub) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = fmt.Sprintf("notification-%d", len(r.notifications)+1)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *notificationRepoStub) ListByRecipient(ctx context.Context, email string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	for _, n := range r.notifications {
		if strings.EqualFold(n.RecipientEmail, email) && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationRepoStub) MarkRead(ctx context.Context, id, recipientEmail string) error {
	for i, n := range r.notifications {
		if n.ID == id && strings.EqualFold(n.RecipientEmail, recipientEmail) {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *notificationRepoStub) recipients(kind domain.NotificationKind) []string {
	var out []string
	for _, n := range r.notifications {
		if n.Kind == kind {
			out = append(out, n.RecipientEmail)
		}
	}
	sort.Strings(out)
	return out
}

type sessionKeyRepoStub struct {
	keys []*domain.SessionKey
}

func (r *sessionKeyRepoStub) Create(ctx context.Context, key *domain.SessionKey) error {
	key.ID = fmt.Sprintf("key-%d", len(r.keys)+1)
	key.CreatedAt = time.Now()
	stored := *key
	r.keys = append(r.keys, &stored)
	return nil
}

func (r *sessionKeyRepoStub) ListByEmail(ctx context.Context, email string) ([]domain.SessionKey, error) {
	out := []domain.SessionKey{}
	for _, k := range r.keys {
		if strings.EqualFold(k.UserEmail, email) {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (r *sessionKeyRepoStub) ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]domain.SessionKey, error) {
	out := []domain.SessionKey{}
	for _, k := range r.keys {
		if strings.EqualFold(k.UserEmail, email) && !k.Revoked && k.ExpiresAt.After(now) {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (r *sessionKeyRepoStub) MarkUsed(ctx context.Context, id string, at time.Time) error {
	for _, k := range r.keys {
		if k.ID == id {
			used := at
			k.LastUsedAt = &used
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *sessionKeyRepoStub) RevokeAll(ctx context.Context, email string) error {
	for _, k := range r.keys {
		if strings.EqualFold(k.UserEmail, email) {
			k.Revoked = true
		}
	}
	return nil
}

type clientRepoStub struct {
	clients []*domain.Client
}

func (r *clientRepoStub) Create(ctx context.Context, client *domain.Client) error {
	client.ID = fmt.Sprintf("client-%d", len(r.clients)+1)
	client.CreatedAt = time.Now()
	stored := *client
	r.clients = append(r.clients, &stored)
	return nil
}

func (r *clientRepoStub) Update(ctx context.Context, client *domain.Client) error {
	for i, c := range r.clients {
		if c.ID == client.ID {
			stored := *client
			r.clients[i] = &stored
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *clientRepoStub) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	for _, c := range r.clients {
		if strings.EqualFold(c.Email, email) {
			out := *c
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *clientRepoStub) List(ctx context.Context) ([]domain.Client, error) {
	out := []domain.Client{}
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

type applicationRepoStub struct {
	apps   []domain.Application
	filter repository.ApplicationFilter
}

func (r *applicationRepoStub) Create(ctx context.Context, app *domain.Application) error {
	app.ID = fmt.Sprintf("app-%d", len(r.apps)+1)
	app.CreatedAt = time.Now()
	r.apps = append(r.apps, *app)
	return nil
}

func (r *applicationRepoStub) List(ctx context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	r.filter = filter
	out := []domain.Application{}
	for _, app := range r.apps {
		if filter.ClientEmail != nil && !strings.EqualFold(app.ClientEmail, *filter.ClientEmail) {
			continue
		}
		if filter.From != nil && app.AppliedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && app.AppliedAt.After(*filter.To) {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

type otpCode struct {
	hash     string
	attempts int64
}

type otpStoreStub struct {
	codes map[string]*otpCode
	trust map[string]domain.OTPTrust
}

func newOTPStoreStub() *otpStoreStub {
	return &otpStoreStub{codes: make(map[string]*otpCode), trust: make(map[string]domain.OTPTrust)}
}

func (s *otpStoreStub) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	s.codes[strings.ToLower(email)] = &otpCode{hash: codeHash}
	return nil
}

func (s *otpStoreStub) CodeHash(ctx context.Context, email string) (string, error) {
	code, ok := s.codes[strings.ToLower(email)]
	if !ok {
		return "", repository.ErrOTPNotFound
	}
	return code.hash, nil
}

func (s *otpStoreStub) IncrAttempts(ctx context.Context, email string) (int64, error) {
	code, ok := s.codes[strings.ToLower(email)]
	if !ok {
		return 0, repository.ErrOTPNotFound
	}
	code.attempts++
	return code.attempts, nil
}

func (s *otpStoreStub) DeleteCode(ctx context.Context, email string) error {
	delete(s.codes, strings.ToLower(email))
	return nil
}

func (s *otpStoreStub) SaveTrust(ctx context.Context, trust domain.OTPTrust, ttl time.Duration) error {
	s.trust[trust.TrustToken] = trust
	return nil
}

func (s *otpStoreStub) GetTrust(ctx context.Context, token string) (*domain.OTPTrust, error) {
	trust, ok := s.trust[token]
	if !ok {
		return nil, repository.ErrOTPNotFound
	}
	return &trust, nil
}

type jobCacheStub struct {
	jobs        map[string]domain.Job
	invalidated []string
}

func newJobCacheStub() *jobCacheStub {
	return &jobCacheStub{jobs: make(map[string]domain.Job)}
}

func (c *jobCacheStub) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := c.jobs[id]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	out := job.Clone()
	return &out, nil
}

func (c *jobCacheStub) Set(ctx context.Context, job *domain.Job) error {
	c.jobs[job.ID] = job.Clone()
	return nil
}

func (c *jobCacheStub) Invalidate(ctx context.Context, id string) error {
	delete(c.jobs, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type enqueuerStub struct {
	mu     sync.Mutex
	queued []domain.Notification
	err    error
}

func (e *enqueuerStub) EnqueueNotification(ctx context.Context, n domain.Notification) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.queued = append(e.queued, n)
	return nil
}

// txStub snapshots the job and request stubs and restores them when fn
// fails.
type txStub struct {
	jobs     *jobRepoStub
	requests *moveRequestRepoStub
	calls    int
}

func (t *txStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	jobs := make(map[string]*domain.Job, len(t.jobs.jobs))
	for id, job := range t.jobs.jobs {
		stored := job.Clone()
		jobs[id] = &stored
	}
	requests := make([]*domain.MoveRequest, 0, len(t.requests.requests))
	for _, req := range t.requests.requests {
		stored := *req
		requests = append(requests, &stored)
	}
	if err := fn(ctx); err != nil {
		t.jobs.jobs = jobs
		t.requests.requests = requests
		return err
	}
	return nil
}
