package board

import (
	"context"
	"errors"
	"sync"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

var errBackendDown = errors.New("backend unavailable")

type fakeBackend struct {
	mu        sync.Mutex
	jobs      map[string]domain.Job
	fail      bool
	moves     []domain.OnboardingStatus
	requests  []domain.OnboardingStatus
	fetches   map[string]int
	listCalls int
	roles     domain.RoleDirectory
	block     chan struct{}
}

func newFakeBackend(jobs ...domain.Job) *fakeBackend {
	b := &fakeBackend{jobs: make(map[string]domain.Job), fetches: make(map[string]int)}
	for _, job := range jobs {
		b.jobs[job.ID] = job
	}
	return b
}

func (b *fakeBackend) ListJobs(ctx context.Context) ([]domain.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++
	if b.fail {
		return nil, errBackendDown
	}
	out := make([]domain.Job, 0, len(b.jobs))
	for _, job := range b.jobs {
		out = append(out, job)
	}
	return out, nil
}

func (b *fakeBackend) GetJob(ctx context.Context, id string) (domain.Job, error) {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches[id]++
	job, ok := b.jobs[id]
	if !ok || b.fail {
		return domain.Job{}, errBackendDown
	}
	return job, nil
}

func (b *fakeBackend) MoveJob(ctx context.Context, id string, target domain.OnboardingStatus, mode string) (domain.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return domain.Job{}, errBackendDown
	}
	b.moves = append(b.moves, target)
	job := b.jobs[id]
	job.Status = target
	b.jobs[id] = job
	return job, nil
}

func (b *fakeBackend) RequestMove(ctx context.Context, id string, target domain.OnboardingStatus) (domain.MoveRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return domain.MoveRequest{}, errBackendDown
	}
	b.requests = append(b.requests, target)
	return domain.MoveRequest{ID: "mr-1", JobID: id, ToStatus: target, State: domain.MoveRequestPending}, nil
}

func (b *fakeBackend) EditComment(ctx context.Context, jobID, commentID, body string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errBackendDown
	}
	return nil
}

func (b *fakeBackend) RenameClient(ctx context.Context, jobID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errBackendDown
	}
	return nil
}

func (b *fakeBackend) Roles(ctx context.Context) (domain.RoleDirectory, error) {
	return b.roles, nil
}

func (b *fakeBackend) setFail(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = fail
}

func (b *fakeBackend) fetchCount(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches[id]
}
