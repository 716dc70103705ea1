// Package board holds the client-side view of the onboarding board: the job
// cache, the selected job, role directories, optimistic mutations and the
// background refresh loop.
package board

import (
	"sort"
	"strings"
	"sync"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// Card is a job placed in a column. Forked cards are resume_approved jobs
// shown in the LinkedIn column because the LinkedIn phase already started.
type Card struct {
	Job    domain.Job
	Forked bool
}

// Column is one visible pipeline stage with its cards.
type Column struct {
	Status domain.OnboardingStatus
	Cards  []Card
}

// Store is the session's cache of board state.
type Store struct {
	mu         sync.RWMutex
	jobs       []domain.Job
	index      map[string]int
	selectedID string
	roles      domain.RoleDirectory
	loading    bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// SetJobs replaces the cached jobs, collapsing duplicate records.
func (s *Store) SetJobs(jobs []domain.Job) {
	deduped := Dedupe(jobs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = deduped
	s.reindex()
}

// Upsert inserts or replaces a single job.
func (s *Store) Upsert(job domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[job.ID]; ok {
		s.jobs[i] = job.Clone()
		return
	}
	s.jobs = append(s.jobs, job.Clone())
	s.index[job.ID] = len(s.jobs) - 1
}

// Jobs returns a copy of every cached job.
func (s *Store) Jobs() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Job, len(s.jobs))
	for i, job := range s.jobs {
		out[i] = job.Clone()
	}
	return out
}

// Job looks up a cached job by id.
func (s *Store) Job(id string) (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Job{}, false
	}
	return s.jobs[i].Clone(), true
}

// Mutate applies fn to the cached job and returns the pre-mutation snapshot.
func (s *Store) Mutate(id string, fn func(*domain.Job)) (domain.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Job{}, false
	}
	before := s.jobs[i].Clone()
	fn(&s.jobs[i])
	return before, true
}

// JobsByStatus returns cached jobs currently in status.
func (s *Store) JobsByStatus(status domain.OnboardingStatus) []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Job, 0)
	for _, job := range s.jobs {
		if job.Status == status {
			out = append(out, job.Clone())
		}
	}
	return out
}

// Columns lays the cached jobs out over the visible statuses.
func (s *Store) Columns(visible []domain.OnboardingStatus) []Column {
	return ColumnsFor(s.Jobs(), visible)
}

// SetSelectedJob marks the job shown in the detail panel.
func (s *Store) SetSelectedJob(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// SelectedJob returns the selected job if it is still cached.
func (s *Store) SelectedJob() (domain.Job, bool) {
	s.mu.RLock()
	id := s.selectedID
	s.mu.RUnlock()
	if id == "" {
		return domain.Job{}, false
	}
	return s.Job(id)
}

// IsSelected reports whether id is the selected job.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id != "" && s.selectedID == id
}

// ClearSelected closes the detail panel.
func (s *Store) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
}

// SetRoles stores the role directories.
func (s *Store) SetRoles(roles domain.RoleDirectory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = roles
}

// Roles returns the role directories.
func (s *Store) Roles() domain.RoleDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles
}

// SetLoading flags an in-flight full load.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a full load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.jobs))
	for i, job := range s.jobs {
		s.index[job.ID] = i
	}
}

// Dedupe collapses records describing the same job, keeping the most
// recently updated one in the position the job was first seen. Records are
// keyed by id; records without an id are keyed by client email and status.
func Dedupe(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	positions := make(map[string]int, len(jobs))
	for _, job := range jobs {
		key := dedupeKey(job)
		if i, seen := positions[key]; seen {
			if job.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = job.Clone()
			}
			continue
		}
		positions[key] = len(out)
		out = append(out, job.Clone())
	}
	return out
}

func dedupeKey(job domain.Job) string {
	if job.ID != "" {
		return "id:" + job.ID
	}
	return "client:" + strings.ToLower(job.ClientEmail) + "|" + string(job.Status)
}

// ColumnsFor builds one column per visible status. A resume_approved job
// whose LinkedIn phase has started also appears, forked, under
// linkedin_in_progress; its status is unchanged.
func ColumnsFor(jobs []domain.Job, visible []domain.OnboardingStatus) []Column {
	columns := make([]Column, 0, len(visible))
	for _, status := range visible {
		column := Column{Status: status, Cards: []Card{}}
		for _, job := range jobs {
			switch {
			case job.Status == status:
				column.Cards = append(column.Cards, Card{Job: job})
			case status == domain.StatusLinkedInInProgress &&
				job.Status == domain.StatusResumeApproved && job.LinkedInPhaseStarted:
				column.Cards = append(column.Cards, Card{Job: job, Forked: true})
			}
		}
		sort.SliceStable(column.Cards, func(a, b int) bool {
			return column.Cards[a].Job.UpdatedAt.After(column.Cards[b].Job.UpdatedAt)
		})
		columns = append(columns, column)
	}
	return columns
}
