package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/domain"
)

// DefaultPrefetchDelay is the hover debounce before a detail prefetch.
const DefaultPrefetchDelay = 200 * time.Millisecond

// ErrStale is returned when the job was deselected before its load finished.
var ErrStale = errors.New("detail load discarded: job no longer selected")

// Fetcher loads a single job's detail.
type Fetcher func(ctx context.Context, id string) (domain.Job, error)

// DetailCache keeps prefetched job details keyed by id.
type DetailCache struct {
	mu      sync.Mutex
	entries map[string]domain.Job
	timers  map[string]*time.Timer
	gens    map[string]uint64
	fetch   Fetcher
	delay   time.Duration
	logger  *zap.Logger
}

// NewDetailCache builds a cache; delay <= 0 uses DefaultPrefetchDelay.
func NewDetailCache(fetch Fetcher, delay time.Duration, logger *zap.Logger) *DetailCache {
	if delay <= 0 {
		delay = DefaultPrefetchDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailCache{
		entries: make(map[string]domain.Job),
		timers:  make(map[string]*time.Timer),
		gens:    make(map[string]uint64),
		fetch:   fetch,
		delay:   delay,
		logger:  logger,
	}
}

// Hover schedules a prefetch for id. Repeated hovers within the delay
// restart the timer; cached ids are not refetched.
func (c *DetailCache) Hover(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		return
	}
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
	}
	c.timers[id] = time.AfterFunc(c.delay, func() { c.prefetch(id) })
}

// Leave cancels a pending prefetch.
func (c *DetailCache) Leave(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
}

// Get returns a cached detail.
func (c *DetailCache) Get(id string) (domain.Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.entries[id]
	if !ok {
		return domain.Job{}, false
	}
	return job.Clone(), true
}

// Put stores a detail.
func (c *DetailCache) Put(job domain.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[job.ID] = job.Clone()
}

// Invalidate drops a cached detail after the job was mutated. Fetches already
// in flight for id will not repopulate the cache.
func (c *DetailCache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[id]++
	delete(c.entries, id)
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
}

// Open selects id in store and returns its detail, from cache when
// possible. A fetched result is dropped with ErrStale if the selection moved
// on while the request was in flight.
func (c *DetailCache) Open(ctx context.Context, store *Store, id string) (domain.Job, error) {
	store.SetSelectedJob(id)
	if job, ok := c.Get(id); ok {
		return job, nil
	}
	gen := c.generation(id)
	job, err := c.fetch(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if !store.IsSelected(id) {
		return domain.Job{}, ErrStale
	}
	c.putIfCurrent(job, gen)
	return job, nil
}

func (c *DetailCache) prefetch(id string) {
	c.mu.Lock()
	delete(c.timers, id)
	gen := c.gens[id]
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	job, err := c.fetch(ctx, id)
	if err != nil {
		c.logger.Debug("prefetch failed", zap.String("job_id", id), zap.Error(err))
		return
	}
	if !c.putIfCurrent(job, gen) {
		c.logger.Debug("prefetch discarded after invalidation", zap.String("job_id", id))
	}
}

func (c *DetailCache) generation(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id]
}

// putIfCurrent stores job unless id was invalidated since gen was read.
func (c *DetailCache) putIfCurrent(job domain.Job, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[job.ID] != gen {
		return false
	}
	c.entries[job.ID] = job.Clone()
	return true
}
