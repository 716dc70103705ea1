package board

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often the board reconciles with the server.
const DefaultPollInterval = 30 * time.Second

// Poller periodically reloads jobs into the store. Concurrent edits by
// other users are reconciled here: the server's latest record wins.
type Poller struct {
	store    *Store
	backend  Backend
	interval time.Duration
	logger   *zap.Logger
}

// NewPoller builds a poller; interval <= 0 uses DefaultPollInterval.
func NewPoller(store *Store, backend Backend, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{store: store, backend: backend, interval: interval, logger: logger}
}

// Refresh loads jobs and role directories once.
func (p *Poller) Refresh(ctx context.Context) error {
	p.store.SetLoading(true)
	defer p.store.SetLoading(false)

	jobs, err := p.backend.ListJobs(ctx)
	if err != nil {
		return err
	}
	p.store.SetJobs(jobs)

	roles, err := p.backend.Roles(ctx)
	if err != nil {
		p.logger.Warn("role directory refresh failed", zap.Error(err))
		return nil
	}
	p.store.SetRoles(roles)
	return nil
}

// Run refreshes immediately and then on every tick until ctx ends. Failed
// refreshes are logged and the previous state is kept. onRefresh, if set, is
// called after each successful refresh.
func (p *Poller) Run(ctx context.Context, onRefresh func()) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("board refresh failed", zap.Error(err))
		} else if onRefresh != nil {
			onRefresh()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
