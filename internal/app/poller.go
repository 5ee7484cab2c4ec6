package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/playercard/internal/profile"
	"github.com/five82/playercard/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 30 * time.Second
)

// Loader fetches the remote profile. profile.Store satisfies it.
type Loader interface {
	Load(ctx context.Context) (profile.Record, error)
}

// Poller refreshes the snapshot store from the profile service, backing off
// while the service is unreachable.
type Poller struct {
	store    *state.Store
	loader   Loader
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(store *state.Store, loader Loader, interval, timeout time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{store: store, loader: loader, interval: interval, timeout: timeout, log: log}
}

// Run polls until ctx is cancelled. It waits one interval before the first
// fetch; callers wanting data up front call Refresh first.
func (p *Poller) Run(ctx context.Context) error {
	timer := time.NewTimer(p.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		p.Refresh(ctx)
		timer.Reset(p.nextDelay())
	}
}

// Refresh performs one fetch and publishes the outcome.
func (p *Poller) Refresh(ctx context.Context) {
	ticket := p.store.Begin()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	rec, err := p.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.store.Update(ticket, nil, err)
		p.log.Warn().Err(err).Str("event", "poll.failed").Msg("profile poll failed")
		return
	}
	if !p.store.Update(ticket, &rec, nil) {
		p.log.Debug().Uint64("ticket", ticket).Str("event", "poll.dropped").Msg("poll result predates a save")
	}
}

func (p *Poller) nextDelay() time.Duration {
	return calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval)
}

// calculateBackoff doubles the base interval per consecutive failure, capped at
// maxBackoff. The cap never shortens a base interval that already exceeds it.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
