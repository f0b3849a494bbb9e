package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kalambet/filmdeck/internal/listfetch"
)

// Refresher is the trigger the poller fires.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Poller refreshes a screen on a fixed interval.
type Poller struct {
	target   Refresher
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Poller. If interval is <= 0 it defaults to one hour.
func New(target Refresher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Poller{
		target:   target,
		interval: interval,
		logger:   slog.Default(),
	}
}

// Run refreshes every interval until ctx is cancelled. The first refresh
// happens one interval after start; the initial load belongs to whoever
// activated the screen.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single refresh. Fetch failures stay in the screen
// state; they are only logged here.
func (p *Poller) RunOnce(ctx context.Context) error {
	err := p.target.Refresh(ctx)
	switch {
	case err == nil:
		p.logger.Debug("scheduled refresh done")
	case errors.Is(err, listfetch.ErrSuperseded):
		p.logger.Debug("scheduled refresh superseded")
	default:
		p.logger.Warn("scheduled refresh failed", "error", err)
	}
	return err
}
