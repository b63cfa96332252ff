// Package liveness periodically marks devices that stopped reporting as inactive.
package liveness

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/telemetry"
)

// Marker flips stale devices to inactive in one bulk update.
type Marker interface {
	MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper runs the liveness sweep on a fixed interval.
type Sweeper struct {
	repo          Marker
	interval      time.Duration
	inactiveAfter time.Duration
	emitter       telemetry.EventEmitter
	now           func() time.Time
}

// NewSweeper returns a Sweeper that every interval marks devices silent for longer than inactiveAfter.
// emitter may be nil.
func NewSweeper(repo Marker, interval, inactiveAfter time.Duration, emitter telemetry.EventEmitter) *Sweeper {
	return &Sweeper{
		repo:          repo,
		interval:      interval,
		inactiveAfter: inactiveAfter,
		emitter:       emitter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// SweepOnce marks devices whose lastActive is older than now-inactiveAfter and returns how many changed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.inactiveAfter)
	n, err := s.repo.MarkInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.WithFields(log.Fields{"count": n, "cutoff": cutoff}).Info("liveness: devices marked inactive")
		if ev, err := telemetry.NewEvent(telemetry.EventDevicesSwept, "sweeper", map[string]any{"count": n}); err == nil {
			telemetry.EmitAsync(s.emitter, ctx, ev)
		}
	}
	return n, nil
}

// Run sweeps every interval until ctx is cancelled. A failed sweep is logged and the loop continues.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.WithFields(log.Fields{"interval": s.interval, "inactive_after": s.inactiveAfter}).Info("liveness: sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info("liveness: sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("liveness: sweep failed")
			}
		}
	}
}
