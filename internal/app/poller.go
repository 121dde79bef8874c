package app

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/kiosk/internal/api"
	"github.com/five82/kiosk/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that refreshes the store until
// ctx is cancelled. Consecutive failures stretch the delay between polls.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, monitor api.Monitor, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			refresh(ctx, store, monitor, log)
			failures := store.Snapshot().ConsecutiveFailures
			delay := calculateBackoff(failures, interval)
			if failures > 0 {
				log.Debug().Int("failures", failures).Dur("delay", delay).Msg("poll backing off")
			}
			timer.Reset(delay)
		}
	}()
}

// refresh fetches health and the monitoring overview concurrently and records
// the outcome. Either call failing counts as one failed poll.
func refresh(ctx context.Context, store *state.Store, monitor api.Monitor, log zerolog.Logger) error {
	var (
		health   api.Health
		overview api.Overview
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		health, err = monitor.Health(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview, err = monitor.Overview(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return err
		}
		store.Update(nil, nil, err)
		log.Warn().Err(err).Msg("monitor poll failed")
		return err
	}
	store.Update(&health, &overview, nil)
	return nil
}

// calculateBackoff returns the delay before the next poll: base after a
// success, doubling per consecutive failure and capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if base >= maxBackoff {
		return base
	}
	if failures < 0 {
		failures = 0
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	delay := base
	for i := 0; i <= failures; i++ {
		delay = b.NextBackOff()
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
