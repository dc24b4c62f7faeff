package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"seo-monitor/pkg/logger"
)

// Warmer re-fetches every monitored domain.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Refresher warms the stats cache on a fixed interval so page loads rarely
// wait on the vendor API.
type Refresher struct {
	scheduler gocron.Scheduler
	warmer    Warmer
	interval  time.Duration
	started   bool
	log       *logger.Logger
}

func NewRefresher(interval time.Duration, warmer Warmer) (*Refresher, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Refresher{
		scheduler: s,
		warmer:    warmer,
		interval:  interval,
		log:       logger.GetLogger().WithField("component", "refresher"),
	}, nil
}

// Start schedules the refresh job, running it once immediately. A zero
// interval disables refreshing.
func (r *Refresher) Start(ctx context.Context) error {
	if r.interval <= 0 {
		r.log.Info("Periodic refresh disabled")
		return nil
	}

	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.refresh(ctx) }),
		gocron.WithName("stats-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	r.scheduler.Start()
	r.started = true
	r.log.WithField("interval", r.interval.String()).Info("Periodic refresh started")
	return nil
}

// Stop waits for a running refresh to finish.
func (r *Refresher) Stop() error {
	if !r.started {
		return nil
	}
	r.started = false
	return r.scheduler.Shutdown()
}

func (r *Refresher) refresh(ctx context.Context) {
	start := time.Now()
	if err := r.warmer.Warm(ctx); err != nil {
		r.log.WithError(err).Warn("Stats refresh failed")
		return
	}
	r.log.WithField("duration", time.Since(start).String()).Debug("Stats refreshed")
}
