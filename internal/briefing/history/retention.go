package history

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/traininggrounds/internal/telemetry/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

type cleaner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Retention periodically removes briefing events older than the retention period.
type Retention struct {
	cleaner        cleaner
	retentionDays  int
	interval       time.Duration
	clock          clockwork.Clock
	metricsManager *metrics.Manager

	scheduler gocron.Scheduler
}

func NewRetention(
	cleaner cleaner,
	retentionDays int,
	interval time.Duration,
	clock clockwork.Clock,
	metricsManager *metrics.Manager,
) *Retention {
	return &Retention{
		cleaner:        cleaner,
		retentionDays:  retentionDays,
		interval:       interval,
		clock:          clock,
		metricsManager: metricsManager,
	}
}

// Cleanup runs a single retention pass.
func (r *Retention) Cleanup(ctx context.Context) (int64, error) {
	before := cutoff(r.clock.Now(), r.retentionDays)
	deleted, err := r.cleaner.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("delete briefing events before %s: %w", before, err)
	}
	if r.metricsManager != nil {
		r.metricsManager.CounterHistoryCleaned.Add(float64(deleted))
	}
	return deleted, nil
}

// Start schedules Cleanup every interval, starting immediately.
func (r *Retention) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("new scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			deleted, err := r.Cleanup(ctx)
			if err != nil {
				log.Errorf("=> briefing history retention: %s", err)
				return
			}
			log.Debugf("=> briefing history retention, removed %d events", deleted)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("new retention job: %w", err)
	}

	scheduler.Start()
	r.scheduler = scheduler
	return nil
}

func (r *Retention) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}

func cutoff(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, -retentionDays)
}
