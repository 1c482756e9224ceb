package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/store"
)

var schedulerNopLogger = zerolog.Nop()

// DueLister lists subscriptions whose renewal window has opened.
type DueLister interface {
	DueSubscriptions(ctx context.Context, before time.Time, limit int) ([]store.SubscriptionRecord, error)
}

// TaskEnqueuer is the slice of asynq.Client the scheduler needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler periodically turns due subscriptions into renewal tasks. Task ids
// are derived from the subscription so a tick that overlaps with a slow
// predecessor cannot enqueue the same renewal twice.
type Scheduler struct {
	Store     DueLister
	Tasks     TaskEnqueuer
	LeadTime  time.Duration
	BatchSize int
	Log       *zerolog.Logger
}

// EnqueueDue enqueues renewal tasks for every due subscription and returns
// the number enqueued.
func (s *Scheduler) EnqueueDue(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(s.LeadTime)
	due, err := s.Store.DueSubscriptions(ctx, cutoff, s.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("list due subscriptions: %w", err)
	}

	enqueued := 0
	for _, sub := range due {
		task, err := NewRenewalTask(sub.ID)
		if err != nil {
			return enqueued, err
		}
		// subscriptions inside the lead window but not yet due are held by
		// asynq until their renewal instant
		_, err = s.Tasks.EnqueueContext(ctx, task,
			asynq.Queue(QueueRenewals),
			asynq.TaskID("renew:"+sub.ID.String()+":"+sub.NextRenewalAt.UTC().Format(time.RFC3339)),
			asynq.ProcessAt(sub.NextRenewalAt),
			asynq.MaxRetry(5),
		)
		if err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			return enqueued, fmt.Errorf("enqueue renewal %s: %w", sub.ID, err)
		}
		enqueued++
	}
	if enqueued > 0 {
		s.logger().Info().Int("count", enqueued).Msg("renewals_enqueued")
	}
	return enqueued, nil
}

// Run loops EnqueueDue on the given interval until the context is canceled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.EnqueueDue(ctx); err != nil {
				s.logger().Error().Err(err).Msg("renewal_schedule_failed")
			}
		}
	}
}

func (s *Scheduler) logger() *zerolog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return &schedulerNopLogger
}
