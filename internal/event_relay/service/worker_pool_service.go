package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolRecorder bounds how many events are recorded at once. Record blocks until
// the submitted task finishes so the caller can decide whether to commit the offset.
type WorkerPoolRecorder struct {
	base   ActivityRecorder
	pool   *ants.Pool
	logger *slog.Logger
}

func NewWorkerPoolRecorder(logger *slog.Logger, base ActivityRecorder, size int) (*WorkerPoolRecorder, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolRecorder{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

func (s *WorkerPoolRecorder) Record(ctx context.Context, evt *event.AccountEvent) error {
	result := make(chan error, 1)
	evtCopy := *evt

	if err := s.pool.Submit(func() {
		result <- s.base.Record(ctx, &evtCopy)
	}); err != nil {
		s.logger.Error("Failed to submit account event to worker pool",
			"event_id", evt.ID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases the pool, waiting up to timeout for running tasks.
func (s *WorkerPoolRecorder) Shutdown(timeout time.Duration) error {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	return s.pool.ReleaseTimeout(timeout)
}

func (s *WorkerPoolRecorder) Running() int {
	return s.pool.Running()
}

func (s *WorkerPoolRecorder) Capacity() int {
	return s.pool.Cap()
}

var _ ActivityRecorder = (*WorkerPoolRecorder)(nil)
