// Package outbox_poller relays committed outbox rows to Kafka.
package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/bank-accounts-service/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// Poller claims pending outbox rows with FOR UPDATE SKIP LOCKED, so several relays can
// run against the same database without publishing a row twice.
type Poller struct {
	txManager        persistence.TxManager
	outboxRepo       outbox.Repository
	publisher        EventPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	txManager persistence.TxManager,
	outboxRepo outbox.Repository,
	publisher EventPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		txManager:        txManager,
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		logger:           logger.With("component", "outbox_poller"),
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation")
			return
		case <-ticker.C:
			published, err := p.processPendingMessages(ctx)
			if err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
				continue
			}
			if published > 0 {
				p.logger.Info("Published outbox batch", "published", published)
			}
		}
	}
}

// processPendingMessages handles one batch in one transaction and returns how many rows
// were published. A failed publish only affects its own row.
func (p *Poller) processPendingMessages(ctx context.Context) (int, error) {
	published := 0

	err := p.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := p.outboxRepo.WithTx(tx)

		messages, err := repo.GetPending(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("failed to get pending outbox messages: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}

		p.logger.Debug("Claimed pending outbox messages", "count", len(messages))

		for _, msg := range messages {
			if p.relay(ctx, repo, msg) {
				published++
			}
		}
		return nil
	})

	return published, err
}

func (p *Poller) relay(ctx context.Context, repo outbox.Repository, msg *outbox.Message) bool {
	logger := p.logger.With(
		"outbox_id", msg.ID,
		"event_id", msg.EventID.String(),
		"event_type", msg.EventType,
	)

	pubErr := p.publisher.Publish(ctx, msg)
	if pubErr == nil {
		if err := repo.UpdateStatus(ctx, msg.ID, outbox.StatusPublished); err != nil {
			// the row stays pending and is published again on the next tick
			logger.Error("Published outbox message but failed to mark it PUBLISHED", "error", err)
			return false
		}
		logger.Debug("Published outbox message")
		return true
	}

	if errors.Is(pubErr, ErrMalformedPayload) {
		logger.Error("Outbox message can never be published, marking FAILED_TO_PUBLISH", "error", pubErr)
		if err := repo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); err != nil {
			logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH", "error", err)
		}
		return false
	}

	logger.Error("Failed to publish outbox message", "current_attempts", msg.Attempts, "error", pubErr)

	if err := repo.IncrementAttempts(ctx, msg.ID); err != nil {
		logger.Error("Failed to increment attempts for outbox message", "error", err)
		return false
	}

	if msg.Attempts+1 >= p.maxRetryAttempts {
		logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
			"attempts_made", msg.Attempts+1,
		)
		if err := repo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); err != nil {
			logger.Error("Failed to update outbox status to FAILED_TO_PUBLISH after max retries", "error", err)
		}
	}
	return false
}
