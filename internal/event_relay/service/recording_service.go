package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/domain/activity"
	"github.com/bank-accounts-service/internal/domain/event"
)

// RecordingService writes events to the activity store. Redelivered events are treated as
// already recorded.
type RecordingService struct {
	repo   activity.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewRecordingService(logger *slog.Logger, repo activity.Repository) *RecordingService {
	return &RecordingService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RecordingService) Record(ctx context.Context, evt *event.AccountEvent) error {
	logger := s.logger
	if evt.CorrelationID != "" {
		logger = s.logger.With("correlation_id", evt.CorrelationID)
	}

	entry := activity.FromEvent(evt, s.now().UTC())
	if err := s.repo.Record(ctx, entry); err != nil {
		if errors.Is(err, activity.ErrDuplicateEntry{}) {
			logger.Info("Account event already recorded, skipping", "event_id", evt.ID.String())
			return nil
		}
		logger.Error("Failed to record account activity",
			"event_id", evt.ID.String(),
			"account_id", evt.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("record activity for event %s: %w", evt.ID, err)
	}

	logger.Info("Recorded account activity",
		"event_id", evt.ID.String(),
		"account_id", evt.AccountID.String(),
		"type", evt.Type,
	)
	return nil
}
