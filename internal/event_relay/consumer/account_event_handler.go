// Package consumer handles account events read from Kafka.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/bank-accounts-service/internal/event_relay/service"
	"github.com/bank-accounts-service/internal/platform/messaging/producers"
)

// AccountEventHandler decodes account events and hands them to the recorder. Messages
// that can never be processed go to the DLQ.
type AccountEventHandler struct {
	recorder service.ActivityRecorder
	dlq      producers.DeadLetterPublisher
	logger   *slog.Logger
}

func NewAccountEventHandler(
	logger *slog.Logger,
	recorder service.ActivityRecorder,
	dlq producers.DeadLetterPublisher,
) *AccountEventHandler {
	return &AccountEventHandler{
		recorder: recorder,
		dlq:      dlq,
		logger:   logger,
	}
}

// HandleMessage returns nil when the offset may be committed.
func (h *AccountEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var evt event.AccountEvent
	if err := json.Unmarshal(value, &evt); err != nil {
		return h.deadLetter(ctx, key, value, fmt.Errorf("failed to unmarshal account event: %w", err))
	}
	if err := evt.Validate(); err != nil {
		return h.deadLetter(ctx, key, value, fmt.Errorf("invalid account event: %w", err))
	}

	logger := h.logger
	if evt.CorrelationID != "" {
		logger = h.logger.With("correlation_id", evt.CorrelationID)
	}

	logger.Debug("Received account event",
		"event_id", evt.ID.String(),
		"account_id", evt.AccountID.String(),
		"type", evt.Type,
	)

	if err := h.recorder.Record(ctx, &evt); err != nil {
		return fmt.Errorf("recording event %s failed: %w", evt.ID, err)
	}
	return nil
}

func (h *AccountEventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	h.logger.Error("Unprocessable account event", "message_key", string(key), "error", cause)

	if h.dlq == nil {
		return cause
	}
	if err := h.dlq.PublishToDLQ(ctx, string(key), value, cause.Error()); err != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return cause
	}
	return nil
}
