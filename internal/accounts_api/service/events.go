package service

import (
	"context"
	"fmt"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/bank-accounts-service/internal/platform/correlation"
)

// appendEvents writes the events to the outbox inside the caller's transaction, tagged
// with the request correlation id.
func appendEvents(ctx context.Context, repo outbox.Repository, events ...*event.AccountEvent) error {
	correlationID := correlation.FromContext(ctx)
	for _, evt := range events {
		evt.WithCorrelationID(correlationID)
		msg, err := outbox.NewMessage(evt)
		if err != nil {
			return fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
		}
		if err := repo.Create(ctx, msg); err != nil {
			return fmt.Errorf("failed to write %s event to outbox: %w", evt.Type, err)
		}
	}
	return nil
}
