package service

import (
	"context"

	"github.com/bank-accounts-service/internal/domain/event"
)

// ActivityRecorder turns a relayed account event into account activity.
type ActivityRecorder interface {
	Record(ctx context.Context, evt *event.AccountEvent) error
}
