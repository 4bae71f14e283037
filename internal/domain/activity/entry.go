// Package activity is the per-account history that the event relay builds from
// published account events.
package activity

import (
	"context"
	"time"

	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/google/uuid"
)

// Entry is one recorded account event. Money is kept as decimal strings.
type Entry struct {
	EventID       uuid.UUID  `json:"event_id" bson:"event_id"`
	AccountID     uuid.UUID  `json:"account_id" bson:"account_id"`
	AccountNumber string     `json:"account_number" bson:"account_number"`
	CustomerID    string     `json:"customer_id" bson:"customer_id"`
	Type          event.Type `json:"type" bson:"type"`
	Amount        string     `json:"amount" bson:"amount"`
	BalanceAfter  string     `json:"balance_after" bson:"balance_after"`
	Counterparty  *uuid.UUID `json:"counterparty,omitempty" bson:"counterparty,omitempty"`
	TransferID    *uuid.UUID `json:"transfer_id,omitempty" bson:"transfer_id,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at" bson:"occurred_at"`
	RecordedAt    time.Time  `json:"recorded_at" bson:"recorded_at"`
}

// FromEvent converts a relayed event into an entry stamped with recordedAt.
func FromEvent(evt *event.AccountEvent, recordedAt time.Time) *Entry {
	entry := &Entry{
		EventID:       evt.ID,
		AccountID:     evt.AccountID,
		AccountNumber: evt.AccountNumber,
		CustomerID:    evt.CustomerID,
		Type:          evt.Type,
		Amount:        evt.Amount.String(),
		BalanceAfter:  evt.BalanceAfter.String(),
		CorrelationID: evt.CorrelationID,
		OccurredAt:    evt.OccurredAt,
		RecordedAt:    recordedAt,
	}
	if evt.Counterparty != uuid.Nil {
		cp := evt.Counterparty
		entry.Counterparty = &cp
	}
	if evt.TransferID != uuid.Nil {
		tid := evt.TransferID
		entry.TransferID = &tid
	}
	return entry
}

// Repository stores and pages account activity, newest first.
type Repository interface {
	// Record is idempotent on EventID; a replayed event returns ErrDuplicateEntry.
	Record(ctx context.Context, entry *Entry) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// ErrDuplicateEntry indicates the event was already recorded
type ErrDuplicateEntry struct {
	EventID uuid.UUID
}

func (e ErrDuplicateEntry) Error() string {
	return "activity already recorded for event: " + e.EventID.String()
}

// Is matches any ErrDuplicateEntry when the target carries no ID.
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	return t.EventID == uuid.Nil || t.EventID == e.EventID
}
