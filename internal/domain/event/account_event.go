// Package event defines the account change notifications written to the outbox and
// relayed over Kafka.
package event

import (
	"errors"
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeAccountOpened      Type = "ACCOUNT_OPENED"
	TypeAccountUpdated     Type = "ACCOUNT_UPDATED"
	TypeBalanceOverwritten Type = "BALANCE_OVERWRITTEN"
	TypeAccountClosed      Type = "ACCOUNT_CLOSED"
	TypeTransferDebited    Type = "TRANSFER_DEBITED"
	TypeTransferCredited   Type = "TRANSFER_CREDITED"
)

var ErrUnknownType = errors.New("unknown account event type")

func (t Type) Valid() bool {
	switch t {
	case TypeAccountOpened, TypeAccountUpdated, TypeBalanceOverwritten,
		TypeAccountClosed, TypeTransferDebited, TypeTransferCredited:
		return true
	}
	return false
}

// AccountEvent describes one change to one account.
type AccountEvent struct {
	ID            uuid.UUID       `json:"id"`
	Type          Type            `json:"type"`
	AccountID     uuid.UUID       `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	CustomerID    string          `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	// Counterparty is the other side of a transfer.
	Counterparty  uuid.UUID `json:"counterparty"`
	TransferID    uuid.UUID `json:"transfer_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newEvent(t Type, acc *account.Account, at time.Time) *AccountEvent {
	return &AccountEvent{
		ID:            uuid.New(),
		Type:          t,
		AccountID:     acc.ID,
		AccountNumber: acc.Number,
		CustomerID:    acc.CustomerID,
		BalanceAfter:  acc.Balance,
		OccurredAt:    at,
	}
}

func Opened(acc *account.Account, at time.Time) *AccountEvent {
	e := newEvent(TypeAccountOpened, acc, at)
	e.Amount = acc.Balance
	return e
}

func Updated(acc *account.Account, at time.Time) *AccountEvent {
	return newEvent(TypeAccountUpdated, acc, at)
}

func BalanceOverwritten(acc *account.Account, previous decimal.Decimal, at time.Time) *AccountEvent {
	e := newEvent(TypeBalanceOverwritten, acc, at)
	e.Amount = acc.Balance.Sub(previous)
	return e
}

func Closed(acc *account.Account, at time.Time) *AccountEvent {
	return newEvent(TypeAccountClosed, acc, at)
}

// Transfer returns the debit and credit events of one transfer. Both share a TransferID.
func Transfer(from, to *account.Account, amount decimal.Decimal, at time.Time) (debit, credit *AccountEvent) {
	transferID := uuid.New()

	debit = newEvent(TypeTransferDebited, from, at)
	debit.Amount = amount.Neg()
	debit.Counterparty = to.ID
	debit.TransferID = transferID

	credit = newEvent(TypeTransferCredited, to, at)
	credit.Amount = amount
	credit.Counterparty = from.ID
	credit.TransferID = transferID
	return debit, credit
}

// WithCorrelationID tags the event with the request that caused it.
func (e *AccountEvent) WithCorrelationID(id string) *AccountEvent {
	e.CorrelationID = id
	return e
}

func (e *AccountEvent) Validate() error {
	if e.ID == uuid.Nil || e.AccountID == uuid.Nil {
		return errors.New("account event requires id and account_id")
	}
	if !e.Type.Valid() {
		return ErrUnknownType
	}
	return nil
}
