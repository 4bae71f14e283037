package service

import (
	"context"
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/activity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount resolves the customer, runs the eligibility rules and stores the account
	// together with its ACCOUNT_OPENED event.
	CreateAccount(ctx context.Context, opening account.Opening) (*account.Account, error)

	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context) ([]*account.Account, error)
	ListCustomerAccounts(ctx context.Context, customerID string) ([]*account.Account, error)

	// UpdateAccount replaces the account policy. Returns ErrConcurrentModification when the
	// expected version is stale.
	UpdateAccount(ctx context.Context, id uuid.UUID, update AccountUpdate) (*account.Account, error)

	// UpdateBalance overwrites the balance without any funds check. Administrative use only.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*account.Account, error)

	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// TransferService moves funds between two accounts atomically
type TransferService interface {
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error
}

// ReportService computes the derived account reports
type ReportService interface {
	// DailyBalance maps account number to balance divided by today's day of month.
	DailyBalance(ctx context.Context, customerID string) (map[string]decimal.Decimal, error)

	// Commissions lists fee-bearing accounts whose last transaction date is within
	// [start, end], both inclusive.
	Commissions(ctx context.Context, start, end time.Time) ([]*account.Account, error)
}

// ActivityService pages the activity log built by the event relay
type ActivityService interface {
	ListActivity(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*activity.Entry, int64, error)
}

// AccountUpdate carries the new policy. ExpectedVersion 0 skips the version check.
type AccountUpdate struct {
	Policy          account.Policy
	ExpectedVersion int
}
