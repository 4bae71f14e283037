package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/customer"
	"github.com/bank-accounts-service/internal/domain/eligibility"
	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/bank-accounts-service/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	txManager   persistence.TxManager
	accountRepo account.Repository
	outboxRepo  outbox.Repository
	customers   customer.Directory
	credits     customer.CreditDirectory
	logger      *slog.Logger
	now         func() time.Time
}

func NewAccountService(
	logger *slog.Logger,
	txManager persistence.TxManager,
	accountRepo account.Repository,
	outboxRepo outbox.Repository,
	customers customer.Directory,
	credits customer.CreditDirectory,
) *AccountServiceImpl {
	return &AccountServiceImpl{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		customers:   customers,
		credits:     credits,
		logger:      logger.With("component", "account_service"),
		now:         time.Now,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, opening account.Opening) (*account.Account, error) {
	now := s.now().UTC()
	proposed, err := account.NewAccount(opening, now)
	if err != nil {
		return nil, err
	}

	cust, err := s.customers.GetByID(ctx, opening.CustomerID)
	if err != nil {
		return nil, err
	}

	profile, existing, err := s.loadProfile(ctx, cust, opening.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := eligibility.Evaluate(proposed, profile, existing); err != nil {
		s.logger.Info("Account opening rejected",
			"customer_id", opening.CustomerID,
			"type", proposed.Type,
			"reason", err.Error(),
		)
		return nil, err
	}

	err = s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.accountRepo.WithTx(tx).Create(ctx, proposed); err != nil {
			return err
		}
		return appendEvents(ctx, s.outboxRepo.WithTx(tx), event.Opened(proposed, now))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account opened",
		"account_id", proposed.ID.String(),
		"customer_id", proposed.CustomerID,
		"type", proposed.Type,
	)
	return proposed, nil
}

// loadProfile fetches the debt flag and the existing accounts concurrently. Credit products
// are only fetched for profiles that need a credit card.
func (s *AccountServiceImpl) loadProfile(ctx context.Context, cust *customer.Customer, customerID string) (eligibility.Profile, []*account.Account, error) {
	profile := eligibility.Profile{Customer: cust}
	var existing []*account.Account

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile.HasOverdueDebt = s.credits.HasOverdueDebt(gctx, customerID)
		return nil
	})
	g.Go(func() error {
		accounts, err := s.accountRepo.ListByCustomer(gctx, customerID)
		if err != nil {
			return err
		}
		existing = accounts
		return nil
	})
	if err := g.Wait(); err != nil {
		return profile, nil, err
	}

	if !profile.HasOverdueDebt && cust.NeedsCreditCard() {
		products, err := s.credits.ListByCustomer(ctx, customerID)
		if err != nil {
			return profile, nil, err
		}
		profile.CreditProducts = products
	}

	return profile, existing, nil
}

func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *AccountServiceImpl) ListCustomerAccounts(ctx context.Context, customerID string) ([]*account.Account, error) {
	return s.accountRepo.ListByCustomer(ctx, customerID)
}

func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, id uuid.UUID, update AccountUpdate) (*account.Account, error) {
	var updated *account.Account

	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.accountRepo.WithTx(tx)
		acc, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if update.ExpectedVersion != 0 && update.ExpectedVersion != acc.Version {
			return account.ErrConcurrentModification{AccountID: id}
		}

		now := s.now().UTC()
		if err := acc.ApplyPolicy(update.Policy, now); err != nil {
			return err
		}
		if err := repo.Update(ctx, acc); err != nil {
			return err
		}
		updated = acc
		return appendEvents(ctx, s.outboxRepo.WithTx(tx), event.Updated(acc, now))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *AccountServiceImpl) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) (*account.Account, error) {
	var updated *account.Account

	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.accountRepo.WithTx(tx)
		acc, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		previous := acc.Balance
		if err := acc.OverwriteBalance(balance, now); err != nil {
			return err
		}
		if err := repo.Update(ctx, acc); err != nil {
			return err
		}

		s.logger.Warn("Account balance overwritten outside a transfer",
			"account_id", id.String(),
			"previous_balance", previous.String(),
			"new_balance", balance.String(),
		)
		updated = acc
		return appendEvents(ctx, s.outboxRepo.WithTx(tx), event.BalanceOverwritten(acc, previous, now))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.accountRepo.WithTx(tx)
		acc, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return appendEvents(ctx, s.outboxRepo.WithTx(tx), event.Closed(acc, s.now().UTC()))
	})
	if err != nil {
		if !errors.Is(err, account.ErrAccountNotFound{}) {
			s.logger.Error("Failed to delete account", "account_id", id.String(), "error", err)
		}
		return err
	}

	s.logger.Info("Account deleted", "account_id", id.String())
	return nil
}

var _ AccountService = (*AccountServiceImpl)(nil)
