package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/event"
	"github.com/bank-accounts-service/internal/domain/outbox"
	"github.com/bank-accounts-service/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransferServiceImpl debits and credits both accounts in one database transaction. Both
// rows are locked in ascending id order so opposite transfers between the same pair cannot
// deadlock.
type TransferServiceImpl struct {
	txManager   persistence.TxManager
	accountRepo account.Repository
	outboxRepo  outbox.Repository
	logger      *slog.Logger
	now         func() time.Time
}

func NewTransferService(
	logger *slog.Logger,
	txManager persistence.TxManager,
	accountRepo account.Repository,
	outboxRepo outbox.Repository,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		logger:      logger.With("component", "transfer_service"),
		now:         time.Now,
	}
}

func (s *TransferServiceImpl) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error {
	if err := account.ValidateAmount(amount); err != nil {
		return err
	}
	if fromID == toID {
		return ErrSameAccountTransfer
	}

	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.accountRepo.WithTx(tx)

		locked, err := lockInOrder(ctx, repo, fromID, toID)
		if err != nil {
			return err
		}
		from, to := locked[fromID], locked[toID]

		now := s.now().UTC()
		if err := from.Debit(amount, now); err != nil {
			return err
		}
		if err := to.Credit(amount, now); err != nil {
			return err
		}

		if err := repo.Update(ctx, from); err != nil {
			return err
		}
		if err := repo.Update(ctx, to); err != nil {
			return err
		}

		debit, credit := event.Transfer(from, to, amount, now)
		return appendEvents(ctx, s.outboxRepo.WithTx(tx), debit, credit)
	})
	if err != nil {
		if errors.Is(err, account.ErrInsufficientFunds) {
			s.logger.Info("Transfer rejected",
				"from_account_id", fromID.String(),
				"to_account_id", toID.String(),
				"amount", amount.String(),
				"reason", err.Error(),
			)
		}
		return err
	}

	s.logger.Info("Transfer completed",
		"from_account_id", fromID.String(),
		"to_account_id", toID.String(),
		"amount", amount.String(),
	)
	return nil
}

func lockInOrder(ctx context.Context, repo account.Repository, a, b uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	ids := []uuid.UUID{a, b}
	if bytes.Compare(b[:], a[:]) < 0 {
		ids[0], ids[1] = b, a
	}

	locked := make(map[uuid.UUID]*account.Account, len(ids))
	for _, id := range ids {
		acc, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = acc
	}
	return locked, nil
}

var _ TransferService = (*TransferServiceImpl)(nil)
