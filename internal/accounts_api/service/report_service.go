package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/shopspring/decimal"
)

const dailyBalancePlaces = 2

type ReportServiceImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
	now         func() time.Time
}

func NewReportService(logger *slog.Logger, accountRepo account.Repository) *ReportServiceImpl {
	return &ReportServiceImpl{
		accountRepo: accountRepo,
		logger:      logger.With("component", "report_service"),
		now:         time.Now,
	}
}

func (s *ReportServiceImpl) DailyBalance(ctx context.Context, customerID string) (map[string]decimal.Decimal, error) {
	accounts, err := s.accountRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	day := decimal.NewFromInt(int64(s.now().UTC().Day()))
	report := make(map[string]decimal.Decimal, len(accounts))
	for _, acc := range accounts {
		report[acc.Number] = acc.Balance.Div(day).Round(dailyBalancePlaces)
	}
	return report, nil
}

// Commissions compares calendar dates in UTC; the time of day is ignored on both bounds.
func (s *ReportServiceImpl) Commissions(ctx context.Context, start, end time.Time) ([]*account.Account, error) {
	from, to := civilDate(start), civilDate(end)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*account.Account, 0)
	for _, acc := range accounts {
		if !acc.HasMaintenanceFee {
			continue
		}
		d := civilDate(acc.LastTransactionDate)
		if d.Before(from) || d.After(to) {
			continue
		}
		matched = append(matched, acc)
	}

	if len(matched) == 0 {
		return nil, ErrNoCommissionActivity
	}

	s.logger.Debug("Commission report computed", "accounts", len(matched))
	return matched, nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ ReportService = (*ReportServiceImpl)(nil)
