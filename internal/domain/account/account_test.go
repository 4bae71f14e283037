package account

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOpening() Opening {
	return Opening{
		Number:           "191-0001",
		Type:             TypeSavings,
		CustomerID:       "cust-1",
		Balance:          decimal.NewFromInt(500),
		TransactionLimit: 20,
		Policy: Policy{
			HasMaintenanceFee:     true,
			CommissionFee:         decimal.RequireFromString("2.50"),
			MinimumOpeningBalance: decimal.NewFromInt(100),
			FreeTransactions:      5,
		},
	}
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Type
	}{
		{"SAVINGS", TypeSavings},
		{"savings", TypeSavings},
		{"AHORRO", TypeSavings},
		{" Corriente ", TypeChecking},
		{"checking", TypeChecking},
		{"plazo_fijo", TypeTermDeposit},
		{"TERM_DEPOSIT", TypeTermDeposit},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseType(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseType("CRYPTO")
		var typeErr ErrInvalidType
		require.True(t, errors.As(err, &typeErr))
		assert.Equal(t, "CRYPTO", typeErr.Raw)
	})
}

func TestNewAccount(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("SuccessfulCreation", func(t *testing.T) {
		acc, err := NewAccount(validOpening(), now)
		require.NoError(t, err)

		assert.Equal(t, uuid.Nil, acc.ID, "ID is assigned by the store")
		assert.Equal(t, "191-0001", acc.Number)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(500)))
		assert.True(t, acc.HasMaintenanceFee)
		assert.Equal(t, 5, acc.FreeTransactions)
		assert.Equal(t, []string{}, acc.AuthorizedSigners)
		assert.Equal(t, 1, acc.Version)
		assert.Equal(t, now, acc.CreatedAt)
		assert.Equal(t, now, acc.LastTransactionDate)
	})

	t.Run("Validation", func(t *testing.T) {
		testCases := []struct {
			name     string
			mutate   func(o *Opening)
			expected error
		}{
			{"EmptyCustomer", func(o *Opening) { o.CustomerID = " " }, ErrEmptyCustomerID},
			{"EmptyNumber", func(o *Opening) { o.Number = "" }, ErrEmptyNumber},
			{"NegativeBalance", func(o *Opening) { o.Balance = decimal.NewFromInt(-1) }, ErrNegativeOpeningAmount},
			{"NegativeFee", func(o *Opening) { o.Policy.CommissionFee = decimal.NewFromInt(-1) }, ErrNegativePolicyValue},
			{"NegativeLimit", func(o *Opening) { o.TransactionLimit = -3 }, ErrNegativePolicyValue},
			{"BalancePastScale", func(o *Opening) { o.Balance = decimal.RequireFromString("10.00005") }, ErrMoneyPrecision},
			{"FeePastScale", func(o *Opening) { o.Policy.CommissionFee = decimal.RequireFromString("0.12345") }, ErrMoneyPrecision},
			{"MinimumPastScale", func(o *Opening) { o.Policy.MinimumOpeningBalance = decimal.RequireFromString("1.00001") }, ErrMoneyPrecision},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				o := validOpening()
				tc.mutate(&o)
				acc, err := NewAccount(o, now)
				assert.Nil(t, acc)
				assert.ErrorIs(t, err, tc.expected)
			})
		}
	})
}

func TestAccount_Debit(t *testing.T) {
	at := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	t.Run("SuccessfulDebit", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(300), Version: 2, TransactionCount: 1}

		err := acc.Debit(decimal.NewFromInt(120), at)
		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(180)))
		assert.Equal(t, 3, acc.Version)
		assert.Equal(t, 2, acc.TransactionCount)
		assert.Equal(t, at, acc.LastTransactionDate)
	})

	t.Run("ExactBalance", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(50)}
		require.NoError(t, acc.Debit(decimal.NewFromInt(50), at))
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("InsufficientFundsLeavesAccountUnchanged", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(10), Version: 4}

		err := acc.Debit(decimal.RequireFromString("10.01"), at)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 4, acc.Version)
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(10)}
		assert.ErrorIs(t, acc.Debit(decimal.Zero, at), ErrInvalidAmount)
		assert.ErrorIs(t, acc.Debit(decimal.NewFromInt(-5), at), ErrInvalidAmount)
	})

	t.Run("AmountPastMoneyScale", func(t *testing.T) {
		acc := &Account{Balance: decimal.NewFromInt(10), Version: 1}
		assert.ErrorIs(t, acc.Debit(decimal.RequireFromString("0.00005"), at), ErrInvalidAmount)
		assert.True(t, acc.Balance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 1, acc.Version)

		require.NoError(t, acc.Debit(decimal.RequireFromString("1.50000"), at))
		assert.Equal(t, "8.5", acc.Balance.String())
	})
}

func TestAccount_Credit(t *testing.T) {
	at := time.Now().UTC()
	acc := &Account{Balance: decimal.NewFromInt(100), Version: 1}

	require.NoError(t, acc.Credit(decimal.RequireFromString("0.50"), at))
	assert.Equal(t, "100.5", acc.Balance.String())
	assert.Equal(t, 2, acc.Version)
	assert.Equal(t, 1, acc.TransactionCount)

	assert.ErrorIs(t, acc.Credit(decimal.Zero, at), ErrInvalidAmount)
	assert.ErrorIs(t, acc.Credit(decimal.RequireFromString("0.00005"), at), ErrInvalidAmount)
	assert.Equal(t, "100.5", acc.Balance.String())
}

func TestValidateAmount(t *testing.T) {
	testCases := []struct {
		raw   string
		valid bool
	}{
		{"0.0001", true},
		{"25", true},
		{"1.50000", true},
		{"0.00005", false},
		{"3.14159", false},
		{"0", false},
		{"-1", false},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tc.raw))
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			}
		})
	}
}

func TestAccount_ApplyPolicy(t *testing.T) {
	at := time.Now().UTC()
	acc := &Account{
		Type:       TypeChecking,
		CustomerID: "cust-9",
		Balance:    decimal.NewFromInt(70),
		Version:    3,
	}

	err := acc.ApplyPolicy(Policy{
		HasMaintenanceFee: true,
		CommissionFee:     decimal.NewFromInt(4),
		FreeTransactions:  10,
		AuthorizedSigners: []string{"ana", "luis"},
	}, at)
	require.NoError(t, err)

	assert.True(t, acc.HasMaintenanceFee)
	assert.Equal(t, []string{"ana", "luis"}, acc.AuthorizedSigners)
	assert.Equal(t, 4, acc.Version)
	assert.Equal(t, TypeChecking, acc.Type)
	assert.Equal(t, "cust-9", acc.CustomerID)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(70)))

	assert.ErrorIs(t, acc.ApplyPolicy(Policy{FreeTransactions: -1}, at), ErrNegativePolicyValue)
	assert.ErrorIs(t, acc.ApplyPolicy(Policy{CommissionFee: decimal.RequireFromString("0.00001")}, at), ErrMoneyPrecision)
	assert.Equal(t, 4, acc.Version)
}

func TestAccount_OverwriteBalance(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(70), Version: 1}
	require.NoError(t, acc.OverwriteBalance(decimal.NewFromInt(-20), time.Now()))

	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, 2, acc.Version)
	assert.Equal(t, 0, acc.TransactionCount)

	err := acc.OverwriteBalance(decimal.RequireFromString("5.12345"), time.Now())
	assert.ErrorIs(t, err, ErrMoneyPrecision)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, 2, acc.Version)
}

func TestErrAccountNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := error(ErrAccountNotFound{AccountID: id})

	assert.ErrorIs(t, err, ErrAccountNotFound{})
	assert.ErrorIs(t, err, ErrAccountNotFound{AccountID: id})
	assert.NotErrorIs(t, err, ErrAccountNotFound{AccountID: uuid.New()})
}
