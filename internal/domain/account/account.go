package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds     = errors.New("insufficient balance")
	ErrInvalidAmount         = fmt.Errorf("amount must be positive with at most %d decimal places", MoneyScale)
	ErrEmptyCustomerID       = errors.New("customer id cannot be empty")
	ErrEmptyNumber           = errors.New("account number cannot be empty")
	ErrNegativeOpeningAmount = errors.New("opening balance cannot be negative")
	ErrNegativePolicyValue   = errors.New("account policy values cannot be negative")
	ErrMoneyPrecision        = fmt.Errorf("money values allow at most %d decimal places", MoneyScale)
)

// MoneyScale is the number of decimal places kept by the NUMERIC(19, 4) money columns.
const MoneyScale = 4

// fitsMoneyScale reports whether d survives storage without rounding. Trailing zeros
// past the scale are fine.
func fitsMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// Type is the product an account is opened as.
type Type string

const (
	TypeSavings     Type = "SAVINGS"
	TypeChecking    Type = "CHECKING"
	TypeTermDeposit Type = "TERM_DEPOSIT"
)

var typeAliases = map[string]Type{
	"SAVINGS":      TypeSavings,
	"AHORRO":       TypeSavings,
	"CHECKING":     TypeChecking,
	"CORRIENTE":    TypeChecking,
	"TERM_DEPOSIT": TypeTermDeposit,
	"PLAZO_FIJO":   TypeTermDeposit,
}

// ErrInvalidType is returned by ParseType for unknown account types.
type ErrInvalidType struct {
	Raw string
}

func (e ErrInvalidType) Error() string {
	return fmt.Sprintf("invalid account type: %q", e.Raw)
}

// ParseType accepts the canonical names and the legacy AHORRO/CORRIENTE/PLAZO_FIJO codes,
// ignoring case and surrounding whitespace.
func ParseType(raw string) (Type, error) {
	t, ok := typeAliases[strings.ToUpper(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidType{Raw: raw}
	}
	return t, nil
}

// Is reports whether two types are the same product, ignoring case.
func (t Type) Is(other Type) bool {
	return strings.EqualFold(string(t), string(other))
}

// Account represents a bank account
type Account struct {
	ID                    uuid.UUID       `json:"id"`
	Number                string          `json:"number"`
	Type                  Type            `json:"type"`
	CustomerID            string          `json:"customer_id"`
	Balance               decimal.Decimal `json:"balance"`
	HasMaintenanceFee     bool            `json:"has_maintenance_fee"`
	TransactionLimit      int             `json:"transaction_limit"`
	CommissionFee         decimal.Decimal `json:"commission_fee"`
	MinimumOpeningBalance decimal.Decimal `json:"minimum_opening_balance"`
	FreeTransactions      int             `json:"free_transactions"`
	TransactionCount      int             `json:"transaction_count"`
	AuthorizedSigners     []string        `json:"authorized_signers"`
	LastTransactionDate   time.Time       `json:"last_transaction_date"`
	Version               int             `json:"version"` // optimistic locking
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Opening carries the caller-supplied fields of a new account.
type Opening struct {
	Number           string
	Type             Type
	CustomerID       string
	Balance          decimal.Decimal
	TransactionLimit int
	Policy           Policy
}

// Policy groups the fields that may change after an account is opened.
type Policy struct {
	HasMaintenanceFee     bool
	CommissionFee         decimal.Decimal
	MinimumOpeningBalance decimal.Decimal
	FreeTransactions      int
	AuthorizedSigners     []string
}

func (p Policy) validate() error {
	if p.CommissionFee.IsNegative() || p.MinimumOpeningBalance.IsNegative() || p.FreeTransactions < 0 {
		return ErrNegativePolicyValue
	}
	if !fitsMoneyScale(p.CommissionFee) || !fitsMoneyScale(p.MinimumOpeningBalance) {
		return ErrMoneyPrecision
	}
	return nil
}

// NewAccount builds an account that has not been stored yet. The ID stays nil until the
// store assigns one.
func NewAccount(o Opening, now time.Time) (*Account, error) {
	if strings.TrimSpace(o.CustomerID) == "" {
		return nil, ErrEmptyCustomerID
	}
	if strings.TrimSpace(o.Number) == "" {
		return nil, ErrEmptyNumber
	}
	if o.Balance.IsNegative() {
		return nil, ErrNegativeOpeningAmount
	}
	if !fitsMoneyScale(o.Balance) {
		return nil, ErrMoneyPrecision
	}
	if o.TransactionLimit < 0 {
		return nil, ErrNegativePolicyValue
	}
	if err := o.Policy.validate(); err != nil {
		return nil, err
	}

	signers := o.Policy.AuthorizedSigners
	if signers == nil {
		signers = []string{}
	}

	return &Account{
		Number:                strings.TrimSpace(o.Number),
		Type:                  o.Type,
		CustomerID:            o.CustomerID,
		Balance:               o.Balance,
		HasMaintenanceFee:     o.Policy.HasMaintenanceFee,
		TransactionLimit:      o.TransactionLimit,
		CommissionFee:         o.Policy.CommissionFee,
		MinimumOpeningBalance: o.Policy.MinimumOpeningBalance,
		FreeTransactions:      o.Policy.FreeTransactions,
		AuthorizedSigners:     signers,
		LastTransactionDate:   now,
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// ValidateAmount accepts positive amounts with at most MoneyScale decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !fitsMoneyScale(amount) {
		return ErrInvalidAmount
	}
	return nil
}

// Debit removes amount from the balance. The balance never goes below zero through here.
func (a *Account) Debit(amount decimal.Decimal, at time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if !a.CanDebit(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	a.recordTransaction(at)
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal, at time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)
	a.recordTransaction(at)
	return nil
}

func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ApplyPolicy rewrites the mutable policy fields. Type, customer and balance are untouched.
func (a *Account) ApplyPolicy(p Policy, at time.Time) error {
	if err := p.validate(); err != nil {
		return err
	}
	signers := p.AuthorizedSigners
	if signers == nil {
		signers = []string{}
	}

	a.HasMaintenanceFee = p.HasMaintenanceFee
	a.CommissionFee = p.CommissionFee
	a.MinimumOpeningBalance = p.MinimumOpeningBalance
	a.FreeTransactions = p.FreeTransactions
	a.AuthorizedSigners = signers
	a.touch(at)
	return nil
}

// OverwriteBalance replaces the balance without any funds check. Negative values are allowed.
func (a *Account) OverwriteBalance(balance decimal.Decimal, at time.Time) error {
	if !fitsMoneyScale(balance) {
		return ErrMoneyPrecision
	}
	a.Balance = balance
	a.touch(at)
	return nil
}

func (a *Account) recordTransaction(at time.Time) {
	a.TransactionCount++
	a.LastTransactionDate = at
	a.touch(at)
}

func (a *Account) touch(at time.Time) {
	a.UpdatedAt = at
	a.Version++
}
