// Package eligibility decides whether a proposed account may be opened for a customer.
//
// Evaluate is pure: the caller resolves the customer, the debt flag, credit products and
// existing accounts beforehand and passes them in.
package eligibility

import (
	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/customer"
)

// Profile is everything known about the customer at decision time.
type Profile struct {
	Customer       *customer.Customer
	HasOverdueDebt bool
	// CreditProducts only needs to be populated for profiles that require a credit card.
	CreditProducts []customer.CreditProduct
}

// Evaluate returns nil when the account may be opened, or the first rule it breaks.
// Overdue debt is checked before anything else.
func Evaluate(proposed *account.Account, p Profile, existing []*account.Account) error {
	if p.HasOverdueDebt {
		return ErrOverdueDebt
	}

	c := p.Customer
	switch {
	case c == nil:
		return ErrInvalidCustomerType{}
	case c.IsPersonal():
		return evaluatePersonal(proposed.Type, p, existing)
	case c.IsBusiness():
		return evaluateBusiness(proposed.Type, p)
	default:
		return ErrInvalidCustomerType{Type: string(c.Type)}
	}
}

func evaluatePersonal(proposed account.Type, p Profile, existing []*account.Account) error {
	for _, acc := range existing {
		if acc.Type.Is(proposed) {
			return ErrDuplicateAccountType{Type: proposed}
		}
	}
	if p.Customer.HasProfile(customer.ProfileVIP) && !customer.HasCreditCard(p.CreditProducts) {
		return ErrCreditCardRequired{Profile: customer.ProfileVIP}
	}
	return nil
}

func evaluateBusiness(proposed account.Type, p Profile) error {
	if proposed.Is(account.TypeSavings) || proposed.Is(account.TypeTermDeposit) {
		return ErrBusinessAccountType{Type: proposed}
	}
	if p.Customer.HasProfile(customer.ProfilePYME) && !customer.HasCreditCard(p.CreditProducts) {
		return ErrCreditCardRequired{Profile: customer.ProfilePYME}
	}
	return nil
}
