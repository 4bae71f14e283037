package eligibility

import (
	"errors"
	"fmt"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/customer"
)

var (
	// ErrOverdueDebt blocks every account type.
	ErrOverdueDebt = errors.New("customer with overdue credit debt")

	// ErrRuleViolation matches every account-type or profile rejection below.
	ErrRuleViolation = errors.New("account rule violation")
)

type ErrInvalidCustomerType struct {
	Type string
}

func (e ErrInvalidCustomerType) Error() string {
	if e.Type == "" {
		return "invalid customer type"
	}
	return fmt.Sprintf("invalid customer type: %s", e.Type)
}

func (e ErrInvalidCustomerType) Is(target error) bool { return target == ErrRuleViolation }

// ErrDuplicateAccountType is returned when a personal customer already holds the type.
type ErrDuplicateAccountType struct {
	Type account.Type
}

func (e ErrDuplicateAccountType) Error() string {
	return fmt.Sprintf("personal customers can only hold one %s account", e.Type)
}

func (e ErrDuplicateAccountType) Is(target error) bool { return target == ErrRuleViolation }

type ErrBusinessAccountType struct {
	Type account.Type
}

func (e ErrBusinessAccountType) Error() string {
	return fmt.Sprintf("business customers cannot hold savings or term-deposit accounts (requested %s)", e.Type)
}

func (e ErrBusinessAccountType) Is(target error) bool { return target == ErrRuleViolation }

// ErrCreditCardRequired is returned for VIP and PYME customers without a credit card.
type ErrCreditCardRequired struct {
	Profile customer.Profile
}

func (e ErrCreditCardRequired) Error() string {
	return fmt.Sprintf("%s requires active credit card", e.Profile)
}

func (e ErrCreditCardRequired) Is(target error) bool { return target == ErrRuleViolation }
