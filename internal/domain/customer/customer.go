// Package customer holds the read-only projections of the external customer and credit
// directories that account opening depends on.
package customer

import (
	"context"
	"strings"
)

// Type is the legal kind of customer.
type Type string

const (
	TypePersonal    Type = "PERSONAL"
	TypeEmpresarial Type = "EMPRESARIAL"
)

// Profile is the customer tier.
type Profile string

const (
	ProfileStandard Profile = ""
	ProfileVIP      Profile = "VIP"
	ProfilePYME     Profile = "PYME"
)

// Customer as returned by the customer directory.
type Customer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           Type    `json:"type"`
	Profile        Profile `json:"profile"`
	DocumentNumber string  `json:"numberDocument"`
	Email          string  `json:"email"`
}

// IsPersonal accepts any casing of PERSONAL.
func (c *Customer) IsPersonal() bool {
	return strings.EqualFold(strings.TrimSpace(string(c.Type)), string(TypePersonal))
}

// IsBusiness accepts EMPRESARIAL and BUSINESS in any casing.
func (c *Customer) IsBusiness() bool {
	t := strings.TrimSpace(string(c.Type))
	return strings.EqualFold(t, string(TypeEmpresarial)) || strings.EqualFold(t, "BUSINESS")
}

func (c *Customer) HasProfile(p Profile) bool {
	return strings.EqualFold(strings.TrimSpace(string(c.Profile)), string(p))
}

// NeedsCreditCard reports whether the profile gates account opening on credit card ownership.
func (c *Customer) NeedsCreditCard() bool {
	return c.HasProfile(ProfileVIP) || c.HasProfile(ProfilePYME)
}

// CreditProduct as returned by the credit directory.
type CreditProduct struct {
	ID          string  `json:"id"`
	CustomerID  string  `json:"customerId"`
	CreditType  string  `json:"creditType"`
	Amount      float64 `json:"amount"`
	CreditLimit float64 `json:"creditLimit"`
	CurrentDebt float64 `json:"currentDebt"`
}

var creditCardTypes = []string{"TARJETA_CREDITO", "CREDIT_CARD"}

func (p CreditProduct) IsCreditCard() bool {
	t := strings.TrimSpace(p.CreditType)
	for _, cc := range creditCardTypes {
		if strings.EqualFold(t, cc) {
			return true
		}
	}
	return false
}

// HasCreditCard reports whether any product in the list is a credit card.
func HasCreditCard(products []CreditProduct) bool {
	for _, p := range products {
		if p.IsCreditCard() {
			return true
		}
	}
	return false
}

// Directory resolves customers by id.
type Directory interface {
	GetByID(ctx context.Context, id string) (*Customer, error)
}

// CreditDirectory resolves a customer's credit products and debt status.
type CreditDirectory interface {
	ListByCustomer(ctx context.Context, customerID string) ([]CreditProduct, error)
	// HasOverdueDebt never fails; an unreachable credit service reads as no debt.
	HasOverdueDebt(ctx context.Context, customerID string) bool
}
