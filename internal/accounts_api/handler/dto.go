package handler

import (
	"time"

	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/activity"
	"github.com/shopspring/decimal"
)

// Money fields accept a JSON number or a decimal string and are always rendered as strings.

type CreateAccountRequest struct {
	Number                string          `json:"number" binding:"required"`
	Type                  string          `json:"type" binding:"required"`
	CustomerID            string          `json:"customer_id" binding:"required"`
	Balance               decimal.Decimal `json:"balance"`
	HasMaintenanceFee     bool            `json:"has_maintenance_fee"`
	TransactionLimit      int             `json:"transaction_limit" binding:"min=0"`
	CommissionFee         decimal.Decimal `json:"commission_fee"`
	MinimumOpeningBalance decimal.Decimal `json:"minimum_opening_balance"`
	FreeTransactions      int             `json:"free_transactions" binding:"min=0"`
	AuthorizedSigners     []string        `json:"authorized_signers"`
}

// UpdateAccountRequest replaces the mutable policy. ExpectedVersion is optional.
type UpdateAccountRequest struct {
	HasMaintenanceFee     bool            `json:"has_maintenance_fee"`
	CommissionFee         decimal.Decimal `json:"commission_fee"`
	MinimumOpeningBalance decimal.Decimal `json:"minimum_opening_balance"`
	FreeTransactions      int             `json:"free_transactions" binding:"min=0"`
	AuthorizedSigners     []string        `json:"authorized_signers"`
	ExpectedVersion       int             `json:"expected_version" binding:"min=0"`
}

type UpdateBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required"`
}

type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
}

type CommissionReportQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=10" binding:"min=1,max=100"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatedAccountResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type AccountResponse struct {
	ID                    string          `json:"id"`
	Number                string          `json:"number"`
	Type                  string          `json:"type"`
	CustomerID            string          `json:"customer_id"`
	Balance               decimal.Decimal `json:"balance"`
	HasMaintenanceFee     bool            `json:"has_maintenance_fee"`
	TransactionLimit      int             `json:"transaction_limit"`
	CommissionFee         decimal.Decimal `json:"commission_fee"`
	MinimumOpeningBalance decimal.Decimal `json:"minimum_opening_balance"`
	FreeTransactions      int             `json:"free_transactions"`
	TransactionCount      int             `json:"transaction_count"`
	AuthorizedSigners     []string        `json:"authorized_signers"`
	LastTransactionDate   string          `json:"last_transaction_date"`
	Version               int             `json:"version"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

type ActivityResponse struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	BalanceAfter  string `json:"balance_after"`
	Counterparty  string `json:"counterparty,omitempty"`
	TransferID    string `json:"transfer_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	signers := acc.AuthorizedSigners
	if signers == nil {
		signers = []string{}
	}

	return AccountResponse{
		ID:                    acc.ID.String(),
		Number:                acc.Number,
		Type:                  string(acc.Type),
		CustomerID:            acc.CustomerID,
		Balance:               acc.Balance,
		HasMaintenanceFee:     acc.HasMaintenanceFee,
		TransactionLimit:      acc.TransactionLimit,
		CommissionFee:         acc.CommissionFee,
		MinimumOpeningBalance: acc.MinimumOpeningBalance,
		FreeTransactions:      acc.FreeTransactions,
		TransactionCount:      acc.TransactionCount,
		AuthorizedSigners:     signers,
		LastTransactionDate:   acc.LastTransactionDate.Format(time.RFC3339),
		Version:               acc.Version,
		CreatedAt:             acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             acc.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAccountsToResponse(accounts []*account.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, mapAccountToResponse(acc))
	}
	return out
}

func mapActivityToResponse(entry *activity.Entry) ActivityResponse {
	response := ActivityResponse{
		EventID:       entry.EventID.String(),
		Type:          string(entry.Type),
		Amount:        entry.Amount,
		BalanceAfter:  entry.BalanceAfter,
		CorrelationID: entry.CorrelationID,
		OccurredAt:    entry.OccurredAt.Format(time.RFC3339),
	}
	if entry.Counterparty != nil {
		response.Counterparty = entry.Counterparty.String()
	}
	if entry.TransferID != nil {
		response.TransferID = entry.TransferID.String()
	}
	return response
}
