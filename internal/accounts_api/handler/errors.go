package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bank-accounts-service/internal/accounts_api/middleware"
	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/bank-accounts-service/internal/domain/customer"
	"github.com/bank-accounts-service/internal/domain/eligibility"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	status int
	code   string
}

// classify maps a service error onto its HTTP status. Unknown errors are internal.
func classify(err error) errorMapping {
	var (
		concurrent   account.ErrConcurrentModification
		duplicateNum account.ErrDuplicateNumber
		invalidType  account.ErrInvalidType
	)

	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		return errorMapping{http.StatusNotFound, "ACCOUNT_NOT_FOUND"}
	case errors.Is(err, customer.ErrCustomerNotFound{}):
		return errorMapping{http.StatusNotFound, "CUSTOMER_NOT_FOUND"}
	case errors.Is(err, service.ErrNoCommissionActivity):
		return errorMapping{http.StatusNotFound, "NO_COMMISSION_ACTIVITY"}
	case errors.Is(err, eligibility.ErrOverdueDebt):
		return errorMapping{http.StatusForbidden, "OVERDUE_DEBT"}
	case errors.Is(err, eligibility.ErrRuleViolation):
		return errorMapping{http.StatusBadRequest, "RULE_VIOLATION"}
	case errors.Is(err, account.ErrInsufficientFunds):
		return errorMapping{http.StatusBadRequest, "INSUFFICIENT_FUNDS"}
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrEmptyCustomerID),
		errors.Is(err, account.ErrEmptyNumber),
		errors.Is(err, account.ErrNegativeOpeningAmount),
		errors.Is(err, account.ErrNegativePolicyValue),
		errors.Is(err, account.ErrMoneyPrecision),
		errors.Is(err, service.ErrSameAccountTransfer),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.As(err, &invalidType):
		return errorMapping{http.StatusBadRequest, "BAD_REQUEST"}
	case errors.As(err, &concurrent):
		return errorMapping{http.StatusConflict, "CONCURRENT_MODIFICATION"}
	case errors.As(err, &duplicateNum):
		return errorMapping{http.StatusConflict, "DUPLICATE_ACCOUNT_NUMBER"}
	case errors.Is(err, customer.ErrUpstreamUnavailable{}):
		return errorMapping{http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"}
	default:
		return errorMapping{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"}
	}
}

// respondError writes the mapped error. Internal errors never leak their message.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	m := classify(err)
	if m.status == http.StatusInternalServerError {
		logger.Error("Failed to "+op, "error", err, "correlation_id", middleware.GetCorrelationID(c))
		RespondInternalError(c)
		return
	}

	if m.status == http.StatusBadGateway {
		logger.Warn("Upstream dependency failed", "op", op, "error", err)
	}
	_ = c.Error(err)
	RespondWithError(c, m.status, m.code, err.Error())
}
