package handler

import (
	"log/slog"
	"net/http"

	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/bank-accounts-service/internal/domain/account"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService  service.AccountService
	activityService service.ActivityService
	logger          *slog.Logger
}

func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, activityService service.ActivityService) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		activityService: activityService,
		logger:          logger,
	}
}

// Create opens an account once the customer passes the eligibility rules.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountType, err := account.ParseType(req.Type)
	if err != nil {
		respondError(c, h.logger, "create account", err)
		return
	}

	opening := account.Opening{
		Number:           req.Number,
		Type:             accountType,
		CustomerID:       req.CustomerID,
		Balance:          req.Balance,
		TransactionLimit: req.TransactionLimit,
		Policy: account.Policy{
			HasMaintenanceFee:     req.HasMaintenanceFee,
			CommissionFee:         req.CommissionFee,
			MinimumOpeningBalance: req.MinimumOpeningBalance,
			FreeTransactions:      req.FreeTransactions,
			AuthorizedSigners:     req.AuthorizedSigners,
		},
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), opening)
	if err != nil {
		respondError(c, h.logger, "create account", err)
		return
	}

	RespondCreated(c, CreatedAccountResponse{
		ID:      acc.ID.String(),
		Message: "Account created successfully",
	})
}

func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list accounts", err)
		return
	}
	RespondOK(c, mapAccountsToResponse(accounts))
}

func (h *AccountHandler) ListByCustomer(c *gin.Context) {
	accounts, err := h.accountService.ListCustomerAccounts(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, h.logger, "list customer accounts", err)
		return
	}
	RespondOK(c, mapAccountsToResponse(accounts))
}

func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get account", err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

// Update replaces the mutable policy fields. Type, customer and balance cannot change here.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), id, service.AccountUpdate{
		Policy: account.Policy{
			HasMaintenanceFee:     req.HasMaintenanceFee,
			CommissionFee:         req.CommissionFee,
			MinimumOpeningBalance: req.MinimumOpeningBalance,
			FreeTransactions:      req.FreeTransactions,
			AuthorizedSigners:     req.AuthorizedSigners,
		},
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		respondError(c, h.logger, "update account", err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateBalance(c.Request.Context(), id, *req.Balance)
	if err != nil {
		respondError(c, h.logger, "update balance", err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete account", err)
		return
	}
	RespondNoContent(c)
}

// Activity pages the recorded events of an account, newest first.
func (h *AccountHandler) Activity(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.activityService.ListActivity(c.Request.Context(), id, pagination.Page, pagination.PageSize)
	if err != nil {
		respondError(c, h.logger, "list account activity", err)
		return
	}

	items := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, mapActivityToResponse(entry))
	}
	RespondWithPaginatedData(c, http.StatusOK, items, pagination.Page, pagination.PageSize, int(total))
}

func (h *AccountHandler) accountID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Warn("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}
