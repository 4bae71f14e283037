package handler

import (
	"log/slog"

	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Create moves funds between two accounts; the transfer either fully applies or not at all.
func (h *TransferHandler) Create(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// binding already checked both ids
	fromID := uuid.MustParse(req.FromAccountID)
	toID := uuid.MustParse(req.ToAccountID)

	if err := h.transferService.Transfer(c.Request.Context(), fromID, toID, req.Amount); err != nil {
		respondError(c, h.logger, "transfer", err)
		return
	}

	RespondOK(c, MessageResponse{Message: "Transfer completed successfully"})
}
