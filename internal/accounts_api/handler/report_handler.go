package handler

import (
	"log/slog"
	"time"

	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// DailyBalance returns account number -> balance divided by the current day of month.
func (h *ReportHandler) DailyBalance(c *gin.Context) {
	report, err := h.reportService.DailyBalance(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, h.logger, "compute daily balance", err)
		return
	}
	RespondOK(c, report)
}

func (h *ReportHandler) Commissions(c *gin.Context) {
	var query CommissionReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "start_date and end_date are required")
		return
	}

	start, err := time.Parse(reportDateLayout, query.StartDate)
	if err != nil {
		RespondBadRequest(c, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	end, err := time.Parse(reportDateLayout, query.EndDate)
	if err != nil {
		RespondBadRequest(c, "end_date must be formatted as YYYY-MM-DD")
		return
	}

	accounts, err := h.reportService.Commissions(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, "compute commission report", err)
		return
	}
	RespondOK(c, mapAccountsToResponse(accounts))
}
