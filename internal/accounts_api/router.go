package accounts_api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bank-accounts-service/internal/accounts_api/handler"
	"github.com/bank-accounts-service/internal/accounts_api/middleware"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker is a dependency the health endpoint pings, keyed by name.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	accounts  *handler.AccountHandler
	transfers *handler.TransferHandler
	reports   *handler.ReportHandler
}

func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, checks map[string]HealthChecker) {
	// CorrelationID runs first so the logger and recovery see the id
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger, handler.RespondInternalError))
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", h.accounts.Create)
			accounts.GET("", h.accounts.List)
			accounts.GET("/:id", h.accounts.GetByID)
			accounts.PUT("/:id", h.accounts.Update)
			accounts.PATCH("/:id/balance", h.accounts.UpdateBalance)
			accounts.DELETE("/:id", h.accounts.Delete)
			accounts.GET("/:id/activity", h.accounts.Activity)
		}

		v1.GET("/customers/:customerId/accounts", h.accounts.ListByCustomer)
		v1.POST("/transfers", h.transfers.Create)

		reports := v1.Group("/reports")
		{
			reports.GET("/daily-balance/:customerId", h.reports.DailyBalance)
			reports.GET("/commissions", h.reports.Commissions)
		}
	}

	r.GET("/health", healthHandler(checks))
}

// healthHandler reports 503 when any dependency fails its ping.
func healthHandler(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		deps := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check.Ping(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "dependencies": deps, "timestamp": time.Now().UTC()})
	}
}
