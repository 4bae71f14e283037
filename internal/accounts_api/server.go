// Package accounts_api wires the HTTP surface of the bank accounts service.
package accounts_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bank-accounts-service/internal/accounts_api/handler"
	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/bank-accounts-service/internal/config"
	"github.com/gin-gonic/gin"
)

// Services groups what the HTTP handlers depend on.
type Services struct {
	Accounts  service.AccountService
	Activity  service.ActivityService
	Transfers service.TransferService
	Reports   service.ReportService
}

type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

func NewServer(log *slog.Logger, cfg *config.Config, svc Services, checks map[string]HealthChecker) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()
	setupRouter(log, httpRouter, handlers{
		accounts:  handler.NewAccountHandler(log, svc.Accounts, svc.Activity),
		transfers: handler.NewTransferHandler(log, svc.Transfers),
		reports:   handler.NewReportHandler(log, svc.Reports),
	}, checks)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start blocks until the server is stopped. A clean shutdown returns nil.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}
