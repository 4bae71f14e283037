package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bank-accounts-service/internal/accounts_api"
	"github.com/bank-accounts-service/internal/accounts_api/service"
	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/data/mongo"
	"github.com/bank-accounts-service/internal/data/postgres"
	"github.com/bank-accounts-service/internal/logger"
	"github.com/bank-accounts-service/internal/platform/directory"
	"github.com/bank-accounts-service/internal/platform/persistence"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("accounts_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	log.Info("Starting Accounts API", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		postgresDB.Close()
		os.Exit(1)
	}

	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())

	customers := directory.NewCustomerClient(log, cfg.Directory)
	credits := directory.NewCreditClient(log, cfg.Directory)

	services := accounts_api.Services{
		Accounts:  service.NewAccountService(log, postgresDB, accountRepo, outboxRepo, customers, credits),
		Activity:  service.NewActivityService(activityRepo),
		Transfers: service.NewTransferService(log, postgresDB, accountRepo, outboxRepo),
		Reports:   service.NewReportService(log, accountRepo),
	}

	server := accounts_api.NewServer(log, cfg, services, map[string]accounts_api.HealthChecker{
		"postgres": postgresDB,
		"mongodb":  mongoDB,
	})

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case serverErr = <-errChan:
		log.Error("Server error occurred", "error", serverErr)
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// stop accepting requests before the pools go away
	var shutdownErr error
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if serverErr != nil || shutdownErr != nil {
		log.Error("Accounts API shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Accounts API shutdown completed successfully")
}
