package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bank-accounts-service/internal/config"
	"github.com/bank-accounts-service/internal/data/mongo"
	"github.com/bank-accounts-service/internal/data/postgres"
	"github.com/bank-accounts-service/internal/event_relay/consumer"
	"github.com/bank-accounts-service/internal/event_relay/outbox_poller"
	"github.com/bank-accounts-service/internal/event_relay/service"
	"github.com/bank-accounts-service/internal/logger"
	"github.com/bank-accounts-service/internal/platform/messaging/consumers"
	"github.com/bank-accounts-service/internal/platform/messaging/producers"
	"github.com/bank-accounts-service/internal/platform/persistence"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("event_relay")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)
	log.Info("Starting Event Relay", "app_name", cfg.Application.Name, "env", cfg.Application.Env)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	activityRepo := mongo.NewActivityRepository(log, mongoDB.Database())
	if err := activityRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create activity indexes", "error", err)
		os.Exit(1)
	}

	eventProducer, err := producers.NewAccountEventProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize account event producer", "error", err)
		os.Exit(1)
	}

	// nil when no DLQ topic is configured; the handler copes with that
	dlqProducer, err := producers.NewDLQProducer(log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ producer", "error", err)
		os.Exit(1)
	}

	recorder, err := service.NewWorkerPoolRecorder(log, service.NewRecordingService(log, activityRepo), cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	eventHandler := consumer.NewAccountEventHandler(log, recorder, dlqProducer)
	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		postgresDB,
		outboxRepo,
		outbox_poller.NewKafkaEventPublisher(eventProducer),
		log,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	if err := kafkaConsumer.Subscribe(appCtx, eventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to account events", "error", err)
		cancelAppCtx()
		wg.Wait()
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case <-kafkaConsumer.Done():
		log.Error("Kafka consumer stopped unexpectedly")
	}

	cancelAppCtx()
	log.Info("Starting graceful shutdown...")

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		<-kafkaConsumer.Done()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("Poller and consumer stopped")
	case <-time.After(shutdownTimeout):
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	var shutdownErr error
	if err := recorder.Shutdown(shutdownTimeout); err != nil {
		log.Error("Worker pool did not drain", "error", err)
		shutdownErr = err
	}
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}
	if err := eventProducer.Close(); err != nil {
		log.Error("Error closing account event producer", "error", err)
		shutdownErr = err
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ producer", "error", err)
		shutdownErr = err
	}

	postgresDB.Close()

	mongoCtx, cancelMongo := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelMongo()
	if err := mongoDB.Close(mongoCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}

	if shutdownErr != nil {
		log.Error("Event Relay shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Event Relay shutdown completed successfully")
}
