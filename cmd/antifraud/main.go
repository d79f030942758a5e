package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antifraud-service/internal/api"
	"github.com/antifraud-service/internal/blacklistfeed"
	"github.com/antifraud-service/internal/config"
	"github.com/antifraud-service/internal/data/mongo"
	"github.com/antifraud-service/internal/data/postgres"
	"github.com/antifraud-service/internal/engine"
	"github.com/antifraud-service/internal/logger"
	"github.com/antifraud-service/internal/platform/messaging/consumers"
	"github.com/antifraud-service/internal/platform/messaging/producers"
	"github.com/antifraud-service/internal/platform/persistence"
	"github.com/antifraud-service/internal/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("antifraud")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Antifraud Service",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
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

	// Initialize Kafka producers
	verdictProducer, err := producers.NewVerdictEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize verdict event producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer is nil when no DLQ topic is configured. Handler is nil-safe,
	// but the nil pointer must not be boxed into the publisher interface.
	var dlqPublisher producers.DeadLetterPublisher
	if dlqProducer != nil {
		dlqPublisher = dlqProducer
	}

	// Initialize repositories
	suspiciousIPRepo := postgres.NewSuspiciousIPRepository(log, postgresDB)
	stolenCardRepo := postgres.NewStolenCardRepository(log, postgresDB)
	transactionRepo := mongo.NewTransactionRepository(log, mongoDB.Database())

	// Initialize services
	blacklistService := service.NewBlacklistService(log, suspiciousIPRepo, stolenCardRepo)
	riskEngine := engine.New(log, transactionRepo, blacklistService, engine.Limits{
		MaxAllowed: cfg.Engine.MaxAllowed,
		MaxManual:  cfg.Engine.MaxManual,
	})
	transactionService := service.NewTransactionService(log, riskEngine, transactionRepo, verdictProducer)

	// Initialize blacklist feed consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)
	feedHandler := blacklistfeed.NewEventHandler(log, blacklistService, dlqPublisher)
	pooledHandler, err := blacklistfeed.NewWorkerPoolHandler(feedHandler, blacklistfeed.WorkerPoolConfig{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		log.Error("Failed to initialize blacklist worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, transactionService, blacklistService)
	log.Info("REST server initialized")

	// Create error channel for component errors
	errChan := make(chan error, 2)

	// Start HTTP server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start blacklist feed consumer
	log.Info("Starting blacklist feed consumer",
		"topic", cfg.Kafka.BlacklistTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)
	if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.BlacklistTopic, cfg.Kafka.ConsumerGroup, pooledHandler.HandleMessage); err != nil {
		errChan <- fmt.Errorf("kafka consumer error: %w", err)
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown the blacklist worker pool
	log.Info("Shutting down worker pool", "running_workers", pooledHandler.Running())
	pooledHandler.Shutdown()

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Close Kafka producers
	if err = verdictProducer.Close(); err != nil {
		log.Error("Error closing verdict event producer", "error", err)
	}
	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Antifraud Service shutdown with errors", "error", serviceErr)
	} else {
		log.Info("Antifraud Service shutdown completed successfully")
	}
}
