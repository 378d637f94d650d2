// The history worker consumes search events from RabbitMQ and persists them
// to Postgres for per-user history and admin analytics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/config"
	"github.com/tubeseek/search-service-go/internal/repository"
	"github.com/tubeseek/search-service-go/internal/service"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

const handleTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		logger.Log.Fatal("Failed to parse database config", zap.Error(err))
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Log.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Log.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Log.Info("Database connection established")

	publisher, err := service.NewMessagePublisher(&cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	deliveries, err := publisher.Consume()
	if err != nil {
		logger.Log.Fatal("Failed to start consuming", zap.Error(err))
	}

	recorder := service.NewHistoryRecorder(repository.New(pool))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	logger.Log.Info("History worker started",
		zap.String("queue", cfg.RabbitMQ.Queue),
	)

	for {
		select {
		case sig := <-shutdown:
			logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))
			return
		case delivery, ok := <-deliveries:
			if !ok {
				logger.Log.Error("Delivery channel closed, exiting")
				os.Exit(1)
			}
			handleDelivery(recorder, delivery)
		}
	}
}

// handleDelivery processes one message. Malformed events are rejected without
// requeue (they will never parse); store failures are requeued for retry.
func handleDelivery(recorder *service.HistoryRecorder, delivery amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := recorder.HandleMessage(ctx, delivery.Body); err != nil {
		requeue := !errors.Is(err, service.ErrBadEvent)
		logger.Log.Warn("Failed to handle search event",
			zap.Error(err),
			zap.Bool("requeue", requeue),
			zap.String("messageId", delivery.MessageId),
		)
		_ = delivery.Nack(false, requeue)
		return
	}

	_ = delivery.Ack(false)
}
