package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tubeseek/search-service-go/internal/cache"
	"github.com/tubeseek/search-service-go/internal/config"
	"github.com/tubeseek/search-service-go/internal/handler"
	"github.com/tubeseek/search-service-go/internal/middleware"
	"github.com/tubeseek/search-service-go/internal/repository"
	"github.com/tubeseek/search-service-go/internal/service"
	"github.com/tubeseek/search-service-go/internal/service/categories"
	"github.com/tubeseek/search-service-go/internal/service/refiner"
	"github.com/tubeseek/search-service-go/internal/service/search"
	"github.com/tubeseek/search-service-go/internal/service/youtube"
	"github.com/tubeseek/search-service-go/pkg/logger"
)

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

	// Credential problems are reported once here, never per request.
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	logger.Log.Info("Database connection established",
		zap.Int32("maxConns", pool.Config().MaxConns),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	publisher, err := service.NewMessagePublisher(&cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	youtubeClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.Timeout)
	if err != nil {
		logger.Log.Fatal("Failed to initialize YouTube client", zap.Error(err))
	}

	refinerClient := refiner.NewClient(refiner.Config{
		BaseURL: cfg.Refiner.BaseURL,
		Model:   cfg.Refiner.Model,
		APIKey:  cfg.Refiner.APIKey,
		Timeout: cfg.Refiner.Timeout,
	})

	repo := repository.New(pool)
	categoryStore := cache.NewRedisCategoryStore(redisClient)
	dispatcher := search.New(youtubeClient, refinerClient, publisher)
	categoryService := categories.New(categoryStore, dispatcher)

	searchHandler := handler.NewSearchHandler(dispatcher)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	analyticsHandler := handler.NewAnalyticsHandler(repo)
	healthHandler := handler.NewHealthHandler(repo, categoryStore, publisher)

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	api.POST("/search", searchHandler.HandleSearch)
	api.GET("/categories/:category", categoryHandler.HandleCategoryVideos)

	admin := api.Group("/admin", middleware.APIKeyAuth(cfg.Server.AdminAPIKeys))
	admin.GET("/analytics/searches", analyticsHandler.HandleSearchCounts)
	admin.GET("/analytics/top-queries", analyticsHandler.HandleTopQueries)
	admin.GET("/history/:userId", analyticsHandler.HandleUserHistory)

	router.GET("/healthz", healthHandler.LivenessProbe)
	router.GET("/readyz", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}

// initDatabase initializes the database connection pool.
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
