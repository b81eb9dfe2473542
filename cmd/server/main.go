package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/broker"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "storefront"

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, serviceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront")

	tp, err := util.InitTracer(serviceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(context.Background()); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))

	catalogService := service.NewCatalogService(db, redisClient,
		time.Duration(cfg.Shop.CatalogCacheTTLSeconds)*time.Second)
	cartService := service.NewCartService(db)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var notifier service.PurchaseNotifier = service.NewCacheInvalidator(catalogService)
	var catalogWorker *worker.CatalogWorker
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPurchase)
		defer producer.Close()
		notifier = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPurchase, cfg.Kafka.ConsumerGroup)
		catalogWorker = worker.NewCatalogWorker(consumer, catalogService)
		go func() {
			if err := catalogWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Catalog worker error", zap.Error(err))
			}
		}()
	}

	purchaseService := service.NewPurchaseService(db, db, cartService, redisClient, notifier, service.PurchaseConfig{
		MinPhoneLength:  cfg.Shop.MinPhoneLength,
		CheckoutLockTTL: time.Duration(cfg.Shop.CheckoutLockSeconds) * time.Second,
	})

	renderer, err := api.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, cartService, purchaseService, renderer, cfg.Shop.SessionCookieName)
	handler.AddReadinessCheck("database", db)
	handler.AddReadinessCheck("redis", redisClient)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if catalogWorker != nil {
		if err := catalogWorker.Stop(); err != nil {
			logger.Warn("Error stopping catalog worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
