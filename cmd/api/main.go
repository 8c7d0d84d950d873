package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pos-platform/sales-service/internal/application"
	mongoRepo "github.com/pos-platform/sales-service/internal/infrastructure/mongodb"
	"github.com/pos-platform/sales-service/pkg/logging"
	"github.com/pos-platform/sales-service/pkg/metrics"
	"github.com/pos-platform/sales-service/pkg/middleware"
	"github.com/pos-platform/sales-service/pkg/mongodb"
)

const serviceName = "sales-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting sales-service API")

	config := loadConfig()
	ctx := context.Background()

	m := metrics.New(metrics.DefaultConfig(serviceName))

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Repositories
	productRepo := mongoRepo.NewProductRepository(mongoClient, m)
	saleRepo := mongoRepo.NewSaleRepository(mongoClient, m)
	pendingOrderRepo := mongoRepo.NewPendingOrderRepository(mongoClient, m)
	activityRepo := mongoRepo.NewActivityRepository(mongoClient, m)
	customerRepo := mongoRepo.NewCustomerRepository(mongoClient, m)
	actorDirectory := mongoRepo.NewActorDirectory(mongoClient, m)

	for _, idx := range []interface {
		EnsureIndexes(ctx context.Context) error
	}{productRepo, saleRepo, activityRepo, customerRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to ensure indexes")
		}
	}

	// Application services
	ledger := application.NewStockLedger(productRepo)
	audit := application.NewAuditWriter(actorDirectory, activityRepo)

	salesService := application.NewSalesService(
		mongoClient, saleRepo, pendingOrderRepo, ledger, audit,
		logger, m, mongodb.IsTransientTransactionError,
	)
	productService := application.NewProductService(mongoClient, productRepo, ledger, audit, logger, m)
	customerService := application.NewCustomerService(mongoClient, customerRepo, audit, logger, m)
	pendingOrderService := application.NewPendingOrderService(pendingOrderRepo, logger)
	activityService := application.NewActivityService(activityRepo, logger, m)

	// Background retention sweep for the audit trail
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go activityService.RunRetentionSweeper(sweepCtx, config.RetentionSweepInterval)
	logger.Info("Retention sweeper started", "interval", config.RetentionSweepInterval.String())

	// Router
	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.Metrics(m))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(config.JWTSecret))
	{
		api.POST("/transactions", createSaleHandler(salesService))
		api.GET("/transactions", listSalesHandler(salesService))
		api.GET("/transactions/:id", getSaleHandler(salesService))
		api.PUT("/transactions/:id", updateSaleHandler(salesService))
		api.DELETE("/transactions/:id", deleteSaleHandler(salesService))

		api.POST("/products", createProductHandler(productService))
		api.GET("/products", listProductsHandler(productService))
		api.GET("/products/:id", getProductHandler(productService))
		api.PUT("/products/:id", updateProductHandler(productService))
		api.DELETE("/products/:id", deleteProductHandler(productService))

		api.POST("/customers", createCustomerHandler(customerService))
		api.GET("/customers", listCustomersHandler(customerService))
		api.GET("/customers/:id", getCustomerHandler(customerService))
		api.PUT("/customers/:id", updateCustomerHandler(customerService))
		api.DELETE("/customers/:id", deleteCustomerHandler(customerService))

		api.GET("/pending-orders", listPendingOrdersHandler(pendingOrderService))
		api.GET("/pending-orders/:id", getPendingOrderHandler(pendingOrderService))
		api.PATCH("/pending-orders/:id/status", setPendingOrderStatusHandler(pendingOrderService))
		api.POST("/pending-orders/:id/acknowledge", acknowledgePendingOrderHandler(pendingOrderService))

		api.GET("/activities", listActivitiesHandler(activityService))
	}

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr             string
	JWTSecret              string
	RetentionSweepInterval time.Duration
	MongoDB                *mongodb.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr:             getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:              getEnv("JWT_SECRET", "dev-change-me"),
		RetentionSweepInterval: getEnvDuration("RETENTION_SWEEP_INTERVAL", 6*time.Hour),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "pos"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    uint64(getEnvInt("MONGODB_MAX_POOL_SIZE", 100)),
			MinPoolSize:    uint64(getEnvInt("MONGODB_MIN_POOL_SIZE", 10)),
			TxnTimeout:     getEnvDuration("MONGODB_TXN_TIMEOUT", 15*time.Second),
			ReplicaSet:     getEnv("MONGODB_REPLICA_SET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
