package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	menuapp "github.com/laviddichterman/wcp-order-backend-sub000/internal/application/menu"
	orderingapp "github.com/laviddichterman/wcp-order-backend-sub000/internal/application/ordering"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/cache"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/config"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/event"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/logger"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/persistence"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, cfg.Log.Level)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	modifierTypeRepo := persistence.NewGormModifierTypeRepository(db.DB)
	modifierOptionRepo := persistence.NewGormModifierOptionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	instanceRepo := persistence.NewGormProductInstanceRepository(db.DB)
	functionRepo := persistence.NewGormInstanceFunctionRepository(db.DB)
	printerGroupRepo := persistence.NewGormPrinterGroupRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Event bus
	bus := event.NewInMemoryEventBus(event.Config{
		BufferSize: cfg.Event.BufferSize,
		Workers:    cfg.Event.Workers,
	}, log)
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Square client with a shared idempotency key store. Redis keeps
	// issued keys visible across instances; fall back to the local
	// store when Redis is unreachable in development.
	var idempotency pos.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(&cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotency = cache.NewInMemoryIdempotencyStore()
	} else {
		defer redisStore.Close()
		idempotency = redisStore
	}

	var squareClient *pos.SquareClient
	if cfg.Square.SuppressSync && cfg.Square.AccessToken == "" {
		log.Warn("Square sync suppressed and no access token configured, running catalog-local only")
	} else {
		squareCfg := pos.NewSquareConfig(cfg.Square.AccessToken, cfg.Square.LocationID)
		squareCfg.APIBaseURL = cfg.Square.BaseURL
		squareCfg.TimeoutSeconds = int(cfg.Square.Timeout / time.Second)
		squareCfg.RetryMaxAttempts = cfg.Square.MaxRetries
		squareCfg.RetryBaseWait = cfg.Square.RetryBaseDelay
		squareClient, err = pos.NewSquareClient(squareCfg, idempotency, log)
		if err != nil {
			log.Fatal("Failed to create Square client", zap.Error(err))
		}
	}

	var catalogClient menuapp.POSCatalogClient
	if squareClient != nil {
		catalogClient = squareClient
	}

	// Catalog core
	catalogService := menuapp.NewCatalogService(
		categoryRepo,
		modifierTypeRepo,
		modifierOptionRepo,
		productRepo,
		instanceRepo,
		functionRepo,
		printerGroupRepo,
		catalogClient,
		bus,
		log,
		menuapp.Config{
			SuppressSquareSync:  cfg.Square.SuppressSync || squareClient == nil,
			ForceCatalogRebuild: cfg.Square.ForceCatalogRebuild,
		},
	)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := catalogService.Bootstrap(bootCtx); err != nil {
		bootCancel()
		log.Fatal("Failed to bootstrap catalog", zap.Error(err))
	}
	bootCancel()

	// Order intake. Assign the payment client only when a Square client
	// exists; a typed-nil pointer would make the interface non-nil and
	// sneak past the service's disabled-payments guard.
	var paymentClient orderingapp.PaymentClient
	if squareClient != nil {
		paymentClient = squareClient
	}
	orderService := orderingapp.NewOrderService(
		orderRepo,
		catalogService,
		paymentClient,
		bus,
		log,
		orderingapp.Config{
			TaxRate:    decimal.NewFromFloat(cfg.Ordering.TaxRate),
			LocationID: cfg.Square.LocationID,
		},
	)

	if open, err := orderService.OpenOrders(context.Background()); err != nil {
		log.Warn("Failed to count open orders", zap.Error(err))
	} else {
		log.Info("Order backend ready", zap.Int("open_orders", len(open)))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bus.Stop(ctx); err != nil {
		log.Error("Event bus did not stop cleanly", zap.Error(err))
	}

	log.Info("Exited gracefully")
}
