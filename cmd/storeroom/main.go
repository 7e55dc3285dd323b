package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/storeroom-app/storeroom/internal/app"
	"github.com/storeroom-app/storeroom/internal/auth"
	"github.com/storeroom-app/storeroom/internal/expense"
	"github.com/storeroom-app/storeroom/internal/inventory"
	"github.com/storeroom-app/storeroom/internal/masterdata/categories"
	"github.com/storeroom-app/storeroom/internal/masterdata/products"
	"github.com/storeroom-app/storeroom/internal/masterdata/suppliers"
	"github.com/storeroom-app/storeroom/internal/observability"
	"github.com/storeroom-app/storeroom/internal/platform/cache"
	"github.com/storeroom-app/storeroom/internal/platform/db"
	"github.com/storeroom-app/storeroom/internal/report"
	"github.com/storeroom-app/storeroom/internal/shared"
	"github.com/storeroom-app/storeroom/internal/stock"
)

func runMigrations(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, dir)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := runMigrations(cfg.PGDSN, cfg.MigrationsDir); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool))
	inventoryService := inventory.NewService(inventory.NewRepository(pool))
	categoryService := categories.NewService(categories.NewRepository(pool))
	productService := products.NewService(products.NewRepository(pool))
	supplierService := suppliers.NewService(suppliers.NewRepository(pool))
	stockService := stock.NewService(logger, stock.NewLedger(pool), stock.NewRepository(pool), auditLogger)
	expenseService := expense.NewService(expense.NewRepository(pool))
	reportService := report.NewService(report.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,

		AuthHandler:      auth.NewHandler(logger, authService, inventoryService, sessionManager),
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		InventoryService: inventoryService,
		CategoryHandler:  categories.NewHandler(logger, categoryService),
		ProductHandler:   products.NewHandler(logger, productService, categoryService),
		SupplierHandler:  suppliers.NewHandler(logger, supplierService),
		StockHandler:     stock.NewHandler(logger, stockService, productService, supplierService),
		ExpenseHandler:   expense.NewHandler(logger, expenseService),
		ReportHandler:    report.NewHandler(logger, reportService),

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("shutdown complete")
}
