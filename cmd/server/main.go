// Package main is the entry point for the barback API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barback/internal/config"
	"barback/internal/domain/catalog/product"
	"barback/internal/domain/expense"
	"barback/internal/domain/pnl"
	"barback/internal/domain/sales"
	"barback/internal/domain/till"
	"barback/internal/infrastructure/cache"
	v1 "barback/internal/infrastructure/http/v1"
	"barback/internal/infrastructure/storage/postgres"
	"barback/internal/scheduler"
	"barback/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting barback server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Report cache ---
	// Redis is optional. Without it every report recomputes from the
	// stores, which is fine for a single register.
	var reportCache interface {
		pnl.ReportCache
		sales.Invalidator
	}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisReportCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalw("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		}
		defer redisCache.Close()
		log.Infow("report cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Reports.CacheTTL)
		reportCache = redisCache
	} else {
		log.Info("report cache disabled, reports recompute on every request")
		reportCache = cache.NewNoopReportCache()
	}

	// --- Repositories ---
	productRepo := postgres.NewProductRepo(txm)
	salesRepo := postgres.NewSalesRepo(txm)
	receiptRepo := postgres.NewReceiptRepo(txm)
	expenseRepo := postgres.NewExpenseRepo(txm)
	tillRepo := postgres.NewTillRepo(txm)

	// --- Services ---
	productService := product.NewService(productRepo)

	salesService, err := sales.NewService(salesRepo, productRepo, receiptRepo, reportCache, txm, sales.Config{
		TaxRate:      cfg.Store.TaxRate,
		StoreName:    cfg.Store.Name,
		StoreAddress: cfg.Store.Address,
	})
	if err != nil {
		log.Fatalw("failed to create sales service", "error", err)
	}

	expenseService := expense.NewService(expenseRepo, reportCache)
	tillService := till.NewService(tillRepo, salesRepo)
	reportService := pnl.NewService(salesRepo, productRepo, expenseRepo, reportCache, cfg.Reports.CacheTTL)

	// --- Nightly digest ---
	digest := scheduler.New(reportService, pool, cfg.Reports.DigestCron, log)
	if err := digest.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "spec", cfg.Reports.DigestCron, "error", err)
	}
	defer digest.Stop()

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:     pool,
		Logger:   log,
		Products: productService,
		Sales:    salesService,
		Expenses: expenseService,
		Till:     tillService,
		Reports:  reportService,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
