package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bakeops/internal/config"
	"bakeops/internal/domain/auth"
	"bakeops/internal/domain/catalogs/branch"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/domain/documents/stocktxn"
	"bakeops/internal/domain/finance"
	"bakeops/internal/domain/registers/inventory"
	v1 "bakeops/internal/infrastructure/http/v1"
	"bakeops/internal/infrastructure/storage/postgres"
	"bakeops/internal/infrastructure/storage/postgres/auth_repo"
	"bakeops/internal/infrastructure/storage/postgres/catalog_repo"
	"bakeops/internal/infrastructure/storage/postgres/document_repo"
	"bakeops/internal/infrastructure/storage/postgres/finance_repo"
	"bakeops/internal/infrastructure/storage/postgres/register_repo"
	"bakeops/pkg/logger"
	"bakeops/pkg/numerator"
)

var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "load config", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		logger.Fatal(ctx, "init logger", "error", err)
	}
	ctx = logger.WithLogger(ctx, log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, "connect database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	numGen := numerator.New(pool)

	// Repositories
	branchRepo := catalog_repo.NewBranchRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)
	txnRepo := document_repo.NewStockTxnRepo(txm)
	balanceRepo := register_repo.NewInventoryRepo(txm)
	entryRepo := finance_repo.NewEntryRepo(txm)
	userRepo := auth_repo.NewUserRepo(txm)

	// Services
	branchService := branch.NewService(branchRepo, numGen)
	productService := product.NewService(productRepo, numGen)
	inventoryService := inventory.NewService(balanceRepo, txm)
	stockService := stocktxn.NewService(txnRepo, productService, inventoryService, txm, numGen)
	financeService := finance.NewService(entryRepo)

	// Financial derivation listens on committed stock movements
	deriver := finance.NewDeriver(entryRepo, productService, txm)
	stockService.Subscribe(deriver)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWTSecret,
		Issuer:         "bakeops",
		AccessTokenTTL: cfg.JWTAccessTTL,
	})
	authService := auth.NewService(userRepo, txm, jwtService, auth.DefaultServiceConfig())

	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool.Unwrap(),
		Logger:           log,
		JWTValidator:     jwtService,
		Version:          version,
		AuthService:      authService,
		BranchService:    branchService,
		ProductService:   productService,
		StockService:     stockService,
		InventoryService: inventoryService,
		FinanceService:   financeService,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info(ctx, "server starting", "addr", cfg.HTTPAddr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}

	logger.Info(ctx, "server stopped")
}
