// Command seed loads a starter dataset: one branch, the standard product
// catalog, and an admin user. Intended for development databases.
package main

import (
	"context"
	"os"

	"bakeops/internal/config"
	"bakeops/internal/domain/auth"
	"bakeops/internal/domain/catalogs/branch"
	"bakeops/internal/domain/catalogs/product"
	"bakeops/internal/core/types"
	"bakeops/internal/infrastructure/storage/postgres"
	"bakeops/internal/infrastructure/storage/postgres/auth_repo"
	"bakeops/internal/infrastructure/storage/postgres/catalog_repo"
	"bakeops/pkg/logger"
	"bakeops/pkg/numerator"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "load config", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, "connect database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	numGen := numerator.New(pool)

	branchService := branch.NewService(catalog_repo.NewBranchRepo(txm), numGen)
	productService := product.NewService(catalog_repo.NewProductRepo(txm), numGen)

	b := branch.NewBranch("BR-00001", "Main Bakery", "Addis Ababa")
	if err := branchService.Create(ctx, b); err != nil {
		logger.Fatal(ctx, "seed branch", "error", err)
	}

	products := []*product.Product{
		rawMaterial("Premium Flour", product.TypeFlour, "20"),
		rawMaterial("Instant Yeast", product.TypeYeast, "50"),
		rawMaterial("Dough Enhancer", product.TypeEnhancer, "80"),
		bread(),
		injera(),
	}
	for _, p := range products {
		if err := productService.Create(ctx, p); err != nil {
			logger.Fatal(ctx, "seed product", "name", p.Name, "error", err)
		}
	}

	seedAdmin(ctx, txm)

	logger.Info(ctx, "seed complete", "branch_id", b.ID)
}

func rawMaterial(name string, t product.Type, costPerKG string) *product.Product {
	p := product.NewProduct("", name, t)
	p.CostPerKG = types.MustMoney(costPerKG)
	return p
}

func bread() *product.Product {
	p := product.NewProduct("", "Standard Bread", product.TypeBread)
	p.FlourKG = types.NewQuantityFromFloat64(2)
	p.YeastKG = types.NewQuantityFromFloat64(0.1)
	p.EnhancerKG = types.NewQuantityFromFloat64(0.05)
	p.WaterBirr = types.MustMoney("5")
	p.ElectricityBirr = types.MustMoney("3")
	p.SellingPrice = types.MustMoney("150")
	return p
}

func injera() *product.Product {
	p := product.NewProduct("", "Injera", product.TypeInjera)
	p.FlourKG = types.NewQuantityFromFloat64(0.5)
	p.YeastKG = types.NewQuantityFromFloat64(0.02)
	p.WaterBirr = types.MustMoney("2")
	p.ElectricityBirr = types.MustMoney("1.5")
	p.SellingPrice = types.MustMoney("40")
	return p
}

func seedAdmin(ctx context.Context, txm *postgres.TxManager) {
	email := envOr("SEED_ADMIN_EMAIL", "admin@bakeops.local")
	password := envOr("SEED_ADMIN_PASSWORD", "changeme123")

	userRepo := auth_repo.NewUserRepo(txm)
	authService := auth.NewService(userRepo, txm, nil, auth.DefaultServiceConfig())

	user, err := authService.Register(ctx, auth.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
	})
	if err != nil {
		logger.Fatal(ctx, "seed admin user", "error", err)
	}

	user.IsAdmin = true
	if err := userRepo.Update(ctx, user); err != nil {
		logger.Fatal(ctx, "promote admin user", "error", err)
	}

	logger.Info(ctx, "admin user created", "email", email)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
