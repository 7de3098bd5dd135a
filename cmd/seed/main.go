// Package main seeds the database with the initial catalog: ingredient
// categories, the menu, and an admin user. Safe to re-run; existing
// records are skipped.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fogon/internal/core/apperror"
	"fogon/internal/core/id"
	"fogon/internal/core/types"
	"fogon/internal/domain/auth"
	"fogon/internal/domain/catalogs/product"
	"fogon/internal/domain/inventory"
	"fogon/internal/infrastructure/storage/postgres"
	"fogon/internal/infrastructure/storage/postgres/auth_repo"
	"fogon/internal/infrastructure/storage/postgres/catalog_repo"
	"fogon/pkg/logger"
)

type menuEntry struct {
	name     string
	category string
	price    float64
}

var categories = []string{"SALSAS", "PROTEÍNAS", "OTROS", "DESECHABLES"}

var menu = []menuEntry{
	{"Hamburguesa Clásica", "Hamburguesas", 5.00},
	{"Hamburguesa Pollo Crispy", "Hamburguesas", 7.00},
	{"Perro Normal", "Perros", 2.00},
	{"Perro con Huevo", "Perros", 2.50},
	{"Perro con Carne", "Perros", 3.50},
	{"Papas Fritas (Porción)", "Acompañantes", 2.50},
	{"Salchipapas", "Acompañantes", 5.00},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	if err := seedCategories(ctx, txManager, log); err != nil {
		log.Fatalw("seeding categories failed", "error", err)
	}
	if err := seedProducts(ctx, txManager, log); err != nil {
		log.Fatalw("seeding products failed", "error", err)
	}
	if err := seedAdmin(ctx, txManager, log); err != nil {
		log.Fatalw("seeding admin user failed", "error", err)
	}

	log.Info("seed complete")
}

func seedCategories(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewCategoryRepo(txManager)
	for _, name := range categories {
		if _, err := repo.FindByName(ctx, name); err == nil {
			continue
		} else if !apperror.IsNotFound(err) {
			return err
		}
		category := &inventory.Category{
			ID:        id.New(),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, category); err != nil {
			return err
		}
		log.Infow("category created", "name", name)
	}
	return nil
}

func seedProducts(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := catalog_repo.NewProductRepo(txManager)
	service := product.NewService(repo)
	for _, entry := range menu {
		if _, err := repo.FindByName(ctx, entry.name); err == nil {
			continue
		} else if !apperror.IsNotFound(err) {
			return err
		}
		p := product.NewProduct(entry.name, entry.category, types.NewMoney(entry.price))
		if err := service.Create(ctx, p); err != nil {
			return err
		}
		log.Infow("product created", "name", entry.name)
	}
	return nil
}

func seedAdmin(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	userRepo := auth_repo.NewUserRepo(txManager)
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(getEnv("JWT_SECRET", "seed-only-secret")))
	service := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	email := getEnv("ADMIN_EMAIL", "admin@fogon.local")
	password := getEnv("ADMIN_PASSWORD", "changeme123")

	exists, err := userRepo.Exists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		log.Infow("admin user already exists", "email", email)
		return nil
	}

	user, err := service.CreateUser(ctx, email, "Administrador", password, auth.RoleAdmin)
	if err != nil {
		return err
	}
	log.Infow("admin user created", "email", user.Email)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
