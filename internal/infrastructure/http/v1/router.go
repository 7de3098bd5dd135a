// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"fogon/internal/domain/audit"
	"fogon/internal/domain/auth"
	"fogon/internal/domain/catalogs/product"
	"fogon/internal/domain/finance"
	"fogon/internal/domain/inventory"
	"fogon/internal/domain/purchasing"
	"fogon/internal/domain/rates"
	"fogon/internal/domain/recipes"
	"fogon/internal/domain/sales"
	"fogon/internal/domain/shopping"
	"fogon/internal/infrastructure/http/v1/handlers"
	"fogon/internal/infrastructure/http/v1/middleware"
	"fogon/internal/infrastructure/storage/postgres"
	"fogon/internal/infrastructure/storage/postgres/catalog_repo"
	"fogon/internal/infrastructure/storage/postgres/finance_repo"
	"fogon/internal/infrastructure/storage/postgres/inventory_repo"
	"fogon/internal/infrastructure/storage/postgres/sales_repo"
	"fogon/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *postgres.Pool

	// TxManager drives transactions for all repositories.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service

	// RateProvider supplies the USD/VES exchange rate.
	RateProvider rates.Provider

	// Auditor records domain events. Nil disables auditing.
	Auditor audit.Recorder

	// Reconciler tunes bulk-purchase reconciliation.
	Reconciler purchasing.ReconcilerConfig
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories
	itemRepo := inventory_repo.NewItemRepo(cfg.TxManager)
	recipeRepo := inventory_repo.NewRecipeRepo(cfg.TxManager)
	shoppingRepo := inventory_repo.NewShoppingRepo(cfg.TxManager)
	purchaseRepo := inventory_repo.NewPurchaseRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	saleRepo := sales_repo.NewSaleRepo(cfg.TxManager)
	financeRepo := finance_repo.NewFinanceRepo(cfg.TxManager)

	// Services
	inventoryService := inventory.NewService(itemRepo, categoryRepo)
	productService := product.NewService(productRepo)
	recipeService := recipes.NewService(recipeRepo, cfg.TxManager, cfg.Auditor)
	saleService := sales.NewService(saleRepo, recipeService, itemRepo, shoppingRepo, cfg.TxManager, cfg.Auditor)
	shoppingManager := shopping.NewManager(shoppingRepo, itemRepo, purchaseRepo, cfg.TxManager, cfg.Auditor)
	reconciler := purchasing.NewReconciler(purchaseRepo, itemRepo, categoryRepo, cfg.TxManager, cfg.Auditor, cfg.Reconciler)
	financeService := finance.NewService(financeRepo)

	// Handlers
	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	inventoryHandler := handlers.NewInventoryHandler(base, inventoryService)
	productHandler := handlers.NewProductHandler(base, productService)
	recipeHandler := handlers.NewRecipeHandler(base, recipeService)
	saleHandler := handlers.NewSaleHandler(base, saleService)
	shoppingHandler := handlers.NewShoppingHandler(base, shoppingManager)
	purchaseHandler := handlers.NewPurchaseHandler(base, reconciler)
	financeHandler := handlers.NewFinanceHandler(base, financeService)

	api := router.Group("/api/v1")
	{
		// Public auth endpoint
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// User management (admin only)
		users := protected.Group("/auth/users", middleware.RequireRole(auth.RoleAdmin))
		{
			users.POST("", authHandler.CreateUser)
			users.GET("", authHandler.ListUsers)
		}

		// Product catalog and recipes
		products := protected.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.POST("", middleware.RequireRole(auth.RoleAdmin), productHandler.Create)
			products.PUT("/:id", middleware.RequireRole(auth.RoleAdmin), productHandler.Update)
			products.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin), productHandler.Deactivate)
			products.GET("/:id/recipe", recipeHandler.Get)
			products.PUT("/:id/recipe", middleware.RequireRole(auth.RoleAdmin), recipeHandler.Save)
		}

		// Inventory ledger
		inv := protected.Group("/inventory")
		{
			inv.GET("", inventoryHandler.Snapshot)
			inv.GET("/categories", inventoryHandler.Categories)
			inv.POST("/categories", middleware.RequireRole(auth.RoleAdmin), inventoryHandler.CreateCategory)
			inv.GET("/:id", inventoryHandler.Get)
			inv.POST("", middleware.RequireRole(auth.RoleAdmin), inventoryHandler.Create)
			inv.PUT("/:id", middleware.RequireRole(auth.RoleAdmin), inventoryHandler.Update)
		}

		// Sales
		salesGroup := protected.Group("/sales")
		{
			salesGroup.POST("", saleHandler.Create)
			salesGroup.GET("", saleHandler.List)
			salesGroup.GET("/:id", saleHandler.Get)
		}

		// Replenishment list
		shoppingGroup := protected.Group("/shopping")
		{
			shoppingGroup.GET("", shoppingHandler.List)
			shoppingGroup.POST("/confirm", shoppingHandler.Confirm)
			shoppingGroup.DELETE("/:id", shoppingHandler.Remove)
		}

		// Purchases
		purchases := protected.Group("/purchases")
		{
			purchases.POST("/bulk", purchaseHandler.Bulk)
			purchases.GET("", purchaseHandler.List)
			purchases.GET("/item/:id", purchaseHandler.ListByItem)
		}

		// Finance movements (admin only)
		financeGroup := protected.Group("/finance", middleware.RequireRole(auth.RoleAdmin))
		{
			financeGroup.GET("", financeHandler.Overview)
			financeGroup.POST("/expenses", financeHandler.CreateExpense)
			financeGroup.POST("/investments", financeHandler.CreateInvestment)
			financeGroup.POST("/withdrawals", financeHandler.CreateWithdrawal)
			financeGroup.GET("/statements", financeHandler.ListStatements)
			financeGroup.POST("/statements", financeHandler.CreateStatement)
		}

		// Exchange rate
		if cfg.RateProvider != nil {
			rateHandler := handlers.NewRateHandler(base, cfg.RateProvider)
			protected.GET("/rates/current", rateHandler.Current)
		}
	}

	return router
}
