// Package routes wires the ledger services and registers the HTTP routes.
package routes

import (
	"starlive/internal/config"
	"starlive/internal/handlers"
	"starlive/internal/middleware"
	"starlive/internal/repositories"
	"starlive/internal/services/gateway"
	"starlive/internal/services/limits"
	"starlive/internal/services/notification"
	"starlive/internal/services/reporting"
	"starlive/internal/services/settlement"
	"starlive/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes builds the service graph and registers all routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, redisClient *redis.Client) {
	ledgerRepo := repositories.NewLedgerRepository(db)
	userRepo := repositories.NewUserRepository(db)
	cache := repositories.NewRedisCacheRepository(redisClient)

	walletService := wallet.NewService(ledgerRepo, cache, wallet.Config{
		DefaultCurrency:   config.GetEnv("WALLET_CURRENCY", "USD"),
		MinWithdrawAmount: config.GetInt64Env("MIN_WITHDRAW_AMOUNT", 1000),
	})
	policy := limits.NewPolicy()
	gatewaySim := gateway.NewSimulator(ledgerRepo, walletService, gateway.Config{
		Delay: config.GetDurationEnv("GATEWAY_DELAY", 0),
	})
	settlementService := settlement.NewService(
		ledgerRepo,
		userRepo,
		walletService,
		policy,
		gatewaySim,
		notification.NewService(),
	)
	reportingService := reporting.NewService(ledgerRepo)

	walletHandler := handlers.NewWalletHandler(walletService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)
	transactionHandler := handlers.NewTransactionHandler(reportingService)
	adminHandler := handlers.NewAdminHandler(settlementService, reportingService)

	api := app.Group("/api", middleware.Auth)

	api.Get("/wallet", walletHandler.GetWallet)
	api.Patch("/wallet/settings", walletHandler.UpdateSettings)
	api.Post("/wallet/deposit", settlementHandler.Deposit)
	api.Post("/wallet/withdraw", settlementHandler.Withdraw)
	api.Post("/wallet/transfer", settlementHandler.Transfer)

	api.Get("/transactions", transactionHandler.List)
	api.Get("/transactions/stats", transactionHandler.Stats)

	admin := api.Group("/admin", middleware.AdminOnly)
	admin.Post("/transactions/:id/moderate", adminHandler.Moderate)
	admin.Get("/transactions/pending", adminHandler.PendingQueue)
	admin.Get("/revenue", adminHandler.Revenue)
}
