package routes

import (
	"github.com/ultraselfai/primebet-sub001/controllers/admin"
	"github.com/ultraselfai/primebet-sub001/controllers/auth"
	"github.com/ultraselfai/primebet-sub001/controllers/games"
	walletapi "github.com/ultraselfai/primebet-sub001/controllers/wallet"
	"github.com/ultraselfai/primebet-sub001/controllers/webhook/gameprovider"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	"github.com/ultraselfai/primebet-sub001/models"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	app.Post("/auth/login", auth.Login)

	// provider webhooks, gated by the shared key
	hooks := app.Group("/webhooks/game-provider", middlewares.ProviderAuth())
	hooks.Post("/debit", gameprovider.DebitHandler)
	hooks.Post("/credit", gameprovider.CreditHandler)
	hooks.Post("/balance", gameprovider.BalanceHandler)
	hooks.Get("/debit", gameprovider.InfoHandler("debit"))
	hooks.Get("/credit", gameprovider.InfoHandler("credit"))
	hooks.Get("/balance", gameprovider.InfoHandler("balance"))

	// player API: read paths tolerate a malformed impersonation token,
	// mutating routes get the strict check on top
	api := app.Group("/api", middlewares.SessionAuth(false))
	api.Get("/wallet/game", walletapi.GameBalance)
	api.Get("/wallet/invest", walletapi.InvestBalance)
	api.Get("/games", games.ListEnabled)
	api.Post("/games/launch", middlewares.SessionAuth(true), games.Launch)

	// back office
	adm := app.Group("/admin", middlewares.SessionAuth(true), middlewares.AdminOnly())
	adm.Post("/impersonate", auth.Impersonate)

	adm.Get("/users", admin.ListUsers)
	adm.Get("/users/:id", admin.GetUser)
	adm.Patch("/users/:id", admin.UpdateUser)
	adm.Delete("/users/:id", admin.DeleteUser)
	adm.Post("/users/:id/balance", admin.AdjustBalance)

	adm.Get("/kyc/pending", admin.ListPendingKyc)
	adm.Post("/kyc/:id/review", admin.ReviewKyc)

	adm.Get("/commissions/active", admin.GetActiveCommission)
	adm.Post("/commissions", middlewares.RequireRole(models.RoleSuperAdmin), admin.CreateCommission)

	adm.Get("/games", admin.ListGames)
	adm.Post("/games/sync", admin.SyncCatalog)
	adm.Patch("/games/:id/enabled", admin.SetGameEnabled)

	adm.Get("/notifications", admin.ListNotifications)
	adm.Post("/notifications", admin.CreateNotification)
}
