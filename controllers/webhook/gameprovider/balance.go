package gameprovider

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/metrics"
	"github.com/ultraselfai/primebet-sub001/models"
	"github.com/ultraselfai/primebet-sub001/wallet"
)

type BalanceRequest struct {
	PlayerID     string `json:"playerId"`
	SessionToken string `json:"sessionToken"`
	GameCode     string `json:"gameCode"`
	Currency     string `json:"currency"`
}

// BalanceHandler is the read-only polling endpoint. A missing wallet reads
// as zero and triggers an idempotent lazy create off the response path; the
// provider never sees an error for an unknown wallet.
func BalanceHandler(c *fiber.Ctx) error {
	if err := requireBody(c); err != nil {
		metrics.WebhookRequests.WithLabelValues("balance", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "Body vazio")
	}

	var req BalanceRequest
	if err := c.BodyParser(&req); err != nil {
		metrics.WebhookRequests.WithLabelValues("balance", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "JSON inválido")
	}

	userID, err := parsePlayerID(req.PlayerID)
	if err != nil {
		return fail(c, "balance", "invalid", "Jogador inválido")
	}

	if bal, ok := cache.Balances.Get(userID); ok {
		metrics.WebhookRequests.WithLabelValues("balance", "ok").Inc()
		return c.JSON(fiber.Map{
			"success":   true,
			"playerId":  req.PlayerID,
			"balance":   helpers.Money(bal),
			"currency":  "BRL",
			"timestamp": helpers.NowStamp(),
		})
	}

	bal, err := wallet.BalanceGame(database.DB, userID)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		lazyCreateWallet(userID)
		metrics.WebhookRequests.WithLabelValues("balance", "ok").Inc()
		return c.JSON(fiber.Map{
			"success":   true,
			"playerId":  req.PlayerID,
			"balance":   0.0,
			"currency":  "BRL",
			"timestamp": helpers.NowStamp(),
		})
	}
	if err != nil {
		log.Printf("[WEBHOOK] ❌ Balance: DB error for player %d: %v", userID, err)
		metrics.WebhookRequests.WithLabelValues("balance", "error").Inc()
		return helpers.WebhookInternal(c)
	}

	cache.Balances.Set(userID, bal)
	metrics.WebhookRequests.WithLabelValues("balance", "ok").Inc()

	return c.JSON(fiber.Map{
		"success":   true,
		"playerId":  req.PlayerID,
		"balance":   helpers.Money(bal),
		"currency":  "BRL",
		"timestamp": helpers.NowStamp(),
	})
}

// lazyCreateWallet provisions the missing wallet row off the request path.
// The upsert makes concurrent first-reads safe; a wallet is only created for
// users that actually exist.
func lazyCreateWallet(userID uint) {
	go func() {
		var count int64
		if err := database.DB.Model(&models.User{}).Where("id = ?", userID).
			Count(&count).Error; err != nil || count == 0 {
			return
		}
		if _, err := wallet.GetOrCreateGame(database.DB, userID); err != nil {
			log.Printf("[WEBHOOK] ⚠️ Balance: lazy wallet create failed for player %d: %v", userID, err)
		}
	}()
}
