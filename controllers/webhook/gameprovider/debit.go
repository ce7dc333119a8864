package gameprovider

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/events"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/metrics"
	"github.com/ultraselfai/primebet-sub001/models"
	"github.com/ultraselfai/primebet-sub001/wallet"
)

type DebitRequest struct {
	PlayerID     string          `json:"playerId"`
	Amount       decimal.Decimal `json:"amount"`
	RoundID      string          `json:"roundId"`
	GameCode     string          `json:"gameCode"`
	SessionToken string          `json:"sessionToken"`
	Currency     string          `json:"currency"`
	Timestamp    string          `json:"timestamp"`
}

// DebitHandler places a stake: one conditional decrement plus the bet row and
// game counters in a single database transaction. An insufficient balance
// mutates nothing and answers success:false.
func DebitHandler(c *fiber.Ctx) error {
	if err := requireBody(c); err != nil {
		metrics.WebhookRequests.WithLabelValues("debit", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "Body vazio")
	}

	var req DebitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[WEBHOOK] ❌ Debit: failed to parse body: %v", err)
		metrics.WebhookRequests.WithLabelValues("debit", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "JSON inválido")
	}

	userID, err := parsePlayerID(req.PlayerID)
	if err != nil {
		return fail(c, "debit", "invalid", "Jogador inválido")
	}
	if !req.Amount.IsPositive() {
		return fail(c, "debit", "invalid", "Valor da aposta inválido")
	}

	var (
		newBalance   decimal.Decimal
		insufficient bool
		missing      bool
	)

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := wallet.DebitGame(tx, userID, req.Amount)
		if errors.Is(err, wallet.ErrInsufficientBalance) {
			insufficient = true
			newBalance = bal
			return nil
		}
		if errors.Is(err, wallet.ErrWalletNotFound) {
			missing = true
			return nil
		}
		if err != nil {
			return err
		}
		newBalance = bal

		if req.GameCode != "" {
			var game models.Game
			gerr := tx.Where("provider_code = ? OR slug = ?", req.GameCode, req.GameCode).
				First(&game).Error
			switch {
			case gerr == nil:
				if err := placeBet(tx, userID, &game, &req); err != nil {
					return err
				}
			case errors.Is(gerr, gorm.ErrRecordNotFound):
				// Catalog momentarily out of sync; the debit still stands so
				// gameplay keeps flowing, but no bet row is created.
				log.Printf("[WEBHOOK] ⚠️ Debit: unknown game code %q, wallet debited without bet", req.GameCode)
			default:
				return gerr
			}
		}

		return tx.Create(&models.Transaction{
			UserID:        userID,
			TrxType:       models.TrxBet,
			Amount:        req.Amount,
			BalanceBefore: newBalance.Add(req.Amount),
			BalanceAfter:  newBalance,
			Currency:      "BRL",
			RefID:         helpers.NewRefID(),
			Note:          "Aposta via provedor (round " + req.RoundID + ")",
		}).Error
	})

	if txErr != nil {
		log.Printf("[WEBHOOK] ❌ Debit: DB transaction error for player %d: %v", userID, txErr)
		metrics.WebhookRequests.WithLabelValues("debit", "error").Inc()
		return helpers.WebhookInternal(c)
	}

	if missing {
		log.Printf("[WEBHOOK] ❌ Debit: wallet not found for player %d", userID)
		return fail(c, "debit", "missing_player", "Jogador não encontrado")
	}
	if insufficient {
		log.Printf("[WEBHOOK] ⚠️ Debit: insufficient balance for player %d (amount=%s balance=%s)",
			userID, req.Amount, newBalance)
		return fail(c, "debit", "insufficient", "Saldo insuficiente")
	}

	cache.Balances.Invalidate(userID)
	metrics.WebhookRequests.WithLabelValues("debit", "ok").Inc()
	events.Publish(events.TypeWalletDebited, req.PlayerID, fiber.Map{
		"playerId": userID,
		"roundId":  req.RoundID,
		"amount":   req.Amount,
		"balance":  newBalance,
	})

	log.Printf("[WEBHOOK] ✅ Debit: player=%d round=%s amount=%s newBalance=%s",
		userID, req.RoundID, req.Amount, newBalance)

	return c.JSON(fiber.Map{
		"success":   true,
		"playerId":  req.PlayerID,
		"roundId":   req.RoundID,
		"amount":    helpers.Money(req.Amount),
		"balance":   helpers.Money(newBalance),
		"currency":  "BRL",
		"timestamp": helpers.NowStamp(),
	})
}

// placeBet records the ACTIVE round and bumps the game counters. The player
// counter moves only on the user's first bet on this game.
func placeBet(tx *gorm.DB, userID uint, game *models.Game, req *DebitRequest) error {
	var prior int64
	if err := tx.Model(&models.Bet{}).
		Where("user_id = ? AND game_id = ?", userID, game.ID).
		Count(&prior).Error; err != nil {
		return err
	}

	gameID := game.ID
	bet := models.Bet{
		UserID:       userID,
		GameID:       &gameID,
		RoundID:      req.RoundID,
		SessionToken: req.SessionToken,
		Amount:       req.Amount,
		Status:       models.BetActive,
	}
	if err := tx.Create(&bet).Error; err != nil {
		return err
	}

	updates := map[string]any{"total_bets": gorm.Expr("total_bets + 1")}
	if prior == 0 {
		updates["total_players"] = gorm.Expr("total_players + 1")
	}
	return tx.Model(game).UpdateColumns(updates).Error
}
