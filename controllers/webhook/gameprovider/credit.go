package gameprovider

import (
	"errors"
	"log"
	"time"

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

type CreditRequest struct {
	PlayerID   string          `json:"playerId"`
	Amount     decimal.Decimal `json:"amount"`
	RoundID    string          `json:"roundId"`
	GameCode   string          `json:"gameCode"`
	WinType    string          `json:"winType"`
	Multiplier float64         `json:"multiplier"`
}

// CreditHandler settles a round. The credit itself is unconditionally
// additive; bet settlement is strict by (player, round) with a guarded
// ACTIVE -> WON|LOST transition so a round can never settle twice. The
// most-recent-active-bet fallback survives only for credits that carry no
// roundId, behind an explicitly logged degraded-match path.
func CreditHandler(c *fiber.Ctx) error {
	if err := requireBody(c); err != nil {
		metrics.WebhookRequests.WithLabelValues("credit", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "Body vazio")
	}

	var req CreditRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[WEBHOOK] ❌ Credit: failed to parse body: %v", err)
		metrics.WebhookRequests.WithLabelValues("credit", "invalid").Inc()
		return helpers.WebhookBadRequest(c, "JSON inválido")
	}

	userID, err := parsePlayerID(req.PlayerID)
	if err != nil {
		return fail(c, "credit", "invalid", "Jogador inválido")
	}
	if req.Amount.IsNegative() {
		return fail(c, "credit", "invalid", "Valor de crédito inválido")
	}

	var (
		newBalance decimal.Decimal
		settledBet *models.Bet
	)

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := wallet.CreditGame(tx, userID, req.Amount)
		if err != nil {
			return err
		}
		newBalance = bal

		bet, err := locateActiveBet(tx, userID, req.RoundID)
		if err != nil {
			return err
		}
		if bet == nil {
			return logCredit(tx, userID, req, newBalance)
		}

		status := models.BetLost
		if req.Amount.IsPositive() {
			status = models.BetWon
		}

		// Guarded transition: only the first credit for this bet flips it
		// out of ACTIVE.
		now := time.Now()
		res := tx.Model(&models.Bet{}).
			Where("id = ? AND status = ?", bet.ID, models.BetActive).
			Updates(map[string]any{
				"status":     status,
				"result":     req.Amount,
				"settled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("[WEBHOOK] ⚠️ Credit: bet id=%d already settled, credit applied without settlement", bet.ID)
		} else {
			bet.Status = status
			bet.Result = req.Amount
			bet.SettledAt = &now
			settledBet = bet
		}

		return logCredit(tx, userID, req, newBalance)
	})

	if txErr != nil {
		log.Printf("[WEBHOOK] ❌ Credit: DB transaction error for player %d: %v", userID, txErr)
		metrics.WebhookRequests.WithLabelValues("credit", "error").Inc()
		return helpers.WebhookInternal(c)
	}

	cache.Balances.Invalidate(userID)
	metrics.WebhookRequests.WithLabelValues("credit", "ok").Inc()

	if settledBet != nil {
		events.Publish(events.TypeBetSettled, req.PlayerID, fiber.Map{
			"playerId": userID,
			"betId":    settledBet.ID,
			"roundId":  settledBet.RoundID,
			"status":   settledBet.Status,
			"result":   settledBet.Result,
		})
	} else {
		events.Publish(events.TypeWalletCredited, req.PlayerID, fiber.Map{
			"playerId": userID,
			"roundId":  req.RoundID,
			"amount":   req.Amount,
		})
	}

	log.Printf("[WEBHOOK] ✅ Credit: player=%d round=%s amount=%s newBalance=%s",
		userID, req.RoundID, req.Amount, newBalance)

	return c.JSON(fiber.Map{
		"success":   true,
		"playerId":  req.PlayerID,
		"amount":    helpers.Money(req.Amount),
		"balance":   helpers.Money(newBalance),
		"currency":  "BRL",
		"timestamp": helpers.NowStamp(),
	})
}

// locateActiveBet matches strictly by (user, round) when a roundId is given.
// A credit with a roundId that matches nothing settles no bet; that is an
// auditable anomaly, not a reason to grab an unrelated bet. Only credits
// without a roundId fall back to the player's most recent ACTIVE bet (some
// game types omit the round), and that path is logged and metered.
func locateActiveBet(tx *gorm.DB, userID uint, roundID string) (*models.Bet, error) {
	var bet models.Bet

	if roundID != "" {
		err := tx.Where("user_id = ? AND round_id = ? AND status = ?", userID, roundID, models.BetActive).
			Order("id DESC").First(&bet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[WEBHOOK] ⚠️ Credit anomaly: no ACTIVE bet for player=%d round=%s", userID, roundID)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &bet, nil
	}

	err := tx.Where("user_id = ? AND status = ?", userID, models.BetActive).
		Order("id DESC").First(&bet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	metrics.DegradedMatches.Inc()
	log.Printf("[WEBHOOK] ⚠️ Credit degraded match: no roundId, settling most recent ACTIVE bet id=%d for player=%d", bet.ID, userID)
	return &bet, nil
}

func logCredit(tx *gorm.DB, userID uint, req CreditRequest, balance decimal.Decimal) error {
	if !req.Amount.IsPositive() {
		return nil
	}
	return tx.Create(&models.Transaction{
		UserID:        userID,
		TrxType:       models.TrxWin,
		Amount:        req.Amount,
		BalanceBefore: balance.Sub(req.Amount),
		BalanceAfter:  balance,
		Currency:      "BRL",
		RefID:         helpers.NewRefID(),
		Note:          "Prêmio via provedor (round " + req.RoundID + ")",
	}).Error
}
