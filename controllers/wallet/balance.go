// Package wallet exposes the internal read API the player UI polls for
// balances. Reads go through the balance cache; the store stays the single
// source of truth.
package wallet

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	walletstore "github.com/ultraselfai/primebet-sub001/wallet"
)

// GameBalance serves GET /api/wallet/game for the acting user (session or
// impersonation). Cached for up to 5 seconds; any debit/credit invalidates
// the entry first.
func GameBalance(c *fiber.Ctx) error {
	user, ok := middlewares.ActingUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Não autenticado",
		})
	}

	c.Set("Cache-Control", "private, max-age=5")

	if bal, hit := cache.Balances.Get(user.ID); hit {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    fiber.Map{"balance": helpers.Money(bal)},
		})
	}

	w, err := walletstore.GetOrCreateGame(database.DB, user.ID)
	if err != nil {
		log.Printf("[WALLET] ❌ Balance read failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Erro interno",
		})
	}

	cache.Balances.Set(user.ID, w.Balance)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"balance": helpers.Money(w.Balance)},
	})
}

// InvestBalance serves the investment wallet snapshot (principal + accrued
// yields).
func InvestBalance(c *fiber.Ctx) error {
	user, ok := middlewares.ActingUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Não autenticado",
		})
	}

	w, err := walletstore.GetOrCreateInvest(database.DB, user.ID)
	if err != nil {
		log.Printf("[WALLET] ❌ Invest read failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Erro interno",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"principal": helpers.Money(w.Principal),
			"yields":    helpers.Money(w.Yields),
		},
	})
}
