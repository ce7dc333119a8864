package middlewares

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// ProviderAuth guards the webhook group with the shared secret agreed with
// the game provider. Disabled when PROVIDER_WEBHOOK_KEY is unset so local
// play keeps working.
func ProviderAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := os.Getenv("PROVIDER_WEBHOOK_KEY")
		if expected == "" {
			return c.Next()
		}

		got := c.Get("X-Provider-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Chave de provedor inválida",
			})
		}
		return c.Next()
	}
}
