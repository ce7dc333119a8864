package helpers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// WebhookFailure answers a domain failure the provider can branch on: the
// HTTP status stays 200 and the payload carries success:false. Only transport
// problems (bad JSON, internal errors) use non-2xx codes.
func WebhookFailure(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func WebhookBadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func WebhookInternal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Erro interno",
	})
}

func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Money formats a balance for provider payloads: fixed two decimal places,
// serialized as a JSON number.
func Money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
