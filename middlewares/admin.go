package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ultraselfai/primebet-sub001/models"
)

// RequireRole gates a route group on a role allowlist. Must run after
// SessionAuth.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		user, ok := ActingUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Não autenticado",
			})
		}
		if !allowed[user.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Acesso negado",
			})
		}
		return c.Next()
	}
}

// AdminOnly is the common gate for the back office.
func AdminOnly() fiber.Handler {
	return RequireRole(models.RoleAdmin, models.RoleSuperAdmin)
}
