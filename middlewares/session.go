package middlewares

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/models"
)

// ImpersonationTTL is how long an admin-issued impersonation token stays
// valid.
const ImpersonationTTL = 4 * time.Hour

func impersonationSecret() []byte {
	return []byte(os.Getenv("IMPERSONATION_SECRET"))
}

// IssueImpersonationToken signs a short-lived token letting adminID act as
// userID without a re-login.
func IssueImpersonationToken(userID, adminID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": float64(userID),
		"imp": float64(adminID),
		"iat": now.Unix(),
		"exp": now.Add(ImpersonationTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(impersonationSecret())
}

func parseImpersonationToken(raw string) (userID uint, adminID uint, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return impersonationSecret(), nil
	})
	if err != nil || !tok.Valid {
		return 0, 0, jwt.ErrTokenUnverifiable
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, 0, jwt.ErrTokenInvalidClaims
	}
	imp, _ := claims["imp"].(float64)
	return uint(sub), uint(imp), nil
}

// SessionAuth resolves the effective acting user once per request and stores
// it in c.Locals("user"). Resolution order:
//
//  1. X-Impersonation-Token header, whose embedded user id takes precedence.
//  2. Bearer session token looked up in the sessions table.
//
// On read paths (strict=false) a malformed impersonation token is treated as
// absent and resolution falls through to the session. On mutation paths
// (strict=true) it is rejected outright.
func SessionAuth(strict bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Get("X-Impersonation-Token"); raw != "" {
			userID, adminID, err := parseImpersonationToken(raw)
			if err == nil {
				var user models.User
				if dberr := database.DB.First(&user, userID).Error; dberr == nil {
					c.Locals("user", user)
					c.Locals("impersonated_by", adminID)
					return c.Next()
				}
				log.Printf("[AUTH] ⚠️ Impersonation token for unknown user id=%d", userID)
			} else {
				log.Printf("[AUTH] ⚠️ Malformed impersonation token: %v", err)
				if strict {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"success": false,
						"error":   "Token de personificação inválido",
					})
				}
			}
		}

		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Não autenticado",
			})
		}

		var session models.Session
		if err := database.DB.Where("token = ? AND expires_at > ?", token, time.Now()).
			First(&session).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Sessão inválida ou expirada",
			})
		}

		var user models.User
		if err := database.DB.First(&user, session.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Sessão inválida ou expirada",
			})
		}

		if user.Status == models.UserBlocked {
			return helpers.JSONError(c, "USER_BLOCKED")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	auth := c.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return c.Cookies("session_token")
}

// ActingUser pulls the resolved user out of locals.
func ActingUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}
