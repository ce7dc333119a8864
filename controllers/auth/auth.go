// Package auth is the thin credential-login collaborator: it mints DB-backed
// session tokens and admin impersonation tokens. Everything downstream
// resolves identity through middlewares.SessionAuth.
package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	"github.com/ultraselfai/primebet-sub001/models"
)

const sessionTTL = 24 * time.Hour

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Email == "" || req.Password == "" {
		return helpers.JSONError(c, "EMAIL_AND_PASSWORD_REQUIRED")
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return helpers.JSONError(c, "INVALID_CREDENTIALS")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return helpers.JSONError(c, "INVALID_CREDENTIALS")
	}
	if user.Status == models.UserBlocked {
		return helpers.JSONError(c, "USER_BLOCKED")
	}

	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		log.Printf("[AUTH] ❌ Failed to create session for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Erro interno",
		})
	}

	return helpers.JSONSuccess(c, "Login efetuado", fiber.Map{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"role":       user.Role,
	})
}

type ImpersonateRequest struct {
	UserID uint `json:"user_id"`
}

// Impersonate lets an administrator act as a player for up to 4 hours
// without a re-login. Admin-gated in the route table.
func Impersonate(c *fiber.Ctx) error {
	admin, ok := middlewares.ActingUser(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_ADMIN_SESSION")
	}

	var req ImpersonateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.UserID == 0 {
		return helpers.JSONError(c, "USER_ID_REQUIRED")
	}

	var target models.User
	if err := database.DB.First(&target, req.UserID).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND")
	}

	token, err := middlewares.IssueImpersonationToken(target.ID, admin.ID)
	if err != nil {
		log.Printf("[AUTH] ❌ Failed to sign impersonation token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Erro interno",
		})
	}

	log.Printf("[AUTH] 👤 Admin %d impersonating user %d", admin.ID, target.ID)

	return helpers.JSONSuccess(c, "Token de personificação emitido", fiber.Map{
		"token":      token,
		"expires_in": int(middlewares.ImpersonationTTL.Seconds()),
	})
}
