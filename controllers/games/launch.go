// Package games serves the player-facing game catalog and launch endpoint.
package games

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	"github.com/ultraselfai/primebet-sub001/models"
	"github.com/ultraselfai/primebet-sub001/providers"
)

func ListEnabled(c *fiber.Ctx) error {
	q := database.DB.Where("enabled = ?", true).Order("name ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var games []models.Game
	if err := q.Find(&games).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_GAMES")
	}
	return helpers.JSONSuccess(c, "Games retrieved", fiber.Map{"games": games})
}

type LaunchGameRequest struct {
	GameCode string `json:"game_code"`
	Lang     string `json:"lang"`
	Platform string `json:"platform"`
}

// Launch asks the provider for a session URL for the acting user.
func Launch(c *fiber.Ctx) error {
	user, ok := middlewares.ActingUser(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_SESSION")
	}

	var req LaunchGameRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.GameCode == "" {
		return helpers.JSONError(c, "GAME_CODE_REQUIRED")
	}

	var game models.Game
	if err := database.DB.Where("(provider_code = ? OR slug = ?) AND enabled = ?",
		req.GameCode, req.GameCode, true).First(&game).Error; err != nil {
		return helpers.JSONError(c, "GAME_NOT_FOUND_OR_DISABLED")
	}

	launcher := providers.GetProvider("default")
	if launcher == nil {
		return helpers.JSONError(c, "PROVIDER_NOT_CONFIGURED")
	}

	lang := req.Lang
	if lang == "" {
		lang = "pt"
	}

	url, err := launcher.StartGame(providers.LaunchRequest{
		UserCode: fmt.Sprintf("%d", user.ID),
		GameCode: game.ProviderCode,
		Lang:     lang,
		Platform: req.Platform,
		Currency: "BRL",
		IP:       c.IP(),
	})
	if err != nil {
		log.Printf("[GAMES] ❌ Launch failed for user %d game %s: %v", user.ID, game.ProviderCode, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Falha ao iniciar o jogo",
		})
	}

	return helpers.JSONSuccess(c, "Game session created", fiber.Map{
		"launch_url": url,
	})
}
