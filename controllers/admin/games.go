package admin

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/models"
	"github.com/ultraselfai/primebet-sub001/providers"
)

func ListGames(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Game{}).Order("name ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var games []models.Game
	if err := q.Find(&games).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_GAMES")
	}
	return helpers.JSONSuccess(c, "Games retrieved", fiber.Map{"games": games})
}

// SyncCatalog pulls the provider's catalog and upserts it by provider code.
// Counters are preserved; only catalog attributes are refreshed.
func SyncCatalog(c *fiber.Ctx) error {
	client := providers.Default()
	if client == nil {
		return helpers.JSONError(c, "PROVIDER_NOT_CONFIGURED")
	}

	catalog, err := client.ListGames()
	if err != nil {
		log.Printf("[ADMIN] ❌ Catalog sync failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   "Falha ao consultar o provedor",
		})
	}

	synced := 0
	for _, g := range catalog {
		game := models.Game{
			ProviderCode: g.Code,
			Slug:         g.Slug,
			Name:         g.Name,
			Category:     g.Category,
			RTP:          g.RTP,
			Volatility:   g.Volatility,
			Enabled:      true,
		}
		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"slug", "name", "category", "rtp", "volatility",
			}),
		}).Create(&game).Error
		if err != nil {
			log.Printf("[ADMIN] ⚠️ Failed to upsert game %s: %v", g.Code, err)
			continue
		}
		synced++
	}

	log.Printf("[ADMIN] ✅ Catalog sync: %d/%d games", synced, len(catalog))
	return helpers.JSONSuccess(c, "Catalog synced", fiber.Map{
		"synced": synced,
		"total":  len(catalog),
	})
}

type SetGameEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func SetGameEnabled(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_GAME_ID")
	}

	var req SetGameEnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	res := database.DB.Model(&models.Game{}).Where("id = ?", id).
		UpdateColumn("enabled", req.Enabled)
	if res.Error != nil || res.RowsAffected == 0 {
		return helpers.JSONError(c, "GAME_NOT_FOUND")
	}

	return helpers.JSONSuccess(c, "Game updated", fiber.Map{
		"game_id": id,
		"enabled": req.Enabled,
	})
}
