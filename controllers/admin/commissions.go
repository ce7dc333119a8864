package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	"github.com/ultraselfai/primebet-sub001/models"
)

func GetActiveCommission(c *fiber.Ctx) error {
	var cfg models.CommissionConfig
	if err := database.DB.Where("active = ?", true).Order("id DESC").
		First(&cfg).Error; err != nil {
		return helpers.JSONError(c, "NO_ACTIVE_COMMISSION_CONFIG")
	}
	return helpers.JSONSuccess(c, "Active commission config", fiber.Map{"config": cfg})
}

type CreateCommissionRequest struct {
	Level1Pct decimal.Decimal `json:"level1_pct"`
	Level2Pct decimal.Decimal `json:"level2_pct"`
	MinPayout decimal.Decimal `json:"min_payout"`
}

// CreateCommission supersedes the current config: the previous active row is
// deactivated and the new one created in one transaction, so exactly one
// config is active at any time.
func CreateCommission(c *fiber.Ctx) error {
	admin, ok := middlewares.ActingUser(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_ADMIN_SESSION")
	}

	var req CreateCommissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Level1Pct.IsNegative() || req.Level2Pct.IsNegative() || req.MinPayout.IsNegative() {
		return helpers.JSONError(c, "INVALID_PERCENTAGES")
	}

	adminID := admin.ID
	cfg := models.CommissionConfig{
		Level1Pct:   req.Level1Pct,
		Level2Pct:   req.Level2Pct,
		MinPayout:   req.MinPayout,
		Active:      true,
		CreatedByID: &adminID,
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CommissionConfig{}).
			Where("active = ?", true).
			UpdateColumn("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&cfg).Error
	})
	if txErr != nil {
		return helpers.JSONError(c, "FAILED_TO_CREATE_COMMISSION_CONFIG")
	}

	return helpers.JSONSuccess(c, "Commission config created", fiber.Map{"config": cfg})
}
