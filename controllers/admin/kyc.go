package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/middlewares"
	"github.com/ultraselfai/primebet-sub001/models"
)

func ListPendingKyc(c *fiber.Ctx) error {
	var docs []models.KycDocument
	if err := database.DB.Where("status = ?", models.KycPending).
		Order("id ASC").Find(&docs).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_KYC")
	}
	return helpers.JSONSuccess(c, "Pending documents", fiber.Map{"documents": docs})
}

type ReviewKycRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ReviewKyc approves or rejects a document, stamping the reviewer audit
// fields and moving the user's KYC status in the same transaction.
func ReviewKyc(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_DOCUMENT_ID")
	}

	reviewer, ok := middlewares.ActingUser(c)
	if !ok {
		return helpers.JSONError(c, "INVALID_ADMIN_SESSION")
	}

	var req ReviewKycRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var doc models.KycDocument
	if err := database.DB.First(&doc, id).Error; err != nil {
		return helpers.JSONError(c, "DOCUMENT_NOT_FOUND")
	}
	if doc.Status != models.KycPending {
		return helpers.JSONError(c, "DOCUMENT_ALREADY_REVIEWED")
	}

	status := models.KycRejected
	userStatus := models.KycRejected
	if req.Approve {
		status = models.KycApproved
		userStatus = models.KycApproved
	}

	now := time.Now()
	reviewerID := reviewer.ID

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.KycDocument{}).
			Where("id = ? AND status = ?", doc.ID, models.KycPending).
			Updates(map[string]any{
				"status":         status,
				"reviewed_by_id": reviewerID,
				"review_note":    req.Note,
				"reviewed_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.User{}).Where("id = ?", doc.UserID).
			UpdateColumn("kyc_status", userStatus).Error
	})

	if txErr != nil {
		return helpers.JSONError(c, "FAILED_TO_REVIEW_DOCUMENT")
	}

	return helpers.JSONSuccess(c, "Document reviewed", fiber.Map{
		"document_id": doc.ID,
		"status":      status,
	})
}
