package admin

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/models"
)

func ListNotifications(c *fiber.Ctx) error {
	var items []models.Notification
	if err := database.DB.Order("id DESC").Limit(100).Find(&items).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_NOTIFICATIONS")
	}
	return helpers.JSONSuccess(c, "Notifications retrieved", fiber.Map{"notifications": items})
}

type CreateNotificationRequest struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data"`
	Audience string         `json:"audience"`
}

// CreateNotification authors a push notification and fans it out to the
// selected audience. Delivery itself is the external push collaborator; here
// the fan-out resolves the audience and records the sent counter.
func CreateNotification(c *fiber.Ctx) error {
	var req CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Title == "" || req.Body == "" {
		return helpers.JSONError(c, "TITLE_AND_BODY_REQUIRED")
	}

	audience := req.Audience
	if audience == "" {
		audience = "all"
	}

	q := database.DB.Model(&models.User{}).Where("status = ?", models.UserActive)
	switch audience {
	case "all":
	case "players":
		q = q.Where("role = ?", models.RolePlayer)
	case "influencers":
		q = q.Where("role = ?", models.RoleInfluencer)
	default:
		return helpers.JSONError(c, "INVALID_AUDIENCE")
	}

	var recipients int64
	if err := q.Count(&recipients).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_RESOLVE_AUDIENCE")
	}

	var data datatypes.JSON
	if req.Data != nil {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return helpers.JSONError(c, "INVALID_DATA_PAYLOAD")
		}
		data = raw
	}

	now := time.Now()
	notif := models.Notification{
		Title:     req.Title,
		Body:      req.Body,
		Data:      data,
		Audience:  audience,
		SentCount: recipients,
		SentAt:    &now,
	}
	if err := database.DB.Create(&notif).Error; err != nil {
		log.Printf("[ADMIN] ❌ Failed to create notification: %v", err)
		return helpers.JSONError(c, "FAILED_TO_CREATE_NOTIFICATION")
	}

	log.Printf("[ADMIN] 📣 Notification %d sent to %d recipients (%s)", notif.ID, recipients, audience)
	return helpers.JSONSuccess(c, "Notification sent", fiber.Map{"notification": notif})
}
