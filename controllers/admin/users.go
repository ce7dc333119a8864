package admin

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ultraselfai/primebet-sub001/cache"
	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/helpers"
	"github.com/ultraselfai/primebet-sub001/models"
	"github.com/ultraselfai/primebet-sub001/wallet"
)

func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	q := database.DB.Model(&models.User{}).Order("id DESC")
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("email LIKE ? OR phone LIKE ? OR cpf LIKE ?", like, like, like)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_USERS")
	}

	var users []models.User
	if err := q.Limit(perPage).Offset((page - 1) * perPage).Find(&users).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_LIST_USERS")
	}

	return helpers.JSONSuccess(c, "Users retrieved", fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
	})
}

func GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_USER_ID")
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND")
	}

	w, _ := wallet.GetOrCreateGame(database.DB, user.ID)

	resp := fiber.Map{"user": user}
	if w != nil {
		resp["balance"] = helpers.Money(w.Balance)
	}
	return helpers.JSONSuccess(c, "User retrieved", resp)
}

type UpdateUserRequest struct {
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// UpdateUser applies admin edits. Promoting a user to influencer
// auto-generates a referral code if the user has none yet.
func UpdateUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_USER_ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND")
	}

	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Status != nil {
		if *req.Status != models.UserActive && *req.Status != models.UserBlocked {
			return helpers.JSONError(c, "INVALID_STATUS")
		}
		user.Status = *req.Status
	}
	if req.Role != nil {
		switch *req.Role {
		case models.RolePlayer, models.RoleInfluencer, models.RoleAdmin, models.RoleSuperAdmin:
			user.Role = *req.Role
		default:
			return helpers.JSONError(c, "INVALID_ROLE")
		}
		if user.Role == models.RoleInfluencer && user.ReferralCode == "" {
			user.ReferralCode = helpers.GenerateReferralCode()
		}
	}

	if err := database.DB.Save(&user).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_UPDATE_USER")
	}

	return helpers.JSONSuccess(c, "User updated", fiber.Map{"user": user})
}

// DeleteUser is the destructive admin delete. Normal flows block instead.
func DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_USER_ID")
	}

	if err := database.DB.Delete(&models.User{}, id).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_DELETE_USER")
	}

	log.Printf("[ADMIN] 🗑️ User %d deleted", id)
	return helpers.JSONSuccess(c, "User deleted", nil)
}

type AdjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// AdjustBalance applies a manual credit (positive) or debit (negative) to a
// player's game wallet, writing the financial log and invalidating the
// balance cache like any other mutation.
func AdjustBalance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return helpers.JSONError(c, "INVALID_USER_ID")
	}
	userID := uint(id)

	var req AdjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Amount.IsZero() {
		return helpers.JSONError(c, "AMOUNT_REQUIRED")
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return helpers.JSONError(c, "USER_NOT_FOUND")
	}

	var newBalance decimal.Decimal
	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if req.Amount.IsPositive() {
			newBalance, err = wallet.CreditGame(tx, userID, req.Amount)
		} else {
			newBalance, err = wallet.DebitGame(tx, userID, req.Amount.Neg())
		}
		if err != nil {
			return err
		}

		note := req.Note
		if note == "" {
			note = "Ajuste manual via back office"
		}

		return tx.Create(&models.Transaction{
			UserID:        userID,
			TrxType:       models.TrxAdjust,
			Amount:        req.Amount.Abs(),
			BalanceBefore: newBalance.Sub(req.Amount),
			BalanceAfter:  newBalance,
			Currency:      "BRL",
			RefID:         helpers.NewRefID(),
			Note:          note,
		}).Error
	})

	if txErr != nil {
		if errors.Is(txErr, wallet.ErrInsufficientBalance) || errors.Is(txErr, wallet.ErrWalletNotFound) {
			return helpers.JSONError(c, "INSUFFICIENT_BALANCE")
		}
		log.Printf("[ADMIN] ❌ Balance adjust failed for user %d: %v", userID, txErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Erro interno",
		})
	}

	cache.Balances.Invalidate(userID)

	return helpers.JSONSuccess(c, "Balance adjusted", fiber.Map{
		"user_id": userID,
		"balance": helpers.Money(newBalance),
	})
}
