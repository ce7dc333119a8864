// Package wallet owns the atomic balance operations over WalletGame and
// WalletInvest rows. Debit and credit are expressed as single conditional
// UPDATEs at the database so concurrent requests for the same user can never
// lose updates or drive a balance negative.
package wallet

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ultraselfai/primebet-sub001/models"
)

var (
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrWalletNotFound      = errors.New("carteira não encontrada")
)

// GetOrCreateGame returns the user's game wallet, creating it with balance 0
// when missing. The create is an ON CONFLICT DO NOTHING upsert, so two
// concurrent first-reads are both safe.
func GetOrCreateGame(db *gorm.DB, userID uint) (*models.WalletGame, error) {
	w := models.WalletGame{UserID: userID, Currency: "BRL", Balance: decimal.Zero}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&w).Error; err != nil {
		return nil, err
	}

	var out models.WalletGame
	if err := db.Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// DebitGame decrements the balance by amount in one conditional UPDATE:
//
//	UPDATE wallet_games SET balance = balance - ? WHERE user_id = ? AND balance >= ?
//
// RowsAffected == 0 means either the wallet is missing or the balance was
// insufficient; in both cases nothing was mutated. Returns the balance after
// the operation.
func DebitGame(db *gorm.DB, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	res := db.Model(&models.WalletGame{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}

	if res.RowsAffected == 0 {
		var w models.WalletGame
		if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, ErrWalletNotFound
			}
			return decimal.Zero, err
		}
		return w.Balance, ErrInsufficientBalance
	}

	return readBalance(db, userID)
}

// CreditGame increments the balance by amount. Credits are unconditionally
// additive: the wallet is created if absent and the update cannot fail on
// a balance precondition.
func CreditGame(db *gorm.DB, userID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if _, err := GetOrCreateGame(db, userID); err != nil {
		return decimal.Zero, err
	}

	res := db.Model(&models.WalletGame{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}

	return readBalance(db, userID)
}

// BalanceGame reads the current balance without creating the wallet.
// A missing wallet reads as zero.
func BalanceGame(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var w models.WalletGame
	if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrWalletNotFound
		}
		return decimal.Zero, err
	}
	return w.Balance, nil
}

func readBalance(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var w models.WalletGame
	if err := db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}

// GetOrCreateInvest mirrors GetOrCreateGame for the investment wallet.
func GetOrCreateInvest(db *gorm.DB, userID uint) (*models.WalletInvest, error) {
	w := models.WalletInvest{
		UserID:    userID,
		Currency:  "BRL",
		Principal: decimal.Zero,
		Yields:    decimal.Zero,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&w).Error; err != nil {
		return nil, err
	}

	var out models.WalletInvest
	if err := db.Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// AccrueYields applies rate to every funded investment wallet in a single
// UPDATE. Used by the yield scheduler.
func AccrueYields(db *gorm.DB, rate decimal.Decimal) (int64, error) {
	res := db.Model(&models.WalletInvest{}).
		Where("principal > 0").
		UpdateColumn("yields", gorm.Expr("yields + principal * ?", rate))
	return res.RowsAffected, res.Error
}
