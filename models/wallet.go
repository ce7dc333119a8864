package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletGame holds the authoritative casino balance for a user. Rows are
// created lazily on first access; the balance is mutated only through the
// atomic increment/decrement helpers in the wallet package.
type WalletGame struct {
	gorm.Model

	UserID   uint            `gorm:"uniqueIndex" json:"user_id"`
	Balance  decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"balance"`
	Currency string          `gorm:"size:8;default:BRL" json:"currency"`
}

type WalletInvest struct {
	gorm.Model

	UserID    uint            `gorm:"uniqueIndex" json:"user_id"`
	Principal decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"principal"`
	Yields    decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"yields"`
	Currency  string          `gorm:"size:8;default:BRL" json:"currency"`
}
