package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionConfig follows the single-active-row pattern: a new config row
// supersedes the previous one, which gets deactivated in the same transaction.
type CommissionConfig struct {
	gorm.Model

	Level1Pct decimal.Decimal `gorm:"type:decimal(5,2)" json:"level1_pct"`
	Level2Pct decimal.Decimal `gorm:"type:decimal(5,2)" json:"level2_pct"`
	MinPayout decimal.Decimal `gorm:"type:decimal(20,2)" json:"min_payout"`
	Active    bool            `gorm:"index" json:"active"`

	CreatedByID *uint `json:"created_by_id"`
}
