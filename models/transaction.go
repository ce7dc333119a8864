package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TrxDeposit  = "deposit"
	TrxWithdraw = "withdraw"
	TrxBonus    = "bonus"
	TrxAdjust   = "adjust"
	TrxBet      = "bet"
	TrxWin      = "win"
)

// Transaction is the admin-visible financial log, independent of Bet.
type Transaction struct {
	gorm.Model

	UserID        uint            `gorm:"index" json:"user_id"`
	TrxType       string          `gorm:"size:16;index" json:"trx_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(20,2)" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(20,2)" json:"balance_after"`
	Currency      string          `gorm:"size:8;default:BRL" json:"currency"`
	RefID         string          `gorm:"size:64;index" json:"ref_id"`
	Note          string          `gorm:"size:255" json:"note"`
}
