package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BetActive = "ACTIVE"
	BetWon    = "WON"
	BetLost   = "LOST"
)

// Bet is one wagering round. Created on debit, settled at most once by the
// matching credit (guarded status transition on ACTIVE).
type Bet struct {
	gorm.Model

	UserID uint  `gorm:"index;index:idx_bet_user_round" json:"user_id"`
	GameID *uint `gorm:"index" json:"game_id"`

	RoundID      string `gorm:"size:64;index:idx_bet_user_round" json:"round_id"`
	SessionToken string `gorm:"size:128" json:"session_token"`

	Amount decimal.Decimal `gorm:"type:decimal(20,2)" json:"amount"`
	Status string          `gorm:"size:12;default:ACTIVE;index" json:"status"`
	Result decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"result"`

	RawPayload datatypes.JSON `json:"raw_payload"`
	SettledAt  *time.Time     `json:"settled_at"`
}
