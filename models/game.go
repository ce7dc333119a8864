package models

import (
	"gorm.io/gorm"
)

// Game is a catalog entry synced from the external provider. The rolling
// counters are bumped on every debit that matches a known game.
type Game struct {
	gorm.Model

	ProviderCode string  `gorm:"uniqueIndex;size:64" json:"provider_code"`
	Slug         string  `gorm:"index;size:64" json:"slug"`
	Name         string  `gorm:"size:128" json:"name"`
	Category     string  `gorm:"size:32;index" json:"category"`
	RTP          float64 `json:"rtp"`
	Volatility   string  `gorm:"size:16" json:"volatility"`
	Enabled      bool    `gorm:"default:true" json:"enabled"`

	TotalBets    int64 `gorm:"default:0" json:"total_bets"`
	TotalPlayers int64 `gorm:"default:0" json:"total_players"`
}
