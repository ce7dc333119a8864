package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KycDocument struct {
	gorm.Model

	UserID  uint   `gorm:"index" json:"user_id"`
	DocType string `gorm:"size:32" json:"doc_type"`
	FileURL string `gorm:"size:255" json:"file_url"`
	Status  string `gorm:"size:16;default:pending;index" json:"status"`

	Metadata datatypes.JSON `json:"metadata"`

	ReviewedByID *uint      `json:"reviewed_by_id"`
	ReviewNote   string     `gorm:"size:255" json:"review_note"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
}
