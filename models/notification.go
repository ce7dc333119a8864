package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model

	Title    string         `gorm:"size:128" json:"title"`
	Body     string         `gorm:"size:512" json:"body"`
	Data     datatypes.JSON `json:"data"`
	Audience string         `gorm:"size:16;default:all" json:"audience"`

	SentCount int64      `gorm:"default:0" json:"sent_count"`
	SentAt    *time.Time `json:"sent_at"`
}
