package models

import (
	"gorm.io/gorm"
)

const (
	RolePlayer     = "player"
	RoleInfluencer = "influencer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

const (
	UserActive  = "active"
	UserBlocked = "blocked"
)

const (
	KycNone     = "none"
	KycPending  = "pending"
	KycApproved = "approved"
	KycRejected = "rejected"
)

type User struct {
	gorm.Model

	Email        string `gorm:"uniqueIndex;size:128" json:"email"`
	Phone        string `gorm:"size:32" json:"phone"`
	CPF          string `gorm:"size:16;index" json:"cpf"`
	PasswordHash string `gorm:"size:128" json:"-"`
	Role         string `gorm:"size:16;default:player;index" json:"role"`
	Status       string `gorm:"size:16;default:active" json:"status"`
	KycStatus    string `gorm:"size:16;default:none" json:"kyc_status"`

	ReferralCode string `gorm:"size:16;index" json:"referral_code"`
	ReferredByID *uint  `gorm:"index" json:"referred_by_id"`
	ReferredBy   *User  `gorm:"foreignKey:ReferredByID" json:"-"`

	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
	Bets         []Bet         `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
