package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationToken stores an outstanding email verification code. Only the
// SHA-256 hash of the code is persisted; the plain code exists only in the
// email that carried it. Tokens are single-use and expire after a few minutes.
type VerificationToken struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"index;not null" json:"email"`
	CodeHash  string         `gorm:"not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
}
