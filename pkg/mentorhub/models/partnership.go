package models

import (
	"time"

	"gorm.io/gorm"
)

// Partnership represents a partner institution (a school or company whose
// members are coached here). A group can optionally be tied to one partnership.
type Partnership struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Contact   string         `json:"contact,omitempty"`
	Notes     string         `json:"notes,omitempty"`

	// Relationships
	Groups []Group `gorm:"foreignKey:PartnershipID" json:"groups,omitempty"`
}
