package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents a user's system-wide role
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleUser   UserRole = "user"
	UserRoleMentor UserRole = "mentor"
)

// User represents a user in the system. There are no passwords: users
// authenticate with short-lived verification codes sent by email.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Name      string         `json:"name"`
	Role      UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`

	// Relationships
	GroupUsers []GroupUser `gorm:"foreignKey:UserID" json:"group_users,omitempty"`
}
