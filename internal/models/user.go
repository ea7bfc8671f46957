// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level a user holds across the site.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
	RoleMod   Role = "MOD"
)

// ParseRole maps a stored role string to a Role. Unknown values
// degrade to RoleUser so a corrupted row never gains privileges.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleMod:
		return RoleMod
	default:
		return RoleUser
	}
}

// CanModerate reports whether the role may remove other users' comments.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleMod
}

// User represents a registered account. ExternalID is the identifier
// issued by the identity provider; all ownership checks use ID.
type User struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Role       Role      `gorm:"type:varchar(16);not null;default:USER" json:"role"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
