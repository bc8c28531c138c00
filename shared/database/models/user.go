package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the three-tier role hierarchy of the platform.
type UserRole string

const (
	RolePlatformAdmin UserRole = "platform_admin"
	RoleOrgAdmin      UserRole = "org_admin"
	RoleAuditor       UserRole = "auditor"
)

// IsValid reports whether the role is one of the closed role set.
func (r UserRole) IsValid() bool {
	switch r {
	case RolePlatformAdmin, RoleOrgAdmin, RoleAuditor:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	HashedPassword string     `json:"-" gorm:"not null"`
	FullName       string     `json:"full_name" gorm:"size:200;not null"`
	Role           UserRole   `json:"role" gorm:"type:varchar(30);not null;default:'auditor'"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid"` // nil only for platform admins
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
