package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the only role the storefront treats specially.
const RoleAdmin = "admin"

// RoleCustomer is assigned to profiles created at sign-up.
const RoleCustomer = "customer"

// Profile extends an identity with display data. Its ID equals the identity ID.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FullName  *string   `json:"full_name" gorm:"size:255"`
	Role      string    `json:"role" gorm:"size:50;not null;default:'customer'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// DisplayName returns the full name, or "" when none is set.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == nil {
		return ""
	}
	return *p.FullName
}
