package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a privilege tier on a board. Lower numeric value means higher
// privilege, so comparisons use <=.
type Role int

const (
	RoleOwner  Role = 10
	RoleAdmin  Role = 20
	RoleMember Role = 30
	RoleViewer Role = 40
)

// AtLeast reports whether r grants at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r <= min
}

// Valid reports whether r is one of the defined tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleViewer:
		return "viewer"
	}
	return "unknown"
}

// Membership grants a user a role on a board. A removed member keeps the row
// with IsActive=false so the unique (user, board) pair survives re-invites.
type Membership struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_memberships_user_board"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_memberships_user_board"`
	Role       Role       `gorm:"not null"`
	IsActive   bool       `gorm:"not null;default:true"`
	InvitedBy  *uuid.UUID `gorm:"type:uuid"`
	InvitedAt  *time.Time
	AcceptedAt *time.Time
	CanEdit    bool `gorm:"not null;default:true"`
	CanComment bool `gorm:"not null;default:true"`
	CanInvite  bool `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time

	Board Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	User  User  `gorm:"foreignKey:UserID"`
}
