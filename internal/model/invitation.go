package model

import (
	"time"

	"github.com/google/uuid"
)

// Invitation statuses.
const (
	InvitationSent     = "sent"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// Invitation is a time-bounded offer of board membership, redeemable once by
// token. Expiry is computed at query time; nothing mutates the row when the
// window closes.
type Invitation struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email      string    `gorm:"not null;index"`
	Token      string    `gorm:"uniqueIndex;not null"`
	BoardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	InviterID  uuid.UUID `gorm:"type:uuid;not null"`
	Status     string    `gorm:"not null;default:'sent'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	AcceptedAt *time.Time

	Board   Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
	Inviter User  `gorm:"foreignKey:InviterID"`
}

// Active reports whether the invitation can still be accepted at now, given
// the configured time-to-live.
func (i *Invitation) Active(now time.Time, ttl time.Duration) bool {
	return i.Status == InvitationSent && now.Before(i.CreatedAt.Add(ttl))
}
