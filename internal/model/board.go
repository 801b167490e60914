package model

import (
	"time"

	"github.com/google/uuid"
)

// Board colors selectable at creation time.
const (
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
	ColorPurple = "purple"
	ColorOrange = "orange"
	ColorPink   = "pink"
)

type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Color       string    `gorm:"not null;default:'blue'"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner User `gorm:"foreignKey:OwnerID"`
}

// ValidColor reports whether c is one of the selectable board colors.
func ValidColor(c string) bool {
	switch c {
	case ColorBlue, ColorGreen, ColorYellow, ColorRed, ColorPurple, ColorOrange, ColorPink:
		return true
	}
	return false
}
