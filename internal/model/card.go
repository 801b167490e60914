package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority is an ordered card priority. Lower numeric value means higher
// priority, matching the role convention.
type Priority int

const (
	PriorityTop             Priority = 10
	PriorityImportantUrgent Priority = 20
	PriorityImportant       Priority = 30
	PriorityUrgent          Priority = 40
	PriorityHigh            Priority = 50
	PriorityMedium          Priority = 60
	PriorityLow             Priority = 70
	PriorityNotImportant    Priority = 80
)

// Valid reports whether p is one of the defined priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityTop, PriorityImportantUrgent, PriorityImportant, PriorityUrgent,
		PriorityHigh, PriorityMedium, PriorityLow, PriorityNotImportant:
		return true
	}
	return false
}

func (p Priority) String() string {
	switch p {
	case PriorityTop:
		return "top"
	case PriorityImportantUrgent:
		return "important_and_urgent"
	case PriorityImportant:
		return "important"
	case PriorityUrgent:
		return "urgent"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityNotImportant:
		return "not_important"
	}
	return "unknown"
}

// Card belongs to a list. Version is the optimistic-concurrency token bumped
// on every move; Order is unique within the owning list.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Priority    Priority   `gorm:"not null;default:60"`
	DueDate     *time.Time
	Order       int `gorm:"column:sort_order;not null"`
	Version     int `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	List      List   `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
	Assignees []User `gorm:"many2many:card_assignees"`
}
