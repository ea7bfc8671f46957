package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventStatus tracks where an event sits in its lifecycle.
type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
)

// ValidEventStatus reports whether s is a recognized status value.
func ValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventUpcoming, EventOngoing, EventCompleted:
		return true
	}
	return false
}

// Event is a dated announcement shown on the events page.
type Event struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Date        time.Time   `gorm:"not null;index" json:"date"`
	Type        string      `gorm:"not null" json:"type"`
	Status      EventStatus `gorm:"type:varchar(16);not null;default:UPCOMING" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = EventUpcoming
	}
	return nil
}
