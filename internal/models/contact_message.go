package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageStatus is the triage state of a contact message.
type MessageStatus string

const (
	MessageNew       MessageStatus = "new"
	MessageRead      MessageStatus = "read"
	MessageEscalated MessageStatus = "escalated"
	MessageClosed    MessageStatus = "closed"
	MessageArchived  MessageStatus = "archived"
)

// OpenMessageStatuses lists the open super-state.
var OpenMessageStatuses = []MessageStatus{MessageNew, MessageRead, MessageEscalated}

// IsOpen reports whether the status belongs to the open super-state.
func (s MessageStatus) IsOpen() bool {
	return s == MessageNew || s == MessageRead || s == MessageEscalated
}

// IsTerminal reports whether the status belongs to the terminal super-state.
func (s MessageStatus) IsTerminal() bool {
	return s == MessageClosed || s == MessageArchived
}

// Valid reports whether s is a known status.
func (s MessageStatus) Valid() bool {
	return s.IsOpen() || s.IsTerminal()
}

// ContactMessage is an inbound support message.
type ContactMessage struct {
	ID        string        `gorm:"primaryKey" json:"id"`
	Name      *string       `json:"name,omitempty"`
	Email     *string       `json:"email,omitempty"`
	Body      string        `gorm:"type:text;not null" json:"body"`
	FromID    *string       `gorm:"index" json:"from,omitempty"`
	Status    MessageStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BeforeCreate generates a UUID and defaults the status to new.
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = MessageNew
	}
	return
}
