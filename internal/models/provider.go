package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a service-provider identity that reviews and claims attach to.
// NameKey, ZipKey and ServiceKey hold the normalized identity and are covered
// by a unique index, so equivalent free-text input maps to a single row.
type Provider struct {
	ID      string  `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"not null" json:"name"`
	Zip     *string `json:"zip,omitempty"`
	Service *string `json:"service,omitempty"`

	NameKey    string `gorm:"not null;uniqueIndex:idx_provider_identity,priority:1" json:"-"`
	ZipKey     string `gorm:"not null;uniqueIndex:idx_provider_identity,priority:2" json:"-"`
	ServiceKey string `gorm:"not null;uniqueIndex:idx_provider_identity,priority:3" json:"-"`

	// Claimed and OwnerID are written only by claim approval.
	Claimed   bool      `gorm:"not null" json:"claimed"`
	OwnerID   *string   `gorm:"index" json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID for the provider if none is set.
func (p *Provider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
