package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimStatus is the decision state of an ownership claim.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// IsTerminal reports whether no further decision may be applied.
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimApproved || s == ClaimRejected
}

// Claim is a request by a Principal to be recognized as the owner of a Provider.
type Claim struct {
	ID         string `gorm:"primaryKey" json:"id"`
	ProviderID string `gorm:"not null;index" json:"provider_id"`
	ClaimantID string `gorm:"not null;index" json:"claimant"`
	// ClaimantEmail is the principal's email at submission time.
	ClaimantEmail string `json:"claimant_email,omitempty"`

	BusinessEmail *string `json:"business_email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Website       *string `json:"website,omitempty"`

	Status    ClaimStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	DecidedAt *time.Time  `json:"decided_at,omitempty"`
	DecidedBy *string     `json:"decided_by,omitempty"`

	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

// TableName keeps the table name used by the web client.
func (Claim) TableName() string {
	return "provider_claims"
}

// BeforeCreate generates a UUID and defaults the status to pending.
func (c *Claim) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = ClaimPending
	}
	return
}
