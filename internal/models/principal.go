package models

import "time"

// Principal is an authenticated identity as reported by the identity provider.
// It is never persisted by this backend.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Profile carries the role flags of a Principal. Rows are created and updated
// out-of-band (admin CLI, identity provider hooks); the services only read them.
type Profile struct {
	// ID equals the Principal ID.
	ID string `gorm:"primaryKey" json:"id"`
	// Role is free text; "admin" grants moderation rights.
	Role *string `json:"role,omitempty"`
	// IsAdmin is the legacy boolean admin flag.
	IsAdmin   *bool     `json:"is_admin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasAdminRole reports whether either admin signal is set. The role must
// match exactly.
func (p *Profile) HasAdminRole(adminRole string) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin != nil && *p.IsAdmin {
		return true
	}
	return p.Role != nil && *p.Role == adminRole
}
