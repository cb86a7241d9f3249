package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// MediaList stores review attachment URLs. On PostgreSQL it is a text[]
// column; other dialects keep the array literal in a text column.
type MediaList pq.StringArray

func (m MediaList) Value() (driver.Value, error) {
	return pq.StringArray(m).Value()
}

func (m *MediaList) Scan(src interface{}) error {
	return (*pq.StringArray)(m).Scan(src)
}

// GormDataType lets the schema parser accept the slice-backed field.
func (MediaList) GormDataType() string {
	return "text"
}

// GormDBDataType picks the column type per dialect.
func (MediaList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Review is an append-only scored review of a Provider.
type Review struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	ProviderID       string    `gorm:"not null;index" json:"provider_id"`
	AuthorID         string    `gorm:"not null;index" json:"author,omitempty"`
	PricingScore     int       `gorm:"not null" json:"pricing_score"`
	ServiceScore     int       `gorm:"not null" json:"service_score"`
	CleanlinessScore int       `gorm:"not null" json:"cleanliness_score"`
	Body             string    `gorm:"type:text;not null" json:"body"`
	Anonymous        bool      `gorm:"not null" json:"anonymous"`
	MediaURLs        MediaList `json:"media_urls,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate generates a UUID for the review if none is set.
func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
