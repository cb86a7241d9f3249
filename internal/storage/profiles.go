package storage

import (
	"context"
	"errors"

	"whodidit/backend/internal/models"

	"gorm.io/gorm"
)

// GetProfile returns the profile of a principal. A missing row is (nil, nil).
func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := s.read(ctx, "get profile", func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&profile).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("get profile", err)
	}
	return &profile, nil
}

// SaveProfile inserts or replaces a profile row. Only the admin CLI writes profiles.
func (s *Service) SaveProfile(ctx context.Context, profile *models.Profile) error {
	if err := s.DB.WithContext(ctx).Save(profile).Error; err != nil {
		s.log.Errorf(err, "Failed to save profile %s", profile.ID)
		return translate("save profile", err)
	}
	return nil
}
