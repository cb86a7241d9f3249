package storage

import (
	"context"
	"errors"
	"strings"

	"whodidit/backend/internal/models"

	"gorm.io/gorm"
)

// FindProviderByKey looks a provider up by its normalized identity.
// A missing provider is (nil, nil).
func (s *Service) FindProviderByKey(ctx context.Context, nameKey, zipKey, serviceKey string) (*models.Provider, error) {
	var provider models.Provider
	err := s.read(ctx, "find provider", func(db *gorm.DB) error {
		return db.Where("name_key = ? AND zip_key = ? AND service_key = ?", nameKey, zipKey, serviceKey).
			First(&provider).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("find provider", err)
	}
	return &provider, nil
}

// CreateProvider inserts a new provider. A concurrent insert of the same
// identity fails with ErrDuplicate.
func (s *Service) CreateProvider(ctx context.Context, provider *models.Provider) error {
	err := s.DB.WithContext(ctx).Create(provider).Error
	if err != nil && !isDuplicate(err) {
		s.log.Errorf(err, "Failed to save provider %q", provider.Name)
	}
	return translate("create provider", err)
}

func (s *Service) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	err := s.read(ctx, "get provider", func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&provider).Error
	})
	if err != nil {
		return nil, translate("get provider "+id, err)
	}
	return &provider, nil
}

// SearchProviders matches nameKey as a substring of the normalized name,
// optionally restricted to one zip.
func (s *Service) SearchProviders(ctx context.Context, nameKey, zipKey string, limit int) ([]models.Provider, error) {
	var providers []models.Provider
	err := s.read(ctx, "search providers", func(db *gorm.DB) error {
		q := db.Where("name_key LIKE ? ESCAPE '\\'", "%"+escapeLike(nameKey)+"%")
		if zipKey != "" {
			q = q.Where("zip_key = ?", zipKey)
		}
		return q.Order("name_key asc").Order("id asc").Limit(limit).Find(&providers).Error
	})
	if err != nil {
		return nil, translate("search providers", err)
	}
	return providers, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
