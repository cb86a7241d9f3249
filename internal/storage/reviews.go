package storage

import (
	"context"

	"whodidit/backend/internal/models"

	"gorm.io/gorm"
)

// CreateReview appends a review. There is no update path for reviews.
func (s *Service) CreateReview(ctx context.Context, review *models.Review) error {
	if err := s.DB.WithContext(ctx).Create(review).Error; err != nil {
		s.log.Errorf(err, "Failed to save review for provider %s", review.ProviderID)
		return translate("create review", err)
	}
	return nil
}

// ListReviewsByAuthor returns an author's reviews, newest first.
func (s *Service) ListReviewsByAuthor(ctx context.Context, authorID string) ([]models.Review, error) {
	return s.listReviews(ctx, "list reviews by author", "author_id = ?", authorID)
}

// ListReviewsByProvider returns a provider's reviews, newest first.
func (s *Service) ListReviewsByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	return s.listReviews(ctx, "list reviews by provider", "provider_id = ?", providerID)
}

func (s *Service) listReviews(ctx context.Context, op, cond string, arg string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.read(ctx, op, func(db *gorm.DB) error {
		reviews = nil
		return db.Where(cond, arg).
			Order("created_at desc").
			Order("id desc").
			Find(&reviews).Error
	})
	if err != nil {
		return nil, translate(op, err)
	}
	return reviews, nil
}
