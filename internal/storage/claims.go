package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateClaim(ctx context.Context, claim *models.Claim) error {
	if err := s.DB.WithContext(ctx).Create(claim).Error; err != nil {
		s.log.Errorf(err, "Failed to save claim for provider %s", claim.ProviderID)
		return translate("create claim", err)
	}
	return nil
}

// GetClaim returns the claim together with its provider.
func (s *Service) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.read(ctx, "get claim", func(db *gorm.DB) error {
		return db.Preload("Provider").Where("id = ?", id).First(&claim).Error
	})
	if err != nil {
		return nil, translate("get claim "+id, err)
	}
	return &claim, nil
}

// ListPendingClaims returns pending claims with their provider, oldest first.
func (s *Service) ListPendingClaims(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	err := s.read(ctx, "list pending claims", func(db *gorm.DB) error {
		claims = nil
		return db.Preload("Provider").
			Where("status = ?", models.ClaimPending).
			Order("created_at asc").
			Order("id asc").
			Find(&claims).Error
	})
	if err != nil {
		s.log.Error(err, "Failed to list pending claims")
		return nil, translate("list pending claims", err)
	}
	return claims, nil
}

// ApproveClaim decides a pending claim and transfers provider ownership to the
// claimant in one transaction. The returned claim carries its provider.
// The conditional update on status = pending lets exactly one of several
// concurrent approvers through.
func (s *Service) ApproveClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error) {
	var decided models.Claim

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Provider").Where("id = ?", claimID).First(&decided).Error; err != nil {
			return err
		}
		if decided.Status != models.ClaimPending {
			return apperr.ErrInvalidTransition
		}

		res := tx.Model(&models.Claim{}).
			Where("id = ? AND status = ?", claimID, models.ClaimPending).
			Updates(map[string]interface{}{
				"status":     models.ClaimApproved,
				"decided_at": at,
				"decided_by": adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Інший адмін встиг першим.
			return apperr.ErrInvalidTransition
		}

		res = tx.Model(&models.Provider{}).
			Where("id = ?", decided.ProviderID).
			Updates(map[string]interface{}{
				"claimed":  true,
				"owner_id": decided.ClaimantID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("provider %s: %w", decided.ProviderID, apperr.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, s.decisionError("approve claim", claimID, err)
	}

	decided.Status = models.ClaimApproved
	decided.DecidedAt = &at
	decided.DecidedBy = &adminID
	if decided.Provider != nil {
		decided.Provider.Claimed = true
		decided.Provider.OwnerID = &decided.ClaimantID
	}
	return &decided, nil
}

// RejectClaim decides a pending claim as rejected. Providers are not touched.
func (s *Service) RejectClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error) {
	var decided models.Claim

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND status = ?", claimID, models.ClaimPending).
			Updates(map[string]interface{}{
				"status":     models.ClaimRejected,
				"decided_at": at,
				"decided_by": adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if err := tx.Preload("Provider").Where("id = ?", claimID).First(&decided).Error; err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return apperr.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, s.decisionError("reject claim", claimID, err)
	}
	return &decided, nil
}

func (s *Service) decisionError(op, claimID string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalidTransition):
		return fmt.Errorf("%s %s: already decided: %w", op, claimID, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %s: %w", op, claimID, apperr.ErrNotFound)
	case errors.Is(err, apperr.ErrNotFound):
		return fmt.Errorf("%s %s: %w", op, claimID, err)
	default:
		s.log.Errorf(err, "Failed to %s %s", op, claimID)
		return apperr.Storage(op+" "+claimID, err)
	}
}
