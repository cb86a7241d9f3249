package storage

import (
	"context"

	"whodidit/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		s.log.Error(err, "Failed to save contact message")
		return translate("create contact message", err)
	}
	return nil
}

func (s *Service) GetContactMessage(ctx context.Context, id string) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := s.read(ctx, "get contact message", func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&msg).Error
	})
	if err != nil {
		return nil, translate("get contact message "+id, err)
	}
	return &msg, nil
}

// UpdateContactMessageStatus moves a message from one status to another. It
// reports false when the message is no longer in the expected status.
func (s *Service) UpdateContactMessageStatus(ctx context.Context, id string, from, to models.MessageStatus) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		s.log.Errorf(res.Error, "Failed to move contact message %s to %s", id, to)
		return false, translate("update contact message "+id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ListOpenContactMessages returns messages in the open super-state.
func (s *Service) ListOpenContactMessages(ctx context.Context, newestFirst bool) ([]models.ContactMessage, error) {
	order := "created_at asc"
	tiebreak := "id asc"
	if newestFirst {
		order = "created_at desc"
		tiebreak = "id desc"
	}

	var msgs []models.ContactMessage
	err := s.read(ctx, "list open contact messages", func(db *gorm.DB) error {
		msgs = nil
		return db.Where("status IN ?", models.OpenMessageStatuses).
			Order(order).
			Order(tiebreak).
			Find(&msgs).Error
	})
	if err != nil {
		return nil, translate("list open contact messages", err)
	}
	return msgs, nil
}
