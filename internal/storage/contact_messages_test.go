package storage_test

import (
	"context"
	"testing"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateContactMessageStatus_ConditionalOnCurrentStatus(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()

	msg := &models.ContactMessage{Body: "The stylist never showed up"}
	require.NoError(t, s.CreateContactMessage(ctx, msg))
	assert.Equal(t, models.MessageNew, msg.Status)

	ok, err := s.UpdateContactMessageStatus(ctx, msg.ID, models.MessageNew, models.MessageRead)
	require.NoError(t, err)
	assert.True(t, ok)

	// a second actor still believing the message is new loses
	ok, err = s.UpdateContactMessageStatus(ctx, msg.ID, models.MessageNew, models.MessageClosed)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetContactMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, got.Status)

	_, err = s.GetContactMessage(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListOpenContactMessages_Order(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := &models.ContactMessage{Body: "first", CreatedAt: base}
	second := &models.ContactMessage{Body: "second", CreatedAt: base.Add(time.Minute), Status: models.MessageEscalated}
	closed := &models.ContactMessage{Body: "closed", CreatedAt: base.Add(2 * time.Minute), Status: models.MessageClosed}
	for _, m := range []*models.ContactMessage{second, closed, first} {
		require.NoError(t, s.CreateContactMessage(ctx, m))
	}

	oldest, err := s.ListOpenContactMessages(ctx, false)
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, first.ID, oldest[0].ID)
	assert.Equal(t, second.ID, oldest[1].ID)

	newest, err := s.ListOpenContactMessages(ctx, true)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID, newest[0].ID)
}
