package contact_test

import (
	"context"
	"testing"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/contact"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/storage"
	"whodidit/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAdmins struct {
	mock.Mock
}

func (m *MockAdmins) IsAdmin(ctx context.Context, p *models.Principal) bool {
	return m.Called(p).Bool(0)
}

var admin = &models.Principal{ID: "admin-1"}

func newQueue(t *testing.T, order string) (*contact.Queue, *storage.Service) {
	t.Helper()
	s := storagetest.NewService(t)
	admins := new(MockAdmins)
	admins.On("IsAdmin", admin).Return(true)
	admins.On("IsAdmin", mock.Anything).Return(false)
	return contact.NewQueue(s, admins, nil, order, nil, nil), s
}

func TestCanTransition(t *testing.T) {
	all := []models.MessageStatus{models.MessageNew, models.MessageRead, models.MessageEscalated, models.MessageClosed, models.MessageArchived}

	for _, from := range all {
		for _, to := range all {
			want := from.IsOpen() && to != models.MessageNew && to != from
			assert.Equal(t, want, contact.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, contact.CanTransition(models.MessageNew, "deleted"))
}

func TestContactQueue_EndToEnd(t *testing.T) {
	q, _ := newQueue(t, config.QueueOldestFirst)
	ctx := context.Background()

	msg, err := q.Submit(ctx, contact.SubmitRequest{Name: "Jo", Email: "jo@example.com", Body: "My stylist vanished with my deposit."}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MessageNew, msg.Status)

	open, err := q.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, msg.ID, open[0].ID)

	updated, err := q.SetStatus(ctx, msg.ID, models.MessageClosed, admin)
	require.NoError(t, err)
	assert.Equal(t, models.MessageClosed, updated.Status)

	open, err = q.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestSetStatus_Rules(t *testing.T) {
	q, s := newQueue(t, config.QueueOldestFirst)
	ctx := context.Background()

	msg, err := q.Submit(ctx, contact.SubmitRequest{Body: "Please call me back"}, nil)
	require.NoError(t, err)

	_, err = q.SetStatus(ctx, msg.ID, models.MessageRead, &models.Principal{ID: "user"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = q.SetStatus(ctx, msg.ID, models.MessageRead, nil)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = q.SetStatus(ctx, msg.ID, "deleted", admin)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = q.SetStatus(ctx, msg.ID, models.MessageNew, admin)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, err = q.SetStatus(ctx, "missing", models.MessageRead, admin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = q.SetStatus(ctx, msg.ID, models.MessageRead, admin)
	require.NoError(t, err)
	_, err = q.SetStatus(ctx, msg.ID, models.MessageEscalated, admin)
	require.NoError(t, err)
	_, err = q.SetStatus(ctx, msg.ID, models.MessageArchived, admin)
	require.NoError(t, err)

	for _, to := range []models.MessageStatus{models.MessageNew, models.MessageRead, models.MessageEscalated, models.MessageClosed, models.MessageArchived} {
		_, err = q.SetStatus(ctx, msg.ID, to, admin)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "archived -> %s", to)
	}

	stored, err := s.GetContactMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageArchived, stored.Status)
}

func TestSubmit_Validation(t *testing.T) {
	q, _ := newQueue(t, config.QueueOldestFirst)
	ctx := context.Background()

	_, err := q.Submit(ctx, contact.SubmitRequest{Body: "   "}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = q.Submit(ctx, contact.SubmitRequest{Email: "nope", Body: "hi"}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	msg, err := q.Submit(ctx, contact.SubmitRequest{Body: "hi"}, &models.Principal{ID: "u-1", Email: "u@example.com"})
	require.NoError(t, err)
	require.NotNil(t, msg.FromID)
	assert.Equal(t, "u-1", *msg.FromID)
	assert.Equal(t, "u@example.com", *msg.Email)
	assert.Nil(t, msg.Name)
}

func TestListOpen_ConfigurableOrder(t *testing.T) {
	ctx := context.Background()
	for _, order := range []string{config.QueueOldestFirst, config.QueueNewestFirst} {
		t.Run(order, func(t *testing.T) {
			q, s := newQueue(t, order)
			base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
			older := &models.ContactMessage{Body: "older", CreatedAt: base}
			newer := &models.ContactMessage{Body: "newer", CreatedAt: base.Add(time.Hour)}
			require.NoError(t, s.CreateContactMessage(ctx, newer))
			require.NoError(t, s.CreateContactMessage(ctx, older))

			open, err := q.ListOpen(ctx)
			require.NoError(t, err)
			require.Len(t, open, 2)
			if order == config.QueueNewestFirst {
				assert.Equal(t, newer.ID, open[0].ID)
			} else {
				assert.Equal(t, older.ID, open[0].ID)
			}
		})
	}
}
