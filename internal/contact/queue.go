// Package contact is the triage queue for inbound support messages.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/validation"
)

type Store interface {
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	GetContactMessage(ctx context.Context, id string) (*models.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, id string, from, to models.MessageStatus) (bool, error)
	ListOpenContactMessages(ctx context.Context, newestFirst bool) ([]models.ContactMessage, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, p *models.Principal) bool
}

type Notifier interface {
	ContactSubmitted(ctx context.Context, msg *models.ContactMessage)
}

// SubmitRequest is the public contact form.
type SubmitRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email"`
	Body  string `json:"body" validate:"required,max=5000"`
}

// CanTransition reports whether a triage action may move a message from one
// status to another. Open messages may move to any other status except new;
// terminal messages never move.
func CanTransition(from, to models.MessageStatus) bool {
	if !from.IsOpen() || !to.Valid() {
		return false
	}
	return to != models.MessageNew && to != from
}

type Queue struct {
	store       Store
	admins      AdminChecker
	notifier    Notifier
	metrics     *metrics.Metrics
	log         *logger.Logger
	newestFirst bool
	now         func() time.Time
}

// NewQueue builds the queue. order is config.QueueOldestFirst or
// config.QueueNewestFirst.
func NewQueue(store Store, admins AdminChecker, notifier Notifier, order string, m *metrics.Metrics, log *logger.Logger) *Queue {
	if log == nil {
		log = logger.Nop()
	}
	return &Queue{
		store:       store,
		admins:      admins,
		notifier:    notifier,
		metrics:     m,
		log:         log.With("contact"),
		newestFirst: order == config.QueueNewestFirst,
		now:         time.Now,
	}
}

// Submit stores a new message in status new. from may be nil for anonymous
// senders; a signed-in sender's email fills in a blank email field.
func (q *Queue) Submit(ctx context.Context, req SubmitRequest, from *models.Principal) (*models.ContactMessage, error) {
	req = SubmitRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Body:  strings.TrimSpace(req.Body),
	}
	if req.Email == "" && from != nil {
		req.Email = from.Email
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	now := q.now().UTC()
	msg := &models.ContactMessage{
		Name:      optional(req.Name),
		Email:     optional(req.Email),
		Body:      req.Body,
		Status:    models.MessageNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if from != nil && from.ID != "" {
		msg.FromID = &from.ID
	}

	if err := q.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, err
	}

	q.metrics.Submission("contact")
	q.log.Infof("New contact message %s saved", msg.ID)
	if q.notifier != nil {
		q.notifier.ContactSubmitted(ctx, msg)
	}
	return msg, nil
}

// SetStatus applies one triage action. The update only lands if the message
// is still in the status that was checked, so two admins acting on the same
// message cannot both move it.
func (q *Queue) SetStatus(ctx context.Context, id string, to models.MessageStatus, admin *models.Principal) (*models.ContactMessage, error) {
	if !q.admins.IsAdmin(ctx, admin) {
		return nil, fmt.Errorf("set status of message %s: %w", id, apperr.ErrForbidden)
	}
	if !to.Valid() {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", to))
	}

	msg, err := q.store.GetContactMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(msg.Status, to) {
		return nil, fmt.Errorf("message %s: %s -> %s: %w", id, msg.Status, to, apperr.ErrInvalidTransition)
	}

	applied, err := q.store.UpdateContactMessageStatus(ctx, id, msg.Status, to)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("message %s changed concurrently: %w", id, apperr.ErrInvalidTransition)
	}

	q.metrics.ContactTransition(string(to))
	q.log.Infof("Contact message %s moved %s -> %s by %s", id, msg.Status, to, admin.ID)
	msg.Status = to
	return msg, nil
}

// ListOpen returns messages awaiting triage in the configured order.
func (q *Queue) ListOpen(ctx context.Context) ([]models.ContactMessage, error) {
	return q.store.ListOpenContactMessages(ctx, q.newestFirst)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
