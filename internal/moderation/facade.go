// Package moderation is the admin-only view over pending claims and open
// contact messages. Views are snapshots taken on request; nothing is pushed.
package moderation

import (
	"context"
	"fmt"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/models"
)

// AccessState is what the moderation page should show to a caller.
type AccessState string

const (
	AccessNeedLogin AccessState = "need-login"
	AccessForbidden AccessState = "forbidden"
	AccessOK        AccessState = "ok"
)

type AdminChecker interface {
	IsAdmin(ctx context.Context, p *models.Principal) bool
}

type ClaimWorkflow interface {
	ListPending(ctx context.Context) ([]models.Claim, error)
	Approve(ctx context.Context, claimID string, admin *models.Principal) error
	Reject(ctx context.Context, claimID string, admin *models.Principal) error
}

type TriageQueue interface {
	ListOpen(ctx context.Context) ([]models.ContactMessage, error)
	SetStatus(ctx context.Context, id string, to models.MessageStatus, admin *models.Principal) (*models.ContactMessage, error)
}

// Snapshot is the moderation view at TakenAt. It goes stale immediately;
// callers refresh explicitly.
type Snapshot struct {
	Claims   []models.Claim          `json:"claims"`
	Messages []models.ContactMessage `json:"messages"`
	TakenAt  time.Time               `json:"taken_at"`
}

type Facade struct {
	admins   AdminChecker
	claims   ClaimWorkflow
	messages TriageQueue
	now      func() time.Time
}

func NewFacade(admins AdminChecker, claims ClaimWorkflow, messages TriageQueue) *Facade {
	return &Facade{admins: admins, claims: claims, messages: messages, now: time.Now}
}

// Access classifies the caller without touching claims or messages.
func (f *Facade) Access(ctx context.Context, p *models.Principal) AccessState {
	switch {
	case p == nil || p.ID == "":
		return AccessNeedLogin
	case !f.admins.IsAdmin(ctx, p):
		return AccessForbidden
	default:
		return AccessOK
	}
}

// Snapshot lists pending claims and open messages. Non-admins get an error,
// never an empty view.
func (f *Facade) Snapshot(ctx context.Context, admin *models.Principal) (*Snapshot, error) {
	switch f.Access(ctx, admin) {
	case AccessNeedLogin:
		return nil, apperr.ErrUnauthenticated
	case AccessForbidden:
		return nil, fmt.Errorf("moderation snapshot: %w", apperr.ErrForbidden)
	}

	takenAt := f.now().UTC()
	claims, err := f.claims.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("moderation snapshot: %w", err)
	}
	messages, err := f.messages.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("moderation snapshot: %w", err)
	}

	if claims == nil {
		claims = []models.Claim{}
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return &Snapshot{Claims: claims, Messages: messages, TakenAt: takenAt}, nil
}

// Refresh takes a new snapshot.
func (f *Facade) Refresh(ctx context.Context, admin *models.Principal) (*Snapshot, error) {
	return f.Snapshot(ctx, admin)
}

// ApproveClaim delegates to the claim workflow, which checks the admin role itself.
func (f *Facade) ApproveClaim(ctx context.Context, claimID string, admin *models.Principal) error {
	return f.claims.Approve(ctx, claimID, admin)
}

func (f *Facade) RejectClaim(ctx context.Context, claimID string, admin *models.Principal) error {
	return f.claims.Reject(ctx, claimID, admin)
}

func (f *Facade) SetMessageStatus(ctx context.Context, id string, to models.MessageStatus, admin *models.Principal) (*models.ContactMessage, error) {
	return f.messages.SetStatus(ctx, id, to, admin)
}
