// Package claim provides the ownership-claim workflow: claimants submit
// claims against providers and admins approve or reject them exactly once.
package claim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/validation"
)

// Store is the claim persistence the workflow depends on.
type Store interface {
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	CreateClaim(ctx context.Context, claim *models.Claim) error
	ListPendingClaims(ctx context.Context) ([]models.Claim, error)
	ApproveClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error)
	RejectClaim(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error)
}

type ProviderResolver interface {
	ResolveOrCreate(ctx context.Context, name, zip, service string) (string, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, p *models.Principal) bool
}

// Notifier is told about new and decided claims after the write commits.
type Notifier interface {
	ClaimSubmitted(ctx context.Context, claim *models.Claim, providerName string)
	ClaimDecided(ctx context.Context, claim *models.Claim, providerName string)
}

// ContactInfo is the optional proof a claimant attaches to a claim.
type ContactInfo struct {
	BusinessEmail string `json:"business_email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	Website       string `json:"website" validate:"omitempty,http_url"`
}

// Service handles the business logic for claims.
type Service struct {
	store     Store
	providers ProviderResolver
	admins    AdminChecker
	notifier  Notifier
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new claim service. notifier may be nil.
func NewService(store Store, providers ProviderResolver, admins AdminChecker, notifier Notifier, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		providers: providers,
		admins:    admins,
		notifier:  notifier,
		metrics:   m,
		log:       log.With("claim"),
		now:       time.Now,
	}
}

// Submit creates a pending claim on an existing provider.
func (s *Service) Submit(ctx context.Context, providerID string, claimant *models.Principal, info ContactInfo) (string, error) {
	if claimant == nil || claimant.ID == "" {
		return "", apperr.ErrUnauthenticated
	}
	info = info.trimmed()
	if err := validation.Struct(info); err != nil {
		return "", err
	}

	provider, err := s.store.GetProvider(ctx, providerID)
	if err != nil {
		return "", fmt.Errorf("submit claim: %w", err)
	}

	claim := &models.Claim{
		ProviderID:    provider.ID,
		ClaimantID:    claimant.ID,
		ClaimantEmail: claimant.Email,
		BusinessEmail: optional(info.BusinessEmail),
		Phone:         optional(info.Phone),
		Website:       optional(info.Website),
		Status:        models.ClaimPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.CreateClaim(ctx, claim); err != nil {
		return "", err
	}

	s.metrics.Submission("claim")
	s.log.Infof("New claim %s on provider %s by %s", claim.ID, provider.ID, claimant.ID)
	if s.notifier != nil {
		s.notifier.ClaimSubmitted(ctx, claim, provider.Name)
	}
	return claim.ID, nil
}

// SubmitByReference resolves the provider from free text first, the way the
// claim form does, then submits.
func (s *Service) SubmitByReference(ctx context.Context, name, zip, service string, claimant *models.Principal, info ContactInfo) (string, error) {
	if claimant == nil || claimant.ID == "" {
		return "", apperr.ErrUnauthenticated
	}
	if err := validation.Struct(info.trimmed()); err != nil {
		return "", err
	}
	providerID, err := s.providers.ResolveOrCreate(ctx, name, zip, service)
	if err != nil {
		return "", fmt.Errorf("submit claim: %w", err)
	}
	return s.Submit(ctx, providerID, claimant, info)
}

// Approve marks the claim approved and makes the claimant the provider's owner.
func (s *Service) Approve(ctx context.Context, claimID string, admin *models.Principal) error {
	return s.decide(ctx, "approve", claimID, admin, s.store.ApproveClaim)
}

// Reject marks the claim rejected. The provider is left unchanged.
func (s *Service) Reject(ctx context.Context, claimID string, admin *models.Principal) error {
	return s.decide(ctx, "reject", claimID, admin, s.store.RejectClaim)
}

type decideFunc func(ctx context.Context, claimID, adminID string, at time.Time) (*models.Claim, error)

func (s *Service) decide(ctx context.Context, decision, claimID string, admin *models.Principal, apply decideFunc) error {
	if !s.admins.IsAdmin(ctx, admin) {
		s.metrics.ClaimDecision(decision, apperr.KindForbidden)
		return fmt.Errorf("%s claim %s: %w", decision, claimID, apperr.ErrForbidden)
	}
	if strings.TrimSpace(claimID) == "" {
		return apperr.Validation("claim_id", "must not be empty")
	}

	claim, err := apply(ctx, claimID, admin.ID, s.now().UTC())
	if err != nil {
		s.metrics.ClaimDecision(decision, apperr.KindOf(err))
		return err
	}

	s.metrics.ClaimDecision(decision, "ok")
	s.log.Infof("Claim %s %s by %s", claim.ID, claim.Status, admin.ID)
	if s.notifier != nil {
		providerName := claim.ProviderID
		if claim.Provider != nil {
			providerName = claim.Provider.Name
		}
		s.notifier.ClaimDecided(ctx, claim, providerName)
	}
	return nil
}

// ListPending returns pending claims with provider and claimant email,
// oldest first. Callers gate access; see moderation.Facade.
func (s *Service) ListPending(ctx context.Context) ([]models.Claim, error) {
	return s.store.ListPendingClaims(ctx)
}

func (c ContactInfo) trimmed() ContactInfo {
	return ContactInfo{
		BusinessEmail: strings.TrimSpace(c.BusinessEmail),
		Phone:         strings.TrimSpace(c.Phone),
		Website:       strings.TrimSpace(c.Website),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
