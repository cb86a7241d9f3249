// Package review is the append-only review ledger.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"whodidit/backend/internal/analysis"
	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/validation"
)

type Store interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ListReviewsByAuthor(ctx context.Context, authorID string) ([]models.Review, error)
	ListReviewsByProvider(ctx context.Context, providerID string) ([]models.Review, error)
}

// ProviderResolver turns the free-text provider reference into a provider id.
type ProviderResolver interface {
	ResolveOrCreate(ctx context.Context, name, zip, service string) (string, error)
	Get(ctx context.Context, id string) (*models.Provider, error)
}

// SubmitRequest is a review together with the free-text provider it is about.
type SubmitRequest struct {
	ProviderName    string `json:"provider_name"`
	ProviderZip     string `json:"provider_zip"`
	ProviderService string `json:"provider_service"`

	PricingScore     int      `json:"pricing_score" validate:"min=1,max=5"`
	ServiceScore     int      `json:"service_score" validate:"min=1,max=5"`
	CleanlinessScore int      `json:"cleanliness_score" validate:"min=1,max=5"`
	Body             string   `json:"body"`
	Anonymous        bool     `json:"anonymous"`
	MediaURLs        []string `json:"media_urls" validate:"max=4,dive,http_url"`
}

type Ledger struct {
	store     Store
	providers ProviderResolver
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewLedger(store Store, providers ProviderResolver, m *metrics.Metrics, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{store: store, providers: providers, metrics: m, log: log.With("review"), now: time.Now}
}

// Submit validates and appends a review. Input is checked before the provider
// is resolved, so a rejected review never creates a provider.
func (l *Ledger) Submit(ctx context.Context, author *models.Principal, req SubmitRequest) (*models.Review, error) {
	if author == nil || author.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}

	body := strings.TrimSpace(req.Body)
	if utf8.RuneCountInString(body) < config.MinReviewBodyLength {
		return nil, apperr.Validation("body", fmt.Sprintf("must be at least %d characters", config.MinReviewBodyLength))
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	providerID, err := l.providers.ResolveOrCreate(ctx, req.ProviderName, req.ProviderZip, req.ProviderService)
	if err != nil {
		return nil, fmt.Errorf("resolve provider for review: %w", err)
	}

	review := &models.Review{
		ProviderID:       providerID,
		AuthorID:         author.ID,
		PricingScore:     req.PricingScore,
		ServiceScore:     req.ServiceScore,
		CleanlinessScore: req.CleanlinessScore,
		Body:             body,
		Anonymous:        req.Anonymous,
		CreatedAt:        l.now().UTC(),
	}
	if len(req.MediaURLs) > 0 {
		review.MediaURLs = models.MediaList(req.MediaURLs)
	}

	if err := l.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	l.metrics.Submission("review")
	l.log.Infof("New review %s saved for provider %s", review.ID, providerID)
	return review, nil
}

// ListByAuthor returns the principal's own reviews, newest first.
func (l *Ledger) ListByAuthor(ctx context.Context, author *models.Principal) ([]models.Review, error) {
	if author == nil || author.ID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	return l.store.ListReviewsByAuthor(ctx, author.ID)
}

// ListByProvider returns a provider's public reviews, newest first. Authors of
// anonymous reviews are blanked.
func (l *Ledger) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	if _, err := l.providers.Get(ctx, providerID); err != nil {
		return nil, err
	}
	reviews, err := l.store.ListReviewsByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if reviews[i].Anonymous {
			reviews[i].AuthorID = ""
		}
	}
	return reviews, nil
}

// Summary averages a provider's scores.
func (l *Ledger) Summary(ctx context.Context, providerID string) (analysis.Summary, error) {
	if _, err := l.providers.Get(ctx, providerID); err != nil {
		return analysis.Summary{}, err
	}
	reviews, err := l.store.ListReviewsByProvider(ctx, providerID)
	if err != nil {
		return analysis.Summary{}, err
	}
	return analysis.Summarize(providerID, reviews), nil
}
