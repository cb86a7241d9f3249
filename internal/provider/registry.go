// Package provider deduplicates provider identities created from free text.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/storage"
)

// Store is the provider persistence the Registry depends on.
type Store interface {
	FindProviderByKey(ctx context.Context, nameKey, zipKey, serviceKey string) (*models.Provider, error)
	CreateProvider(ctx context.Context, provider *models.Provider) error
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	SearchProviders(ctx context.Context, nameKey, zipKey string, limit int) ([]models.Provider, error)
}

// Key is the normalized identity of a provider reference.
type Key struct {
	Name    string
	Zip     string // "" when absent
	Service string // "" when absent
}

// NewKey trims the input and rejects a blank name.
func NewKey(name, zip, service string) (Key, error) {
	k := Key{
		Name:    strings.TrimSpace(name),
		Zip:     strings.TrimSpace(zip),
		Service: strings.TrimSpace(service),
	}
	if k.Name == "" {
		return Key{}, apperr.Validation("provider_name", "must not be empty")
	}
	return k, nil
}

// NameKey is the case-folded name used for matching.
func (k Key) NameKey() string {
	return strings.ToLower(k.Name)
}

func (k Key) provider() *models.Provider {
	p := &models.Provider{
		Name:       k.Name,
		NameKey:    k.NameKey(),
		ZipKey:     k.Zip,
		ServiceKey: k.Service,
	}
	if k.Zip != "" {
		zip := k.Zip
		p.Zip = &zip
	}
	if k.Service != "" {
		service := k.Service
		p.Service = &service
	}
	return p
}

type Registry struct {
	store   Store
	metrics *metrics.Metrics
	log     *logger.Logger
}

func NewRegistry(store Store, m *metrics.Metrics, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{store: store, metrics: m, log: log.With("provider")}
}

// ResolveOrCreate returns the id of the provider matching (name, zip, service),
// creating it on first reference. Losing an insert race to a concurrent caller
// re-runs the lookup instead of failing.
func (r *Registry) ResolveOrCreate(ctx context.Context, name, zip, service string) (string, error) {
	key, err := NewKey(name, zip, service)
	if err != nil {
		return "", err
	}

	for attempt := 1; attempt <= config.ProviderResolveAttempts; attempt++ {
		existing, err := r.store.FindProviderByKey(ctx, key.NameKey(), key.Zip, key.Service)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return existing.ID, nil
		}

		p := key.provider()
		err = r.store.CreateProvider(ctx, p)
		if err == nil {
			r.log.Infof("New provider %s saved (%q, zip=%q, service=%q)", p.ID, key.Name, key.Zip, key.Service)
			return p.ID, nil
		}
		if !errors.Is(err, storage.ErrDuplicate) {
			return "", err
		}

		r.metrics.DedupRetry()
		r.log.Debugf("Provider %q inserted concurrently, looking it up again (attempt %d)", key.Name, attempt)
	}

	return "", apperr.Storage("resolve provider",
		fmt.Errorf("%q still unresolved after %d attempts", key.Name, config.ProviderResolveAttempts))
}

// Get returns a provider by id.
func (r *Registry) Get(ctx context.Context, id string) (*models.Provider, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("provider_id", "must not be empty")
	}
	return r.store.GetProvider(ctx, id)
}

// Search finds providers whose name contains the given text, optionally in one zip.
func (r *Registry) Search(ctx context.Context, name, zip string, limit int) ([]models.Provider, error) {
	nameKey := strings.ToLower(strings.TrimSpace(name))
	if nameKey == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	if limit <= 0 || limit > config.ProviderSearchLimit {
		limit = config.ProviderSearchLimit
	}
	return r.store.SearchProviders(ctx, nameKey, strings.TrimSpace(zip), limit)
}
