package identity

import (
	"context"
	"errors"
	"time"

	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// ProfileStore is the read side of profile storage the resolver needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
}

// Resolver answers "is this principal an admin?". It fails closed: a missing
// profile, a storage error or a cache error never yields true on its own.
type Resolver struct {
	store ProfileStore
	cache *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewResolver builds a Resolver. cache may be nil; ttl <= 0 disables caching.
func NewResolver(store ProfileStore, cache *redis.Client, ttl time.Duration, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	if ttl <= 0 {
		cache = nil
	}
	return &Resolver{store: store, cache: cache, ttl: ttl, log: log.With("identity")}
}

func cacheKey(id string) string {
	return "profile:admin:" + id
}

// IsAdmin never returns an error and never panics.
func (r *Resolver) IsAdmin(ctx context.Context, p *models.Principal) (admin bool) {
	if p == nil || p.ID == "" {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warnf("Admin check for %s panicked, denying: %v", p.ID, rec)
			admin = false
		}
	}()

	if verdict, ok := r.cached(ctx, p.ID); ok {
		return verdict
	}

	profile, err := r.store.GetProfile(ctx, p.ID)
	if err != nil {
		r.log.Warnf("Profile lookup for %s failed, denying admin: %v", p.ID, err)
		return false
	}

	admin = profile.HasAdminRole(config.AdminRole)
	r.remember(ctx, p.ID, admin)
	return admin
}

// Forget drops a cached verdict, used after a profile changes out-of-band.
func (r *Resolver) Forget(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.log.Warnf("Failed to drop cached admin verdict for %s: %v", id, err)
	}
}

func (r *Resolver) cached(ctx context.Context, id string) (bool, bool) {
	if r.cache == nil {
		return false, false
	}
	val, err := r.cache.Get(ctx, cacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false
	}
	if err != nil {
		r.log.Debugf("Profile cache read for %s failed: %v", id, err)
		return false, false
	}
	switch val {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}

func (r *Resolver) remember(ctx context.Context, id string, admin bool) {
	if r.cache == nil {
		return
	}
	val := "0"
	if admin {
		val = "1"
	}
	if err := r.cache.Set(ctx, cacheKey(id), val, r.ttl).Err(); err != nil {
		r.log.Debugf("Profile cache write for %s failed: %v", id, err)
	}
}
