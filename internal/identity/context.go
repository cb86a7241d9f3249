// Package identity resolves who is calling and whether they may moderate.
package identity

import (
	"context"

	"whodidit/backend/internal/models"
)

type principalKey struct{}

// WithPrincipal attaches p to ctx. A nil p leaves the context anonymous.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

// CurrentPrincipal returns the principal attached to ctx, or nil for none.
func CurrentPrincipal(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey{}).(*models.Principal)
	return p
}
