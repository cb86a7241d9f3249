// Package payment starts checkout for paid resolution services. Payment
// processing itself belongs to an external provider behind RedirectCreator.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"whodidit/backend/internal/apperr"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/validation"
)

// RedirectCreator creates a payment session and returns the URL to send the
// customer to.
type RedirectCreator interface {
	CreatePaymentRedirect(ctx context.Context, amountCents int64, description string, metadata map[string]string) (string, error)
}

// Unconfigured is the RedirectCreator used when no payment provider is set up.
type Unconfigured struct{}

func (Unconfigured) CreatePaymentRedirect(context.Context, int64, string, map[string]string) (string, error) {
	return "", apperr.Storage("create payment redirect", errors.New("payment provider not configured"))
}

// Option is one purchasable resolution service.
type Option struct {
	Service     string `json:"service"`
	AmountCents int64  `json:"amount_cents"`
}

// Options lists the catalogue, cheapest first.
func Options() []Option {
	opts := make([]Option, 0, len(config.ResolutionPrices))
	for service, cents := range config.ResolutionPrices {
		opts = append(opts, Option{Service: service, AmountCents: cents})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].AmountCents != opts[j].AmountCents {
			return opts[i].AmountCents < opts[j].AmountCents
		}
		return opts[i].Service < opts[j].Service
	})
	return opts
}

// StartRequest is the resolve form.
type StartRequest struct {
	Service       string `json:"service" validate:"required"`
	ProviderID    string `json:"provider_id"`
	CustomerName  string `json:"customer_name" validate:"max=200"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

type Checkout struct {
	creator RedirectCreator
	log     *logger.Logger
}

func NewCheckout(creator RedirectCreator, log *logger.Logger) *Checkout {
	if creator == nil {
		creator = Unconfigured{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Checkout{creator: creator, log: log.With("payment")}
}

// Start prices the requested service from the catalogue and asks the payment
// provider for a redirect. The caller may be anonymous.
func (c *Checkout) Start(ctx context.Context, customer *models.Principal, req StartRequest) (string, error) {
	req.Service = strings.TrimSpace(req.Service)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.CustomerEmail == "" && customer != nil {
		req.CustomerEmail = customer.Email
	}
	if err := validation.Struct(req); err != nil {
		return "", err
	}

	amount, ok := config.ResolutionPrices[req.Service]
	if !ok {
		return "", apperr.Validation("service", fmt.Sprintf("unknown resolution service %q", req.Service))
	}
	if amount < config.MinCheckoutAmountCents {
		return "", apperr.Validation("service", "amount below the minimum charge")
	}

	metadata := map[string]string{
		"providerId":   req.ProviderID,
		"service":      req.Service,
		"customerName": strings.TrimSpace(req.CustomerName),
		"source":       "resolve_checkout",
	}
	if req.CustomerEmail != "" {
		metadata["customerEmail"] = req.CustomerEmail
	}

	url, err := c.creator.CreatePaymentRedirect(ctx, amount, "Resolve: "+req.Service, metadata)
	if err != nil {
		c.log.Errorf(err, "Failed to start checkout for %q", req.Service)
		return "", err
	}
	return url, nil
}
