package config

import "time"

const (
	// Reviews
	MinReviewBodyLength = 30
	MinScore            = 1
	MaxScore            = 5
	MaxReviewMedia      = 4

	// Provider registry
	ProviderResolveAttempts = 3
	ProviderSearchLimit     = 20

	// Admin
	AdminRole = "admin"

	// Checkout
	MinCheckoutAmountCents = 50

	// Storage
	ReadAttempts = 2
	QueryTimeout = 5 * time.Second
)

// Contact queue ordering policies.
const (
	QueueOldestFirst = "oldest_first"
	QueueNewestFirst = "newest_first"
)

// ResolutionPrices maps each resolution service to its price in cents.
var ResolutionPrices = map[string]int64{
	"Refund":                  499,
	"Fix/Redo":                499,
	"Report service provider": 499,
	"Civil suit steps":        1000,
}
