// Package analysis aggregates review scores into per-provider summaries.
package analysis

import (
	"math"

	"whodidit/backend/internal/models"
)

// Summary holds average scores for one provider, rounded to two decimals.
// Averages are zero when there are no reviews.
type Summary struct {
	ProviderID  string  `json:"provider_id"`
	Reviews     int     `json:"reviews"`
	Pricing     float64 `json:"pricing"`
	Service     float64 `json:"service"`
	Cleanliness float64 `json:"cleanliness"`
	Overall     float64 `json:"overall"`
}

// Summarize averages the three score dimensions of reviews. Overall is the
// mean of the three dimension averages.
func Summarize(providerID string, reviews []models.Review) Summary {
	s := Summary{ProviderID: providerID, Reviews: len(reviews)}
	if len(reviews) == 0 {
		return s
	}

	var pricing, service, cleanliness int
	for _, r := range reviews {
		pricing += r.PricingScore
		service += r.ServiceScore
		cleanliness += r.CleanlinessScore
	}

	n := float64(len(reviews))
	s.Pricing = round2(float64(pricing) / n)
	s.Service = round2(float64(service) / n)
	s.Cleanliness = round2(float64(cleanliness) / n)
	s.Overall = round2(float64(pricing+service+cleanliness) / (3 * n))
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
