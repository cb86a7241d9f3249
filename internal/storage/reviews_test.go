package storage_test

import (
	"context"
	"testing"
	"time"

	"whodidit/backend/internal/models"
	"whodidit/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews_NewestFirstWithMedia(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	older := &models.Review{ProviderID: "p-1", AuthorID: "u-1", PricingScore: 3, ServiceScore: 4, CleanlinessScore: 5,
		Body: "Fine cut, a little pricey for the neighbourhood.", CreatedAt: base}
	newer := &models.Review{ProviderID: "p-2", AuthorID: "u-1", PricingScore: 1, ServiceScore: 1, CleanlinessScore: 2,
		Body: "Showed up two hours late and left a mess behind.", CreatedAt: base.Add(time.Hour),
		MediaURLs: models.MediaList{"https://cdn.example.com/a.jpg"}}
	require.NoError(t, s.CreateReview(ctx, older))
	require.NoError(t, s.CreateReview(ctx, newer))

	mine, err := s.ListReviewsByAuthor(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, models.MediaList{"https://cdn.example.com/a.jpg"}, mine[0].MediaURLs)
	assert.Empty(t, mine[1].MediaURLs)

	forProvider, err := s.ListReviewsByProvider(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, forProvider, 1)
	assert.Equal(t, older.ID, forProvider[0].ID)

	none, err := s.ListReviewsByAuthor(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
