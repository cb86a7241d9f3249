package handler

import (
	"net/http"
	"strconv"

	"whodidit/backend/internal/models"
	"whodidit/backend/internal/review"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SubmitReview(c *gin.Context) {
	var req review.SubmitRequest
	if !h.bind(c, &req) {
		return
	}
	r, err := h.Reviews.Submit(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) MyReviews(c *gin.Context) {
	reviews, err := h.Reviews.ListByAuthor(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": nonNil(reviews)})
}

func (h *Handler) SearchProviders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	providers, err := h.Providers.Search(c.Request.Context(), c.Query("name"), c.Query("zip"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if providers == nil {
		providers = []models.Provider{}
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *Handler) GetProvider(c *gin.Context) {
	p, err := h.Providers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ProviderReviews(c *gin.Context) {
	reviews, err := h.Reviews.ListByProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": nonNil(reviews)})
}

func (h *Handler) ProviderSummary(c *gin.Context) {
	summary, err := h.Reviews.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func nonNil(reviews []models.Review) []models.Review {
	if reviews == nil {
		return []models.Review{}
	}
	return reviews
}
