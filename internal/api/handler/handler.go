package handler

import (
	"net/http"

	"whodidit/backend/internal/claim"
	"whodidit/backend/internal/contact"
	"whodidit/backend/internal/identity"
	"whodidit/backend/internal/localization"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/moderation"
	"whodidit/backend/internal/payment"
	"whodidit/backend/internal/provider"
	"whodidit/backend/internal/review"

	"github.com/gin-gonic/gin"
)

// Handler містить посилання на сервіси ядра
type Handler struct {
	Tokens     *identity.Tokens
	Reviews    *review.Ledger
	Providers  *provider.Registry
	Claims     *claim.Service
	Contact    *contact.Queue
	Moderation *moderation.Facade
	Checkout   *payment.Checkout
	Localizer  *localization.Localizer
	Metrics    *metrics.Metrics
	Log        *logger.Logger
}

// Router builds the gin engine with every route of the API.
func (h *Handler) Router() *gin.Engine {
	if h.Log == nil {
		h.Log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.RequestLogger(), h.Timeout(), h.Authenticate())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	api := r.Group("/api")
	api.POST("/reviews", h.SubmitReview)
	api.GET("/me/reviews", h.MyReviews)

	api.GET("/providers/search", h.SearchProviders)
	api.GET("/providers/:id", h.GetProvider)
	api.GET("/providers/:id/reviews", h.ProviderReviews)
	api.GET("/providers/:id/summary", h.ProviderSummary)

	api.POST("/claims", h.SubmitClaim)
	api.POST("/contact", h.SubmitContact)

	api.GET("/checkout/options", h.CheckoutOptions)
	api.POST("/checkout", h.StartCheckout)

	mod := api.Group("/moderation")
	mod.GET("/access", h.ModerationAccess)
	mod.GET("/snapshot", h.ModerationSnapshot)
	mod.POST("/claims/:id/approve", h.ApproveClaim)
	mod.POST("/claims/:id/reject", h.RejectClaim)
	mod.POST("/messages/:id/status", h.SetMessageStatus)

	return r
}
