package handler

import (
	"net/http"
	"strings"

	"whodidit/backend/internal/claim"
	"whodidit/backend/internal/contact"
	"whodidit/backend/internal/models"
	"whodidit/backend/internal/payment"

	"github.com/gin-gonic/gin"
)

type claimRequest struct {
	ProviderID      string `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	ProviderZip     string `json:"provider_zip"`
	ProviderService string `json:"provider_service"`
	claim.ContactInfo
}

// SubmitClaim accepts either an existing provider_id or a free-text provider.
func (h *Handler) SubmitClaim(c *gin.Context) {
	var req claimRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var (
		id  string
		err error
	)
	if strings.TrimSpace(req.ProviderID) != "" {
		id, err = h.Claims.Submit(ctx, req.ProviderID, principal(c), req.ContactInfo)
	} else {
		id, err = h.Claims.SubmitByReference(ctx, req.ProviderName, req.ProviderZip, req.ProviderService, principal(c), req.ContactInfo)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": models.ClaimPending})
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var req contact.SubmitRequest
	if !h.bind(c, &req) {
		return
	}
	msg, err := h.Contact.Submit(c.Request.Context(), req, principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "status": msg.Status})
}

func (h *Handler) CheckoutOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": payment.Options()})
}

func (h *Handler) StartCheckout(c *gin.Context) {
	var req payment.StartRequest
	if !h.bind(c, &req) {
		return
	}
	url, err := h.Checkout.Start(c.Request.Context(), principal(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
