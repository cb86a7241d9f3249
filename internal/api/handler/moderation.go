package handler

import (
	"net/http"

	"whodidit/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ModerationAccess tells the client which moderation view to render.
func (h *Handler) ModerationAccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": h.Moderation.Access(c.Request.Context(), principal(c))})
}

// ModerationSnapshot is also the refresh operation: every call is a new read.
func (h *Handler) ModerationSnapshot(c *gin.Context) {
	snap, err := h.Moderation.Refresh(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) ApproveClaim(c *gin.Context) {
	if err := h.Moderation.ApproveClaim(c.Request.Context(), c.Param("id"), principal(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": models.ClaimApproved})
}

func (h *Handler) RejectClaim(c *gin.Context) {
	if err := h.Moderation.RejectClaim(c.Request.Context(), c.Param("id"), principal(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": models.ClaimRejected})
}

type statusRequest struct {
	Status models.MessageStatus `json:"status"`
}

func (h *Handler) SetMessageStatus(c *gin.Context) {
	var req statusRequest
	if !h.bind(c, &req) {
		return
	}
	msg, err := h.Moderation.SetMessageStatus(c.Request.Context(), c.Param("id"), req.Status, principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
