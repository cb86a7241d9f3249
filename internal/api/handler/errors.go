package handler

import (
	"errors"
	"net/http"

	"whodidit/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[string]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindForbidden:       http.StatusForbidden,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindStorage:         http.StatusServiceUnavailable,
	apperr.KindInternal:        http.StatusInternalServerError,
}

// fail renders err as {"error": kind, "message": localized text}. Field
// errors also carry the offending field.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		kind, status = apperr.KindInternal, http.StatusInternalServerError
	}

	body := gin.H{"error": kind, "message": h.message(c, "error."+kind)}
	var fe *apperr.FieldError
	if errors.As(err, &fe) {
		body["field"] = fe.Field
		body["detail"] = fe.Message
	}

	if status >= http.StatusInternalServerError {
		h.Log.Errorf(err, "ERROR: %s %s failed", c.Request.Method, c.FullPath())
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) message(c *gin.Context, key string) string {
	if h.Localizer == nil {
		return key
	}
	return h.Localizer.GetString(h.Localizer.Match(c.GetHeader("Accept-Language")), key)
}

// bind decodes the JSON body into dst.
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.fail(c, apperr.Validation("body", "malformed JSON: "+err.Error()))
		return false
	}
	return true
}
