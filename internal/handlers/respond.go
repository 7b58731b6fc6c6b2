package handlers

import (
	"errors"
	"net/http"

	"itemtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Client-facing messages. Kept stable: clients and tests match on them.
const (
	msgMissingFields      = "Missing fields"
	msgUserAlreadyExists  = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidInput       = "Invalid input"
	msgNotFound           = "Not found"
	msgForbidden          = "Forbidden"
	msgServerError        = "Server error"
	msgNoToken            = "No token, unauthorized"
	msgTokenInvalid       = "Token invalid"
)

// bindJSONOrBadRequest tries to bind the request body into dst and writes a
// 400 JSON on failure. Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
		return false
	}
	return true
}

// respondServiceError maps a service error onto the HTTP taxonomy:
// validation → 400, ownership → 403, unknown id → 404, everything else is
// logged and hidden behind a generic 500.
func (h *Handler) respondServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMissingFields})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgUserAlreadyExists})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidCredentials})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidInput})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": msgForbidden})
	default:
		if h.log != nil {
			h.log.Errorw(op+"_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
	}
}
