package handlers

import (
	"net/http"

	"itemtrack/internal/models"

	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key the guard stores the caller under.
const identityKey = "identity"

// authGuard extracts the session cookie, verifies the token inside it and
// attaches the resulting identity to the request context. The verified
// claims are the identity; no store lookup happens per request.
func (h *Handler) authGuard(c *gin.Context) {
	tokenString, err := c.Cookie(h.auth.CookieName)
	if err != nil || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": msgNoToken,
		})
		return
	}

	ident, err := h.services.Authenticate(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": msgTokenInvalid,
		})
		return
	}

	c.Set(identityKey, ident)
	c.Next()
}

// RequireRole restricts a route to callers holding the given role. Compose
// it after authGuard.
func (h *Handler) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": msgNoToken,
			})
			return
		}
		if ident.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": msgForbidden,
			})
			return
		}
		c.Next()
	}
}

// identityFromContext returns the identity the guard attached, if any.
func identityFromContext(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}
