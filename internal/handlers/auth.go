package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itemtrack/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setSessionCookie places the signed token in the http-only session cookie.
// Max-age follows the token lifetime, so cookie and token expire together.
func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.auth.CookieName, token, maxAge, "/", "", false, true)
}

// @Summary      Register
// @Description  Create an account and start a session. The session token is set as an http-only cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "name, email, password, optional role"
// @Success      200   {object}  map[string]interface{}  "message, user"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var in registerRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	token, user, err := h.services.Register(c.Request.Context(), service.RegisterInput{
		Name:          in.Name,
		Email:         in.Email,
		Password:      in.Password,
		RequestedRole: in.Role,
	})
	if err != nil {
		h.respondServiceError(c, "auth_register", err)
		return
	}

	h.setSessionCookie(c, token, int(h.auth.TokenTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Registered",
		"user":    user.Public(),
	})
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "email, password"
// @Success      200   {object}  map[string]interface{}  "message, user"
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var in loginRequest
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	token, user, err := h.services.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "email", in.Email)
		}
		h.respondServiceError(c, "auth_login", err)
		return
	}

	h.setSessionCookie(c, token, int(h.auth.TokenTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"user":    user.Public(),
	})
}

// logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// me returns the identity the guard attached, or null when absent.
func (h *Handler) me(c *gin.Context) {
	ident, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": ident})
}
