package middleware

import (
	"net/http"
	"strings"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenAuthorizer resolves a bearer token. An empty required role accepts
// any authenticated user.
type TokenAuthorizer interface {
	Authorize(token string, required domain.UserRole) (domain.Principal, error)
}

// JWTAuth requires a valid bearer token and stores the caller's principal,
// user_id and role on the context.
func JWTAuth(auth TokenAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			c.Abort()
			return
		}

		principal, err := auth.Authorize(token, "")
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.UserID)
		c.Set("role", string(principal.Role))
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by JWTAuth.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
