package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/types"
)

const (
	ContextUserID    = "user_id"
	ContextRole      = "role"
	ContextPrincipal = "principal"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens and stores
// the caller's principal in the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization header", Code: "UNAUTHENTICATED"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header format", Code: "UNAUTHENTICATED"})
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			logger.Security().Warn("rejected token", "path", c.FullPath(), "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token", Code: "INVALID_TOKEN"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextPrincipal, claims.Principal())
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (types.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return types.Principal{}, false
	}
	p, ok := v.(types.Principal)
	return p, ok
}
