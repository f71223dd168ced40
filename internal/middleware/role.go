package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/models"
)

// RequireRole aborts requests whose principal does not carry role.
func RequireRole(role models.Role) gin.HandlerFunc {
	denied := apperrors.ErrAccessDenied
	switch role {
	case models.RolePatient:
		denied = apperrors.ErrPatientOnly
	case models.RoleGuardian:
		denied = apperrors.ErrGuardianOnly
	}

	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || p.Role != role {
			_ = c.Error(denied)
			c.Abort()
			return
		}
		c.Next()
	}
}
