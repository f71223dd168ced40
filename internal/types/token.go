package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/models"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"role"`
}

// Principal returns the caller identity carried by the token.
func (c *TokenClaims) Principal() Principal {
	return Principal{UserID: c.UserID, Role: c.Role}
}

// Principal is the authenticated caller passed explicitly into every
// service operation.
type Principal struct {
	UserID uuid.UUID
	Role   models.Role
}

func (p Principal) IsPatient() bool  { return p.Role == models.RolePatient }
func (p Principal) IsGuardian() bool { return p.Role == models.RoleGuardian }
