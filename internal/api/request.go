package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/types"
)

var errUnauthenticated = apperrors.New(apperrors.ErrorTypeAuthentication, "UNAUTHENTICATED", "user not authenticated")

// fail attaches err for middleware.ErrorHandler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func principal(c *gin.Context) (types.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		fail(c, errUnauthenticated)
	}
	return p, ok
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "INVALID_REQUEST", "invalid request body"))
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperrors.New(apperrors.ErrorTypeValidation, "INVALID_ID", name+" must be a valid id"))
		return uuid.Nil, false
	}
	return id, true
}
