package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/apperrors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler renders the last error attached with c.Error as JSON and
// turns panics into a 500.
func ErrorHandler(handler *apperrors.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
				handler.Handle(c.Request.Context(), err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: err.PublicMessage(), Code: err.Code})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := apperrors.As(c.Errors.Last().Err)
		handler.Handle(c.Request.Context(), appErr.WithContext("path", c.FullPath()))
		if c.Writer.Written() {
			return
		}
		c.JSON(appErr.HTTPStatus(), ErrorResponse{Error: appErr.PublicMessage(), Code: appErr.Code})
	}
}
