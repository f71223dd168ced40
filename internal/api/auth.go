package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user, user.Profile)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user, profile)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User, profile *models.Profile) {
	token, err := h.authService.GenerateToken(&types.TokenClaims{UserID: user.ID, Role: profile.Role})
	if err != nil {
		fail(c, err)
		return
	}

	resp := types.NewProfileResponse(profile)
	resp.Email = user.Email
	c.JSON(status, types.AuthResponse{Token: token, Profile: resp})
}
