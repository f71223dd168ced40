package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

type ProfileHandler struct {
	profileService service.IProfileService
}

func NewProfileHandler(profileService service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes expects router to already run AuthMiddleware.
func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/history", h.GetProfileHistory)
		profile.POST("/invitation-code", middleware.RequireRole(models.RolePatient), h.RegenerateInvitationCode)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewProfileResponse(profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateFullName(c.Request.Context(), p, req.FullName)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewProfileResponse(profile))
}

func (h *ProfileHandler) RegenerateInvitationCode(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	code, err := h.profileService.RegenerateInvitationCode(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.InvitationCodeResponse{InvitationCode: code})
}

func (h *ProfileHandler) GetProfileHistory(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	history, err := h.profileService.GetProfileHistory(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
