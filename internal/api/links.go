package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

type LinkHandler struct {
	linkService service.ILinkService
	scope       service.IScopeResolver
	limiter     *middleware.RateLimiter
}

func NewLinkHandler(linkService service.ILinkService, scope service.IScopeResolver, limiter *middleware.RateLimiter) *LinkHandler {
	return &LinkHandler{linkService: linkService, scope: scope, limiter: limiter}
}

func (h *LinkHandler) RegisterRoutes(router *gin.RouterGroup) {
	guardianOnly := middleware.RequireRole(models.RoleGuardian)

	links := router.Group("/links")
	{
		links.POST("", guardianOnly, h.limiter.RateLimitMiddleware(), h.LinkByCode)
		links.GET("/patients", guardianOnly, h.ListPatients)
		links.GET("/guardians", middleware.RequireRole(models.RolePatient), h.ListGuardians)
		links.DELETE("/:user_id", h.Unlink)
	}
	router.GET("/scope", h.Scope)
}

func (h *LinkHandler) LinkByCode(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req types.LinkRequest
	if !bindJSON(c, &req) {
		return
	}

	patient, err := h.linkService.LinkByCode(c.Request.Context(), p, req.Code)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, LinkResponse{Message: "linked to patient", Patient: *patient})
}

func (h *LinkHandler) ListPatients(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	patients, err := h.linkService.ListPatients(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

func (h *LinkHandler) ListGuardians(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	guardians, err := h.linkService.ListGuardians(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guardians": guardians})
}

// Unlink takes the other party's user id: a patient id for guardians and a
// guardian id for patients.
func (h *LinkHandler) Unlink(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	counterpart, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.linkService.Unlink(c.Request.Context(), p, counterpart); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "link removed"})
}

func (h *LinkHandler) Scope(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	ids, err := h.scope.ResolveReadableUserIDs(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ScopeResponse{UserIDs: ids})
}
