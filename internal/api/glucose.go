package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/middleware"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

type GlucoseHandler struct {
	glucoseService service.IGlucoseService
}

func NewGlucoseHandler(glucoseService service.IGlucoseService) *GlucoseHandler {
	return &GlucoseHandler{glucoseService: glucoseService}
}

func (h *GlucoseHandler) RegisterRoutes(router *gin.RouterGroup) {
	glucose := router.Group("/glucose")
	{
		glucose.POST("", middleware.RequireRole(models.RolePatient), h.CreateRecord)
		glucose.GET("/:user_id", h.ListRecords)
		glucose.PUT("/records/:id", h.UpdateRecord)
		glucose.DELETE("/records/:id", h.DeleteRecord)
	}
}

func (h *GlucoseHandler) CreateRecord(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req types.CreateGlucoseRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	raw := service.RawReading{
		Glucose: string(req.GlucoseLevel),
		Insulin: req.InsulinUnits.Ptr(),
		HbA1c:   req.HbA1c.Ptr(),
		Note:    req.Note,
	}
	record, err := h.glucoseService.CreateRecord(c.Request.Context(), p, raw, req.MeasuredAt)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewGlucoseRecordResponse(record, service.ClassifyGlucose(record.GlucoseLevel)))
}

// ListRecords returns a readable user's records for ?period= (default all).
func (h *GlucoseHandler) ListRecords(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	target, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	period, err := service.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, err)
		return
	}

	records, err := h.glucoseService.ListRecords(c.Request.Context(), p, target, period)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]types.GlucoseRecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, types.NewGlucoseRecordResponse(&records[i], service.ClassifyGlucose(records[i].GlucoseLevel)))
	}
	c.JSON(http.StatusOK, gin.H{"records": resp})
}

func (h *GlucoseHandler) UpdateRecord(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateGlucoseRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.glucoseService.UpdateRecord(c.Request.Context(), p, id, service.RecordUpdate{
		MeasuredAt:   req.MeasuredAt,
		InsulinUnits: req.InsulinUnits.Ptr(),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NewGlucoseRecordResponse(record, service.ClassifyGlucose(record.GlucoseLevel)))
}

func (h *GlucoseHandler) DeleteRecord(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.glucoseService.DeleteRecord(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
