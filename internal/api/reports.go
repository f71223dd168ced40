package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/service"
)

type ReportHandler struct {
	reportService service.IReportService
}

func NewReportHandler(reportService service.IReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/:user_id", h.GetReport)
		reports.GET("/:user_id/csv", h.ExportCSV)
		reports.POST("/:user_id/archive", h.Archive)
	}
}

func (h *ReportHandler) build(c *gin.Context) (*service.Report, bool) {
	p, ok := principal(c)
	if !ok {
		return nil, false
	}
	target, ok := uuidParam(c, "user_id")
	if !ok {
		return nil, false
	}
	period, err := service.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, err)
		return nil, false
	}

	report, err := h.reportService.Build(c.Request.Context(), p, target, period)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return report, true
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportCSV(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("glucose-%s-%s.csv", report.Period, report.GeneratedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := service.WriteCSV(c.Writer, report); err != nil {
		_ = c.Error(apperrors.NewInternalError(err))
	}
}

func (h *ReportHandler) Archive(c *gin.Context) {
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

	resp, err := h.reportService.Archive(c.Request.Context(), p, target, period)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
