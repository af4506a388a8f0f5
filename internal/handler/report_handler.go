package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/internal/service"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
	"github.com/sreyaslbs/todayinclass/pkg/response"
)

// ReportHandler exposes report, share and export endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// reportDate defaults the date parameter to today.
func reportDate(c *gin.Context) string {
	raw := c.Query("date")
	if raw == "" {
		raw = models.Today().String()
	}
	return raw
}

// Day godoc
// @Summary Day report
// @Description Eight-row reconciliation of timetable and updates
// @Tags Reports
// @Produce json
// @Param id path string true "Class ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/classes/{id}/day [get]
func (h *ReportHandler) Day(c *gin.Context) {
	report, err := h.service.Day(c.Request.Context(), c.Param("id"), reportDate(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Week godoc
// @Summary Week report
// @Description Monday-Friday matrix for the week containing the date
// @Tags Reports
// @Produce json
// @Param id path string true "Class ID"
// @Param date query string false "Reference date, defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/classes/{id}/week [get]
func (h *ReportHandler) Week(c *gin.Context) {
	report, err := h.service.Week(c.Request.Context(), c.Param("id"), reportDate(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Share godoc
// @Summary Share text
// @Description Deterministic plain-text digest for a report window
// @Tags Reports
// @Produce json
// @Param id path string true "Class ID"
// @Param mode query string true "Report mode (day or week)"
// @Param date query string false "Date, defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/classes/{id}/share [get]
func (h *ReportHandler) Share(c *gin.Context) {
	mode := dto.ReportMode(c.DefaultQuery("mode", string(dto.ReportModeDay)))
	text, err := h.service.ShareText(c.Request.Context(), mode, c.Param("id"), reportDate(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"text": text})
}

// Shift godoc
// @Summary Shift report window
// @Description Move the window: day mode steps a single day, week mode applies the full offset
// @Tags Reports
// @Produce json
// @Param mode query string true "Report mode (day or week)"
// @Param date query string true "Current reference date"
// @Param offset query int true "Offset in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/window [get]
func (h *ReportHandler) Shift(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "offset must be a number"))
		return
	}

	mode := dto.ReportMode(c.DefaultQuery("mode", string(dto.ReportModeDay)))
	date, err := h.service.Shift(mode, c.Query("date"), offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"date": date})
}

// Export godoc
// @Summary Export report
// @Description Download a report window as CSV or PDF
// @Tags Reports
// @Produce application/octet-stream
// @Param id path string true "Class ID"
// @Param mode query string true "Report mode (day or week)"
// @Param format query string true "Export format (csv or pdf)"
// @Param date query string false "Date, defaults to today"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/classes/{id}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	mode := dto.ReportMode(c.DefaultQuery("mode", string(dto.ReportModeDay)))

	var (
		data        []byte
		name        string
		contentType string
		err         error
	)
	switch c.Query("format") {
	case "csv":
		data, name, err = h.service.ExportCSV(c.Request.Context(), mode, c.Param("id"), reportDate(c))
		contentType = "text/csv"
	case "pdf":
		data, name, err = h.service.ExportPDF(c.Request.Context(), mode, c.Param("id"), reportDate(c))
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

// Capabilities godoc
// @Summary Caller capabilities
// @Description UI capabilities derived from the caller's effective role
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /capabilities [get]
func (h *ReportHandler) Capabilities(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Capabilities(principal))
}
