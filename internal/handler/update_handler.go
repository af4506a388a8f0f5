package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sreyaslbs/todayinclass/internal/dto"
	"github.com/sreyaslbs/todayinclass/internal/service"
	appErrors "github.com/sreyaslbs/todayinclass/pkg/errors"
	"github.com/sreyaslbs/todayinclass/pkg/response"
)

// UpdateHandler exposes daily-update endpoints.
type UpdateHandler struct {
	service *service.UpdateService
}

// NewUpdateHandler creates a new handler.
func NewUpdateHandler(svc *service.UpdateService) *UpdateHandler {
	return &UpdateHandler{service: svc}
}

// Save godoc
// @Summary Save a daily update
// @Description Create or overwrite the update for one period slot
// @Tags Updates
// @Accept json
// @Produce json
// @Param payload body dto.SaveUpdateRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /updates [post]
func (h *UpdateHandler) Save(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	update, err := h.service.Save(c.Request.Context(), principal, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, update)
}

// Delete godoc
// @Summary Delete a daily update
// @Tags Updates
// @Produce json
// @Param id path string true "Update ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /updates/{id} [delete]
func (h *UpdateHandler) Delete(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AllowedPeriods godoc
// @Summary Allowed periods
// @Description Periods the caller may report on for a class and date
// @Tags Updates
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /updates/periods [get]
func (h *UpdateHandler) AllowedPeriods(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	availability, err := h.service.AllowedPeriods(c.Request.Context(), principal, c.Query("classId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, availability)
}

// SlotState godoc
// @Summary Slot prefetch
// @Description Resolve the subject and existing record for one slot
// @Tags Updates
// @Produce json
// @Param classId query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param period query int true "Period number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /updates/slot [get]
func (h *UpdateHandler) SlotState(c *gin.Context) {
	principal, ok := principalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	period, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be a number"))
		return
	}

	state, err := h.service.SlotState(c.Request.Context(), principal, c.Query("classId"), c.Query("date"), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state)
}

// Feed godoc
// @Summary Daily feed
// @Description Every update recorded for one date across classes
// @Tags Updates
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /updates/feed [get]
func (h *UpdateHandler) Feed(c *gin.Context) {
	feed, err := h.service.Feed(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feed)
}
