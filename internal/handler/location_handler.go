package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/service"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
	"github.com/campustransit/transit-api/pkg/response"
)

// LocationHandler exposes live bus tracking endpoints.
type LocationHandler struct {
	tracking *service.BusLocationService
}

// NewLocationHandler constructs LocationHandler.
func NewLocationHandler(tracking *service.BusLocationService) *LocationHandler {
	return &LocationHandler{tracking: tracking}
}

// Record godoc
// @Summary Record a GPS ping
// @Tags Tracking
// @Accept json
// @Produce json
// @Param payload body dto.RecordLocationRequest true "Ping payload"
// @Success 201 {object} response.Envelope
// @Router /tracking/pings [post]
func (h *LocationHandler) Record(c *gin.Context) {
	var req dto.RecordLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ping, err := h.tracking.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ping)
}

// Latest godoc
// @Summary Latest known position for a bus
// @Tags Tracking
// @Produce json
// @Param busId path string true "Bus ID"
// @Success 200 {object} response.Envelope
// @Router /tracking/buses/{busId}/latest [get]
func (h *LocationHandler) Latest(c *gin.Context) {
	ping, err := h.tracking.Latest(c.Request.Context(), c.Param("busId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ping, nil)
}

// Active godoc
// @Summary Buses reporting within the active window
// @Tags Tracking
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tracking/active [get]
func (h *LocationHandler) Active(c *gin.Context) {
	buses, err := h.tracking.Active(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses, nil)
}

// History godoc
// @Summary Position history for a bus
// @Tags Tracking
// @Produce json
// @Param busId path string true "Bus ID"
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Router /tracking/buses/{busId}/history [get]
func (h *LocationHandler) History(c *gin.Context) {
	var req dto.LocationHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid range"))
		return
	}
	pings, err := h.tracking.History(c.Request.Context(), c.Param("busId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pings, nil)
}

// Analytics godoc
// @Summary Tracking activity bucketed by period
// @Tags Tracking
// @Produce json
// @Param period query string false "daily, weekly or monthly"
// @Success 200 {object} response.Envelope
// @Router /tracking/analytics [get]
func (h *LocationHandler) Analytics(c *gin.Context) {
	res, err := h.tracking.Analytics(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
