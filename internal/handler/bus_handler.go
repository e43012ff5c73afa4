package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	"github.com/campustransit/transit-api/internal/service"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
	"github.com/campustransit/transit-api/pkg/response"
)

// BusHandler exposes bus fleet endpoints.
type BusHandler struct {
	buses *service.BusService
}

// NewBusHandler constructs BusHandler.
func NewBusHandler(buses *service.BusService) *BusHandler {
	return &BusHandler{buses: buses}
}

// List godoc
// @Summary List buses
// @Tags Buses
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by bus number or model"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /buses [get]
func (h *BusHandler) List(c *gin.Context) {
	var filter models.BusFilter
	filter.Status = models.BusStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page, filter.PageSize = pageQuery(c)

	buses, pagination, err := h.buses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buses, pagination)
}

// Get godoc
// @Summary Get bus detail
// @Tags Buses
// @Produce json
// @Param id path string true "Bus ID"
// @Success 200 {object} response.Envelope
// @Router /buses/{id} [get]
func (h *BusHandler) Get(c *gin.Context) {
	bus, err := h.buses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// Create godoc
// @Summary Create bus
// @Tags Buses
// @Accept json
// @Produce json
// @Param payload body dto.CreateBusRequest true "Bus payload"
// @Success 201 {object} response.Envelope
// @Router /buses [post]
func (h *BusHandler) Create(c *gin.Context) {
	var req dto.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.buses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, bus)
}

// Update godoc
// @Summary Update bus
// @Tags Buses
// @Accept json
// @Produce json
// @Param id path string true "Bus ID"
// @Param payload body dto.UpdateBusRequest true "Bus payload"
// @Success 200 {object} response.Envelope
// @Router /buses/{id} [put]
func (h *BusHandler) Update(c *gin.Context) {
	var req dto.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bus, err := h.buses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bus, nil)
}

// UpdateStatus godoc
// @Summary Update bus status
// @Tags Buses
// @Accept json
// @Produce json
// @Param id path string true "Bus ID"
// @Param payload body dto.UpdateBusStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /buses/{id}/status [patch]
func (h *BusHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateBusStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.buses.UpdateStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "bus status updated")
}

// Delete godoc
// @Summary Delete bus
// @Tags Buses
// @Produce json
// @Param id path string true "Bus ID"
// @Success 204
// @Router /buses/{id} [delete]
func (h *BusHandler) Delete(c *gin.Context) {
	if err := h.buses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
