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

// BloodDonorHandler exposes the campus blood donor directory.
type BloodDonorHandler struct {
	donors *service.BloodDonorService
}

// NewBloodDonorHandler constructs BloodDonorHandler.
func NewBloodDonorHandler(donors *service.BloodDonorService) *BloodDonorHandler {
	return &BloodDonorHandler{donors: donors}
}

// List godoc
// @Summary List active donors
// @Tags BloodDonors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /blood-donors [get]
func (h *BloodDonorHandler) List(c *gin.Context) {
	donors, err := h.donors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, nil)
}

// Search godoc
// @Summary Search donors
// @Tags BloodDonors
// @Produce json
// @Param bloodGroup query string false "Exact blood group"
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Success 200 {object} response.Envelope
// @Router /blood-donors/search [get]
func (h *BloodDonorHandler) Search(c *gin.Context) {
	criteria := models.BloodDonorSearch{
		Name:       strings.TrimSpace(c.Query("name")),
		Email:      strings.TrimSpace(c.Query("email")),
		BloodGroup: strings.TrimSpace(c.Query("bloodGroup")),
	}
	donors, err := h.donors.Search(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, nil)
}

// Get godoc
// @Summary Get donor detail
// @Tags BloodDonors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 200 {object} response.Envelope
// @Router /blood-donors/{id} [get]
func (h *BloodDonorHandler) Get(c *gin.Context) {
	donor, err := h.donors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor, nil)
}

// Create godoc
// @Summary Register donor
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Param payload body dto.CreateBloodDonorRequest true "Donor payload"
// @Success 201 {object} response.Envelope
// @Router /blood-donors [post]
func (h *BloodDonorHandler) Create(c *gin.Context) {
	var req dto.CreateBloodDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, donor)
}

// Update godoc
// @Summary Update donor
// @Tags BloodDonors
// @Accept json
// @Produce json
// @Param id path string true "Donor ID"
// @Param payload body dto.UpdateBloodDonorRequest true "Donor payload"
// @Success 200 {object} response.Envelope
// @Router /blood-donors/{id} [put]
func (h *BloodDonorHandler) Update(c *gin.Context) {
	var req dto.UpdateBloodDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	donor, err := h.donors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donor, nil)
}

// Delete godoc
// @Summary Remove donor from the directory
// @Tags BloodDonors
// @Produce json
// @Param id path string true "Donor ID"
// @Success 204
// @Router /blood-donors/{id} [delete]
func (h *BloodDonorHandler) Delete(c *gin.Context) {
	if err := h.donors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
