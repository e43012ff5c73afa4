package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campustransit/transit-api/internal/models"
	"github.com/campustransit/transit-api/internal/service"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
	"github.com/campustransit/transit-api/pkg/response"
)

// PublicHandler serves the unauthenticated read surface: timetables,
// the blood donor directory and rider payment verification.
type PublicHandler struct {
	schedules *service.ScheduleService
	donors    *service.BloodDonorService
	students  *service.StudentService
	auth      *service.AuthService
}

// NewPublicHandler constructs PublicHandler.
func NewPublicHandler(schedules *service.ScheduleService, donors *service.BloodDonorService, students *service.StudentService, auth *service.AuthService) *PublicHandler {
	return &PublicHandler{schedules: schedules, donors: donors, students: students, auth: auth}
}

// Schedules godoc
// @Summary Public timetable for a date
// @Tags Public
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /public/schedules [get]
func (h *PublicHandler) Schedules(c *gin.Context) {
	dateStr := strings.TrimSpace(c.Query("date"))
	if dateStr == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
		return
	}

	var filter models.ScheduleFilter
	filter.Date = &parsed
	filter.Page, filter.PageSize = pageQuery(c)

	schedules, pagination, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// RouteSchedules godoc
// @Summary Public timetable for a route
// @Tags Public
// @Produce json
// @Param id path string true "Route ID"
// @Success 200 {object} response.Envelope
// @Router /public/routes/{id}/schedules [get]
func (h *PublicHandler) RouteSchedules(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.RouteID = c.Param("id")
	filter.Page, filter.PageSize = pageQuery(c)

	schedules, pagination, err := h.schedules.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Donors godoc
// @Summary Public donor directory
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /public/blood-donors [get]
func (h *PublicHandler) Donors(c *gin.Context) {
	donors, err := h.donors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, donors, nil)
}

// SearchDonors godoc
// @Summary Public donor search
// @Tags Public
// @Produce json
// @Param bloodGroup query string false "Exact blood group"
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Success 200 {object} response.Envelope
// @Router /public/blood-donors/search [get]
func (h *PublicHandler) SearchDonors(c *gin.Context) {
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

// PaymentStatus godoc
// @Summary Verify a student's payment standing
// @Tags Public
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /public/students/{id}/payment-status [get]
func (h *PublicHandler) PaymentStatus(c *gin.Context) {
	summary, err := h.students.PaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Driver godoc
// @Summary Public driver info
// @Tags Public
// @Produce json
// @Param id path string true "Driver ID"
// @Success 200 {object} response.Envelope
// @Router /public/drivers/{id} [get]
func (h *PublicHandler) Driver(c *gin.Context) {
	info, err := h.auth.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if info.Role != models.RoleDriver {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "driver not found"))
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
