package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campustransit/transit-api/internal/dto"
	"github.com/campustransit/transit-api/internal/models"
	appErrors "github.com/campustransit/transit-api/pkg/errors"
)

type fakeDashboardSrv struct {
	statsResp       *dto.DashboardStatsResponse
	statsErr        error
	statsHit        bool
	revenueResp     *dto.RevenueResponse
	revenueErr      error
	revenuePeriod   string
	maintenanceResp *dto.MaintenanceResponse
	maintenanceErr  error
}

func (f *fakeDashboardSrv) Stats(context.Context) (*dto.DashboardStatsResponse, bool, error) {
	return f.statsResp, f.statsHit, f.statsErr
}

func (f *fakeDashboardSrv) Revenue(_ context.Context, period string) (*dto.RevenueResponse, bool, error) {
	f.revenuePeriod = period
	return f.revenueResp, false, f.revenueErr
}

func (f *fakeDashboardSrv) Maintenance(context.Context) (*dto.MaintenanceResponse, bool, error) {
	return f.maintenanceResp, false, f.maintenanceErr
}

func TestDashboardHandlerStatsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		statsResp: &dto.DashboardStatsResponse{
			Overview: dto.DashboardOverview{
				Buses: models.EntityCount{Total: 12, Active: 9},
			},
		},
		statsHit: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status string                     `json:"status"`
		Data   dto.DashboardStatsResponse `json:"data"`
		Meta   map[string]interface{}     `json:"meta"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, 12, envelope.Data.Overview.Buses.Total)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestDashboardHandlerStatsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{statsErr: appErrors.ErrInternal})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)

	handler.Stats(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope struct {
		Status string `json:"status"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "error", envelope.Status)
}

func TestDashboardHandlerRevenuePassesPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeDashboardSrv{revenueResp: &dto.RevenueResponse{Period: "weekly"}}
	handler := NewDashboardHandler(fake)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/revenue?period=weekly", nil)

	handler.Revenue(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "weekly", fake.revenuePeriod)
}

func TestDashboardHandlerNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/maintenance", nil)

	handler.Maintenance(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
