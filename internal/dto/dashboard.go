package dto

import "github.com/campustransit/transit-api/internal/models"

// DashboardOverview groups total/active tallies per entity category.
type DashboardOverview struct {
	Buses     models.EntityCount `json:"buses"`
	Routes    models.EntityCount `json:"routes"`
	Schedules models.EntityCount `json:"schedules"`
	Students  models.EntityCount `json:"students"`
	Payments  PaymentOverview    `json:"payments"`
}

// PaymentOverview extends the tally with derived status ratios computed at
// the response boundary, not in SQL.
type PaymentOverview struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	PendingPercent float64 `json:"pending_percent"`
}

// DashboardStatsResponse is the composite payload for /dashboard/stats.
type DashboardStatsResponse struct {
	Overview          DashboardOverview       `json:"overview"`
	RecentPayments    []models.PaymentDetail  `json:"recentPayments"`
	UpcomingSchedules []models.ScheduleDetail `json:"upcomingSchedules"`
}

// RevenueResponse is the payload for /dashboard/revenue.
type RevenueResponse struct {
	Period  string                      `json:"period"`
	Revenue []models.RevenueBucket      `json:"revenue"`
	Methods []models.PaymentMethodShare `json:"methods"`
}

// MaintenanceResponse is the payload for /dashboard/maintenance.
type MaintenanceResponse struct {
	MaintenanceNeeded   []models.MaintenanceEntry `json:"maintenanceNeeded"`
	UpcomingMaintenance []models.MaintenanceEntry `json:"upcomingMaintenance"`
	MaintenanceHistory  []models.MaintenanceEntry `json:"maintenanceHistory"`
}
