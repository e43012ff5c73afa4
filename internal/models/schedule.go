package models

import "time"

// ScheduleStatus is the closed set of trip states.
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in-progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
)

// Valid reports whether the status is one of the known states.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}

// Schedule represents a single bus trip on a route.
type Schedule struct {
	ID            string         `db:"id" json:"id"`
	BusID         string         `db:"bus_id" json:"bus_id"`
	RouteID       string         `db:"route_id" json:"route_id"`
	DepartureTime time.Time      `db:"departure_time" json:"departure_time"`
	ArrivalTime   time.Time      `db:"arrival_time" json:"arrival_time"`
	Fare          float64        `db:"fare" json:"fare"`
	Status        ScheduleStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail joins bus, route and endpoint names onto the schedule row.
// Inner joins drop rows with dangling references.
type ScheduleDetail struct {
	Schedule
	BusNumber     string `db:"bus_number" json:"bus_number"`
	RouteName     string `db:"route_name" json:"route_name"`
	StartLocation string `db:"start_location" json:"start_location"`
	EndLocation   string `db:"end_location" json:"end_location"`
}

// ScheduleFilter captures filtering criteria for listing schedules.
type ScheduleFilter struct {
	Date     *time.Time
	RouteID  string
	Status   ScheduleStatus
	Page     int
	PageSize int
}
