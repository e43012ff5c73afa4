package dto

import "time"

// CreateScheduleRequest is the payload for planning a trip.
type CreateScheduleRequest struct {
	BusID         string    `json:"bus_id" validate:"required"`
	RouteID       string    `json:"route_id" validate:"required"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
	Fare          float64   `json:"fare" validate:"required,gt=0"`
}

// UpdateScheduleRequest is the payload for rewriting a trip.
type UpdateScheduleRequest struct {
	BusID         string    `json:"bus_id" validate:"required"`
	RouteID       string    `json:"route_id" validate:"required"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
	Fare          float64   `json:"fare" validate:"required,gt=0"`
	Status        string    `json:"status" validate:"required,oneof=scheduled in-progress completed cancelled"`
}

// UpdateScheduleStatusRequest advances a trip through its lifecycle.
type UpdateScheduleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled in-progress completed cancelled"`
}
