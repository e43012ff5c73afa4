package dto

import "time"

// CreateBusRequest is the payload for registering a bus.
type CreateBusRequest struct {
	BusNumber           string     `json:"bus_number" validate:"required"`
	BusNickname         string     `json:"bus_nickname" validate:"required"`
	Capacity            int        `json:"capacity" validate:"required,gt=0"`
	Model               string     `json:"model" validate:"required"`
	Status              string     `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
	DriverID            *string    `json:"driver_id"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
}

// UpdateBusRequest is the payload for rewriting a bus.
type UpdateBusRequest struct {
	BusNumber           string     `json:"bus_number" validate:"required"`
	BusNickname         string     `json:"bus_nickname" validate:"required"`
	Capacity            int        `json:"capacity" validate:"required,gt=0"`
	Model               string     `json:"model" validate:"required"`
	Status              string     `json:"status" validate:"required,oneof=active inactive maintenance"`
	DriverID            *string    `json:"driver_id"`
	LastMaintenanceDate *time.Time `json:"last_maintenance_date"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date"`
}

// UpdateBusStatusRequest flips only the lifecycle state.
type UpdateBusStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive maintenance"`
}
