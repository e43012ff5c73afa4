package models

import "time"

// BusStatus is the closed set of operational states for a bus.
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusInactive    BusStatus = "inactive"
	BusStatusMaintenance BusStatus = "maintenance"
)

// Valid reports whether the status is one of the known states.
func (s BusStatus) Valid() bool {
	switch s {
	case BusStatusActive, BusStatusInactive, BusStatusMaintenance:
		return true
	}
	return false
}

// Bus represents a fleet vehicle stored in the buses table.
type Bus struct {
	ID                  string     `db:"id" json:"id"`
	BusNumber           string     `db:"bus_number" json:"bus_number"`
	BusNickname         string     `db:"bus_nickname" json:"bus_nickname"`
	Capacity            int        `db:"capacity" json:"capacity"`
	Model               string     `db:"model" json:"model"`
	Status              BusStatus  `db:"status" json:"status"`
	DriverID            *string    `db:"driver_id" json:"driver_id,omitempty"`
	LastMaintenanceDate *time.Time `db:"last_maintenance_date" json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `db:"next_maintenance_date" json:"next_maintenance_date,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// BusDetail joins driver contact information onto the bus row.
type BusDetail struct {
	Bus
	DriverName  *string `db:"driver_name" json:"driver_name,omitempty"`
	DriverPhone *string `db:"driver_phone" json:"driver_phone,omitempty"`
}

// BusFilter captures filtering criteria for listing buses.
type BusFilter struct {
	Status   BusStatus
	Search   string
	Page     int
	PageSize int
}
