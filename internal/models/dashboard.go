package models

import "time"

// EntityCount is a single-pass total/active tally for one entity table.
type EntityCount struct {
	Total  int `db:"total" json:"total"`
	Active int `db:"active" json:"active"`
}

// RevenueBucket is one time bucket of completed-payment revenue.
type RevenueBucket struct {
	Period  string  `db:"period" json:"period"`
	Label   string  `db:"label" json:"label"`
	Revenue float64 `db:"revenue_total" json:"revenue_total"`
	Count   int     `db:"count" json:"count"`
}

// PaymentMethodShare is the completed-payment distribution for one method.
type PaymentMethodShare struct {
	Method string  `db:"payment_method" json:"payment_method"`
	Count  int     `db:"count" json:"count"`
	Total  float64 `db:"total" json:"total"`
}

// PaymentStatusCount tallies payments in one status.
type PaymentStatusCount struct {
	Status PaymentStatus `db:"status" json:"status"`
	Count  int           `db:"count" json:"count"`
}

// MaintenanceEntry is a bus surfaced by the maintenance queries.
type MaintenanceEntry struct {
	BusID               string     `db:"id" json:"bus_id"`
	BusNumber           string     `db:"bus_number" json:"bus_number"`
	BusNickname         string     `db:"bus_nickname" json:"bus_nickname"`
	Status              BusStatus  `db:"status" json:"status"`
	LastMaintenanceDate *time.Time `db:"last_maintenance_date" json:"last_maintenance_date,omitempty"`
	NextMaintenanceDate *time.Time `db:"next_maintenance_date" json:"next_maintenance_date,omitempty"`
}
