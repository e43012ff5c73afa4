package models

import "time"

// LocationType categorizes stored locations.
type LocationType string

const (
	LocationTypeStop     LocationType = "stop"
	LocationTypeTerminal LocationType = "terminal"
	LocationTypeLandmark LocationType = "landmark"
)

// Location is a named geographic point referenced by routes.
type Location struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Latitude  float64      `db:"latitude" json:"latitude"`
	Longitude float64      `db:"longitude" json:"longitude"`
	Type      LocationType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// Route represents a service line between two locations.
type Route struct {
	ID              string    `db:"id" json:"id"`
	RouteName       string    `db:"route_name" json:"route_name"`
	StartLocationID string    `db:"start_location_id" json:"start_location_id"`
	EndLocationID   string    `db:"end_location_id" json:"end_location_id"`
	Distance        float64   `db:"distance" json:"distance"`
	EstimatedTime   int       `db:"estimated_time" json:"estimated_time"`
	Active          bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// RouteDetail joins endpoint location attributes onto the route row.
type RouteDetail struct {
	Route
	StartLocationName string  `db:"start_location_name" json:"start_location_name"`
	StartLatitude     float64 `db:"start_latitude" json:"start_latitude"`
	StartLongitude    float64 `db:"start_longitude" json:"start_longitude"`
	EndLocationName   string  `db:"end_location_name" json:"end_location_name"`
	EndLatitude       float64 `db:"end_latitude" json:"end_latitude"`
	EndLongitude      float64 `db:"end_longitude" json:"end_longitude"`
}

// RouteFilter captures filtering criteria for listing routes.
type RouteFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
