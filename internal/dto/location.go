package dto

import (
	"time"

	"github.com/campustransit/transit-api/internal/models"
)

// RecordLocationRequest is a GPS ping from a bus. Coordinates are
// pointers so zero readings on the equator or prime meridian pass the
// required check.
type RecordLocationRequest struct {
	BusID      string     `json:"bus_id" validate:"required"`
	Latitude   *float64   `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude  *float64   `json:"longitude" validate:"required,gte=-180,lte=180"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// LocationHistoryRequest bounds a tracking history read.
type LocationHistoryRequest struct {
	From time.Time `form:"from" validate:"required"`
	To   time.Time `form:"to" validate:"required,gtfield=From"`
}

// LocationAnalyticsResponse is the bucketed tracking activity payload.
type LocationAnalyticsResponse struct {
	Period   string                          `json:"period"`
	Activity []models.LocationActivityBucket `json:"activity"`
}
