package models

import "time"

// BusLocation is a single GPS ping recorded for a bus.
type BusLocation struct {
	ID         string    `db:"id" json:"id"`
	BusID      string    `db:"bus_id" json:"bus_id"`
	Latitude   float64   `db:"latitude" json:"latitude"`
	Longitude  float64   `db:"longitude" json:"longitude"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// ActiveBusLocation joins bus identity onto a recent location ping.
type ActiveBusLocation struct {
	BusLocation
	BusNumber   string `db:"bus_number" json:"bus_number"`
	BusNickname string `db:"bus_nickname" json:"bus_nickname"`
}

// LocationActivityBucket is one time bucket of tracking activity.
type LocationActivityBucket struct {
	Bucket          string `db:"bucket" json:"bucket"`
	ActiveBuses     int    `db:"active_buses" json:"active_buses"`
	LocationUpdates int    `db:"location_updates" json:"location_updates"`
}
