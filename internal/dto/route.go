package dto

// CreateRouteRequest is the payload for defining a route.
type CreateRouteRequest struct {
	RouteName       string  `json:"route_name" validate:"required"`
	StartLocationID string  `json:"start_location_id" validate:"required"`
	EndLocationID   string  `json:"end_location_id" validate:"required,nefield=StartLocationID"`
	Distance        float64 `json:"distance" validate:"required,gt=0"`
	EstimatedTime   int     `json:"estimated_time" validate:"required,gt=0"`
}

// UpdateRouteRequest is the payload for rewriting a route.
type UpdateRouteRequest struct {
	RouteName       string  `json:"route_name" validate:"required"`
	StartLocationID string  `json:"start_location_id" validate:"required"`
	EndLocationID   string  `json:"end_location_id" validate:"required,nefield=StartLocationID"`
	Distance        float64 `json:"distance" validate:"required,gt=0"`
	EstimatedTime   int     `json:"estimated_time" validate:"required,gt=0"`
	Active          *bool   `json:"is_active" validate:"required"`
}

// UpdateRouteActiveRequest toggles route availability.
type UpdateRouteActiveRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

// CreateLocationRequest registers a stop, terminal or landmark.
// Coordinates are pointers so a zero latitude or longitude is accepted.
type CreateLocationRequest struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Type      string   `json:"type" validate:"required,oneof=stop terminal landmark"`
}
