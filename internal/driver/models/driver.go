package models

import "time"

const (
	DriverActive     = "active"
	DriverAssigned   = "assigned"
	DriverInProgress = "in-progress"
	DriverOffline    = "offline"
)

// DriverState is the operational record paired with a driver account.
type DriverState struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	Status        string     `json:"status"`
	LastTripEndKm float64    `json:"last_trip_end_km"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	LocationAt    *time.Time `json:"location_at,omitempty"`
}

type Location struct {
	DriverID  string  `json:"driver_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
