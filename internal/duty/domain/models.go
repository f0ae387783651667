package domain

import "time"

type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Driver operational status labels. Availability and label move in
// lock-step: active+"active" is idle, active+"assigned" holds an
// unstarted duty, inactive+"in-progress" is driving.
const (
	DriverActive     = "active"
	DriverAssigned   = "assigned"
	DriverInProgress = "in-progress"
	DriverOffline    = "offline"
)

// Passenger is the manifest embedded in a duty. It has no independent
// lifecycle and is versioned with its owning duty.
type Passenger struct {
	Name        string `json:"name"`
	Heads       int    `json:"heads"`
	Designation string `json:"designation"`
	Department  string `json:"department"`
	Contact     string `json:"contact"`
}

type Duty struct {
	ID           string     `json:"id"`
	DriverID     string     `json:"driver_id"`
	DriverName   string     `json:"driver_name"`
	Passenger    Passenger  `json:"passenger"`
	TourLocation string     `json:"tour_location"`
	TourDate     string     `json:"tour_date"` // YYYY-MM-DD
	TourTime     string     `json:"tour_time"` // HH:MM
	Notes        string     `json:"notes"`
	Status       Status     `json:"status"`
	OpeningKm    float64    `json:"opening_km"`
	ClosingKm    float64    `json:"closing_km"`
	Kilometers   float64    `json:"kilometers"`
	FuelQuantity float64    `json:"fuel_quantity"`
	FuelAmount   float64    `json:"fuel_amount"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type DispatchInput struct {
	DriverID     string    `json:"driver_id"`
	Passenger    Passenger `json:"passenger"`
	TourLocation string    `json:"tour_location"`
	TourDate     string    `json:"tour_date"`
	TourTime     string    `json:"tour_time"`
	Notes        string    `json:"notes"`
}

// DriverSnapshot is the slice of driver state the lifecycle tracker
// needs: dispatch eligibility, the odometer floor and the push target.
type DriverSnapshot struct {
	ID            string
	Name          string
	Active        bool
	Status        string
	LastTripEndKm float64
	PushToken     string
}

// DriverStats summarises a driver's duty history for their dashboard.
type DriverStats struct {
	TotalTrips   int     `json:"total_trips"`
	ActiveDuties int     `json:"active_duties"`
	TotalFuel    float64 `json:"total_fuel"`
}

var Designations = []string{"Advisor", "HOD", "Senior Manager", "Manager", "Asst Manager", "Executive"}

var Departments = []string{"Operation", "Civil", "HR", "Admin", "Survey", "HSD", "Accounts"}

func validDesignation(s string) bool {
	for _, d := range Designations {
		if s == d {
			return true
		}
	}
	return false
}

func validDepartment(s string) bool {
	for _, d := range Departments {
		if s == d {
			return true
		}
	}
	return false
}
