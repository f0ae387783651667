package domain

import (
	"context"
	"time"
)

// DutyRepository persists duties and keeps the paired driver record
// consistent. Every lifecycle transition is a single transaction: the
// duty write and the driver write commit or fail together.
type DutyRepository interface {
	CreateDuty(ctx context.Context, duty Duty) error
	GetDutyByID(ctx context.Context, dutyID string) (*Duty, error)
	StartDuty(ctx context.Context, duty *Duty, openingKm float64, startedAt time.Time) error
	CompleteDuty(ctx context.Context, duty *Duty, closingKm, fuelQuantity, fuelAmount, kilometers float64, completedAt time.Time) error
	DeleteDuty(ctx context.Context, dutyID, driverID string) error
	ListByDriver(ctx context.Context, driverID string) ([]Duty, error)
	GetDriverSnapshot(ctx context.Context, driverID string) (*DriverSnapshot, error)
	CreateEvent(ctx context.Context, dutyID, eventType string, payload interface{}) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, data interface{}) error
}

// Notifier delivers best-effort push notifications. Implementations
// must never return delivery failures to the dispatcher.
type Notifier interface {
	Notify(ctx context.Context, token, title, body string, data map[string]string)
}

type DutyService interface {
	Dispatch(ctx context.Context, input DispatchInput) (*Duty, error)
	StartDuty(ctx context.Context, dutyID, driverID string, openingKm float64, expectedVersion int64) error
	CompleteDuty(ctx context.Context, dutyID, driverID string, closingKm, fuelQuantity, fuelAmount float64, expectedVersion int64) error
	CancelDispatch(ctx context.Context, dutyID string) error
	ListByDriver(ctx context.Context, driverID string) ([]Duty, error)
	DriverStats(ctx context.Context, driverID string) (*DriverStats, error)
}
