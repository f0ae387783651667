package usecase

import (
	"context"

	"fleet-dispatch/internal/driver/adapter/psql"
	"fleet-dispatch/internal/driver/models"
)

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, data interface{}) error
}

type service struct {
	repo   psql.Repo
	broker Publisher
}

type Service interface {
	UpdateLocation(ctx context.Context, data models.Location) error
	GoOnline(ctx context.Context, driverID string) error
	GoOffline(ctx context.Context, driverID string) error
	GetState(ctx context.Context, driverID string) (*models.DriverState, error)
}

func NewService(repo psql.Repo, broker Publisher) Service {
	return &service{repo, broker}
}
