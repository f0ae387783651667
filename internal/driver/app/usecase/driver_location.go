package usecase

import (
	"context"

	"fleet-dispatch/internal/driver/models"
	"fleet-dispatch/internal/shared/validation"
)

func (s *service) UpdateLocation(ctx context.Context, data models.Location) error {
	if err := validation.ValidateCoordinates(data.Latitude, data.Longitude); err != nil {
		return err
	}

	if err := s.repo.UpsertLocation(ctx, data); err != nil {
		return err
	}

	// Fleet views consume this for the live map; failures there must not
	// fail the driver's update.
	_ = s.broker.PublishJSON(ctx, "driver.location", data)

	return nil
}

func (s *service) GetState(ctx context.Context, driverID string) (*models.DriverState, error) {
	return s.repo.GetState(ctx, driverID)
}
