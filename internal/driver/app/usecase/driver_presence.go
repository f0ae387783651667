package usecase

import "context"

func (s *service) GoOnline(ctx context.Context, driverID string) error {
	if err := s.repo.SetPresence(ctx, driverID, true); err != nil {
		return err
	}

	_ = s.broker.PublishJSON(ctx, "driver.presence", map[string]interface{}{
		"driver_id": driverID,
		"online":    true,
	})
	return nil
}

func (s *service) GoOffline(ctx context.Context, driverID string) error {
	if err := s.repo.SetPresence(ctx, driverID, false); err != nil {
		return err
	}

	_ = s.broker.PublishJSON(ctx, "driver.presence", map[string]interface{}{
		"driver_id": driverID,
		"online":    false,
	})
	return nil
}
