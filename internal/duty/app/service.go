package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/apperrors"
	"fleet-dispatch/internal/shared/logger"
)

// DutyService enforces the duty lifecycle: assigned -> in-progress ->
// completed, with cancellation permitted only before start. Each
// transition keeps the paired driver record consistent in the same
// transaction.
type DutyService struct {
	repo     domain.DutyRepository
	pub      domain.Publisher
	notifier domain.Notifier
	logger   *logger.Logger
}

func NewDutyService(repo domain.DutyRepository, pub domain.Publisher, notifier domain.Notifier, log *logger.Logger) *DutyService {
	return &DutyService{repo: repo, pub: pub, notifier: notifier, logger: log}
}

func (s *DutyService) Dispatch(ctx context.Context, input domain.DispatchInput) (*domain.Duty, error) {
	instance := "DutyService.Dispatch"
	start := time.Now()

	if err := domain.ValidateDispatch(input, time.Now()); err != nil {
		s.logger.Warn(instance, "dispatch rejected: "+err.Error())
		return nil, err
	}

	snap, err := s.repo.GetDriverSnapshot(ctx, input.DriverID)
	if err != nil {
		s.logger.Warn(instance, "driver not found: "+input.DriverID)
		return nil, domain.ErrDriverNotFound
	}
	if !snap.Active || snap.Status != domain.DriverActive {
		s.logger.Warn(instance, fmt.Sprintf("driver %s not dispatchable [active=%t, status=%s]", snap.ID, snap.Active, snap.Status))
		return nil, domain.ErrDriverUnavailable
	}

	duty := domain.Duty{
		ID:           uuid.NewString(),
		DriverID:     snap.ID,
		DriverName:   snap.Name,
		Passenger:    input.Passenger,
		TourLocation: input.TourLocation,
		TourDate:     input.TourDate,
		TourTime:     input.TourTime,
		Notes:        input.Notes,
		Status:       domain.StatusAssigned,
		Version:      1,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateDuty(ctx, duty); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	if err := s.repo.CreateEvent(ctx, duty.ID, "DUTY_ASSIGNED", map[string]interface{}{
		"driver_id": duty.DriverID,
		"passenger": duty.Passenger.Name,
	}); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to record event: %v", err))
	}

	if err := s.pub.PublishJSON(ctx, "task.status.assigned", statusEvent(&duty)); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish assignment event: %v", err))
	}

	// Best effort; delivery failures never reach the dispatcher.
	s.notifier.Notify(ctx, snap.PushToken,
		"New Task Assigned!",
		fmt.Sprintf("Passenger: %s\nLocation: %s", duty.Passenger.Name, duty.TourLocation),
		map[string]string{"task_id": duty.ID},
	)

	s.logger.OK(instance, fmt.Sprintf("duty %s dispatched to driver %s in %dms", duty.ID, duty.DriverID, time.Since(start).Milliseconds()))
	return &duty, nil
}

func (s *DutyService) StartDuty(ctx context.Context, dutyID, driverID string, openingKm float64, expectedVersion int64) error {
	instance := "DutyService.StartDuty"

	duty, err := s.repo.GetDutyByID(ctx, dutyID)
	if err != nil {
		return domain.ErrNotFound
	}
	if duty.DriverID != driverID {
		s.logger.Warn(instance, fmt.Sprintf("driver %s tried to start duty %s owned by %s", driverID, dutyID, duty.DriverID))
		return domain.ErrForbidden
	}
	if duty.Status != domain.StatusAssigned {
		return apperrors.NewSequenceError("duty cannot be started from status %q", duty.Status)
	}
	if math.IsNaN(openingKm) || openingKm < 0 {
		return apperrors.NewValidationError("opening odometer")
	}

	snap, err := s.repo.GetDriverSnapshot(ctx, driverID)
	if err != nil {
		return domain.ErrDriverNotFound
	}
	if openingKm < snap.LastTripEndKm {
		s.logger.Warn(instance, fmt.Sprintf("duty %s rejected: opening %.0f below floor %.0f", dutyID, openingKm, snap.LastTripEndKm))
		return apperrors.NewSequenceError("opening odometer is less than last recorded mileage (%.0f km)", snap.LastTripEndKm)
	}

	if expectedVersion != 0 && expectedVersion != duty.Version {
		return &apperrors.ConflictError{Expected: expectedVersion, Actual: duty.Version}
	}

	startedAt := time.Now()
	if err := s.repo.StartDuty(ctx, duty, openingKm, startedAt); err != nil {
		s.logger.Error(instance, err)
		return err
	}

	if err := s.repo.CreateEvent(ctx, dutyID, "DUTY_STARTED", map[string]interface{}{
		"opening_km": openingKm,
	}); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to record event: %v", err))
	}

	duty.Status = domain.StatusInProgress
	duty.OpeningKm = openingKm
	duty.StartedAt = &startedAt
	if err := s.pub.PublishJSON(ctx, "task.status.in-progress", statusEvent(duty)); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish start event: %v", err))
	}

	s.logger.OK(instance, fmt.Sprintf("duty %s started at %.0f km", dutyID, openingKm))
	return nil
}

func (s *DutyService) CompleteDuty(ctx context.Context, dutyID, driverID string, closingKm, fuelQuantity, fuelAmount float64, expectedVersion int64) error {
	instance := "DutyService.CompleteDuty"

	duty, err := s.repo.GetDutyByID(ctx, dutyID)
	if err != nil {
		return domain.ErrNotFound
	}
	if duty.DriverID != driverID {
		return domain.ErrForbidden
	}
	if duty.Status == domain.StatusAssigned {
		return apperrors.NewSequenceError("duty has not been started")
	}
	if duty.Status != domain.StatusInProgress {
		return apperrors.NewSequenceError("duty cannot be completed from status %q", duty.Status)
	}
	if math.IsNaN(closingKm) || closingKm <= duty.OpeningKm {
		return apperrors.NewValidationError("closing odometer must exceed opening odometer")
	}

	if expectedVersion != 0 && expectedVersion != duty.Version {
		return &apperrors.ConflictError{Expected: expectedVersion, Actual: duty.Version}
	}

	kilometers := closingKm - duty.OpeningKm
	completedAt := time.Now()

	if err := s.repo.CompleteDuty(ctx, duty, closingKm, fuelQuantity, fuelAmount, kilometers, completedAt); err != nil {
		s.logger.Error(instance, err)
		return err
	}

	if err := s.repo.CreateEvent(ctx, dutyID, "DUTY_COMPLETED", map[string]interface{}{
		"closing_km": closingKm,
		"kilometers": kilometers,
		"fuel_quantity": fuelQuantity,
		"fuel_amount":   fuelAmount,
	}); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to record event: %v", err))
	}

	duty.Status = domain.StatusCompleted
	duty.ClosingKm = closingKm
	duty.Kilometers = kilometers
	duty.FuelQuantity = fuelQuantity
	duty.FuelAmount = fuelAmount
	duty.CompletedAt = &completedAt
	if err := s.pub.PublishJSON(ctx, "task.status.completed", statusEvent(duty)); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish completion event: %v", err))
	}

	s.logger.OK(instance, fmt.Sprintf("duty %s completed, %.0f km driven", dutyID, kilometers))
	return nil
}

// CancelDispatch removes an unstarted duty and frees its driver. Once a
// duty has started the only way forward is completion.
func (s *DutyService) CancelDispatch(ctx context.Context, dutyID string) error {
	instance := "DutyService.CancelDispatch"

	duty, err := s.repo.GetDutyByID(ctx, dutyID)
	if err != nil {
		return domain.ErrNotFound
	}
	if duty.Status != domain.StatusAssigned {
		return apperrors.NewSequenceError("only assigned duties can be cancelled")
	}

	if err := s.repo.DeleteDuty(ctx, dutyID, duty.DriverID); err != nil {
		s.logger.Error(instance, err)
		return err
	}

	if err := s.repo.CreateEvent(ctx, dutyID, "DUTY_CANCELLED", map[string]interface{}{
		"driver_id": duty.DriverID,
	}); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to record event: %v", err))
	}

	if err := s.pub.PublishJSON(ctx, "task.cancelled", statusEvent(duty)); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("failed to publish cancel event: %v", err))
	}

	s.logger.OK(instance, fmt.Sprintf("duty %s cancelled, driver %s reset to active", dutyID, duty.DriverID))
	return nil
}

func (s *DutyService) ListByDriver(ctx context.Context, driverID string) ([]domain.Duty, error) {
	return s.repo.ListByDriver(ctx, driverID)
}

func (s *DutyService) DriverStats(ctx context.Context, driverID string) (*domain.DriverStats, error) {
	duties, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	stats := &domain.DriverStats{TotalTrips: len(duties)}
	for _, d := range duties {
		if d.Status != domain.StatusCompleted {
			stats.ActiveDuties++
		}
		stats.TotalFuel += d.FuelQuantity
	}
	return stats, nil
}

func statusEvent(d *domain.Duty) map[string]interface{} {
	return map[string]interface{}{
		"task_id":   d.ID,
		"driver_id": d.DriverID,
		"status":    string(d.Status),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
