package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/apperrors"
	"fleet-dispatch/internal/shared/logger"
)

// fakeRepo keeps duties and driver snapshots in memory and mirrors the
// transactional coupling of the real repository: lifecycle writes touch
// the duty and its driver together.
type fakeRepo struct {
	duties  map[string]*domain.Duty
	drivers map[string]*domain.DriverSnapshot
	events  []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		duties:  make(map[string]*domain.Duty),
		drivers: make(map[string]*domain.DriverSnapshot),
	}
}

func (f *fakeRepo) CreateDuty(_ context.Context, duty domain.Duty) error {
	d := duty
	f.duties[duty.ID] = &d
	drv, ok := f.drivers[duty.DriverID]
	if !ok {
		return domain.ErrDriverNotFound
	}
	drv.Status = domain.DriverAssigned
	return nil
}

func (f *fakeRepo) GetDutyByID(_ context.Context, dutyID string) (*domain.Duty, error) {
	d, ok := f.duties[dutyID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeRepo) StartDuty(_ context.Context, duty *domain.Duty, openingKm float64, startedAt time.Time) error {
	d, ok := f.duties[duty.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if d.Status != domain.StatusAssigned || d.Version != duty.Version {
		return &apperrors.ConflictError{Expected: duty.Version, Actual: d.Version}
	}
	d.Status = domain.StatusInProgress
	d.OpeningKm = openingKm
	d.StartedAt = &startedAt
	d.Version++

	drv := f.drivers[duty.DriverID]
	drv.Status = domain.DriverInProgress
	drv.Active = false
	return nil
}

func (f *fakeRepo) CompleteDuty(_ context.Context, duty *domain.Duty, closingKm, fuelQuantity, fuelAmount, kilometers float64, completedAt time.Time) error {
	d, ok := f.duties[duty.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if d.Status != domain.StatusInProgress || d.Version != duty.Version {
		return &apperrors.ConflictError{Expected: duty.Version, Actual: d.Version}
	}
	d.Status = domain.StatusCompleted
	d.ClosingKm = closingKm
	d.FuelQuantity = fuelQuantity
	d.FuelAmount = fuelAmount
	d.Kilometers = kilometers
	d.CompletedAt = &completedAt
	d.Version++

	drv := f.drivers[duty.DriverID]
	drv.Status = domain.DriverActive
	drv.Active = true
	drv.LastTripEndKm = closingKm
	return nil
}

func (f *fakeRepo) DeleteDuty(_ context.Context, dutyID, driverID string) error {
	if _, ok := f.duties[dutyID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.duties, dutyID)
	drv := f.drivers[driverID]
	drv.Status = domain.DriverActive
	drv.Active = true
	return nil
}

func (f *fakeRepo) ListByDriver(_ context.Context, driverID string) ([]domain.Duty, error) {
	var out []domain.Duty
	for _, d := range f.duties {
		if d.DriverID == driverID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetDriverSnapshot(_ context.Context, driverID string) (*domain.DriverSnapshot, error) {
	drv, ok := f.drivers[driverID]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	copied := *drv
	return &copied, nil
}

func (f *fakeRepo) CreateEvent(_ context.Context, _, eventType string, _ interface{}) error {
	f.events = append(f.events, eventType)
	return nil
}

type fakePublisher struct {
	keys []string
}

func (p *fakePublisher) PublishJSON(_ context.Context, routingKey string, _ interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

type fakeNotifier struct {
	titles []string
}

func (n *fakeNotifier) Notify(_ context.Context, _, title, _ string, _ map[string]string) {
	n.titles = append(n.titles, title)
}

func newTestService() (*DutyService, *fakeRepo, *fakePublisher, *fakeNotifier) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	notifier := &fakeNotifier{}
	svc := NewDutyService(repo, pub, notifier, logger.New("test"))
	return svc, repo, pub, notifier
}

func addDriver(repo *fakeRepo, id string, lastKm float64) {
	repo.drivers[id] = &domain.DriverSnapshot{
		ID:            id,
		Name:          "Driver " + id,
		Active:        true,
		Status:        domain.DriverActive,
		LastTripEndKm: lastKm,
		PushToken:     "tok-" + id,
	}
}

func testDispatchInput(driverID string) domain.DispatchInput {
	return domain.DispatchInput{
		DriverID: driverID,
		Passenger: domain.Passenger{
			Name:        "Alex Chen",
			Heads:       3,
			Designation: "HOD",
			Department:  "Civil",
			Contact:     "9000000001",
		},
		TourLocation: "North Yard",
		TourDate:     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		TourTime:     "10:00",
	}
}

func TestDispatchHappyPath(t *testing.T) {
	svc, repo, pub, notifier := newTestService()
	addDriver(repo, "d1", 0)

	duty, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if duty.Status != domain.StatusAssigned {
		t.Errorf("expected status assigned, got %s", duty.Status)
	}
	if duty.Version != 1 {
		t.Errorf("new duty must start at version 1, got %d", duty.Version)
	}

	drv := repo.drivers["d1"]
	if !drv.Active || drv.Status != domain.DriverAssigned {
		t.Errorf("driver should stay available with status assigned, got active=%t status=%s", drv.Active, drv.Status)
	}

	if len(pub.keys) != 1 || pub.keys[0] != "task.status.assigned" {
		t.Errorf("expected task.status.assigned published, got %v", pub.keys)
	}
	if len(notifier.titles) != 1 {
		t.Errorf("expected one push notification, got %d", len(notifier.titles))
	}
}

func TestDispatchRejectsBusyDriver(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)
	repo.drivers["d1"].Status = domain.DriverInProgress
	repo.drivers["d1"].Active = false

	_, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if !errors.Is(err, domain.ErrDriverUnavailable) {
		t.Fatalf("expected ErrDriverUnavailable, got %v", err)
	}
}

func TestDispatchRejectsDriverHoldingDuty(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	if _, err := svc.Dispatch(context.Background(), testDispatchInput("d1")); err != nil {
		t.Fatalf("first dispatch failed: %v", err)
	}
	// Still active=true, but status is now "assigned".
	_, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if !errors.Is(err, domain.ErrDriverUnavailable) {
		t.Fatalf("expected ErrDriverUnavailable for second dispatch, got %v", err)
	}
}

func TestDispatchCollectsValidationErrors(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	input := testDispatchInput("d1")
	input.Passenger.Name = ""
	input.Passenger.Contact = "12"
	input.TourLocation = ""

	_, err := svc.Dispatch(context.Background(), input)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Fields) != 3 {
		t.Fatalf("expected 3 violations collected, got %v", ve.Fields)
	}
}

func TestStartDutyOdometerFloor(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 500)

	duty, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	err = svc.StartDuty(context.Background(), duty.ID, "d1", 480, duty.Version)
	var se *apperrors.SequenceError
	if !errors.As(err, &se) {
		t.Fatalf("expected SequenceError for opening below floor, got %v", err)
	}

	// Equal to the floor is allowed.
	if err := svc.StartDuty(context.Background(), duty.ID, "d1", 500, duty.Version); err != nil {
		t.Fatalf("opening equal to floor should pass, got %v", err)
	}
}

func TestStartDutyOwnership(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)
	addDriver(repo, "d2", 0)

	duty, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	err = svc.StartDuty(context.Background(), duty.ID, "d2", 10, duty.Version)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCompleteBeforeStart(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	duty, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	err = svc.CompleteDuty(context.Background(), duty.ID, "d1", 120, 5, 400, duty.Version)
	var se *apperrors.SequenceError
	if !errors.As(err, &se) {
		t.Fatalf("expected SequenceError completing an unstarted duty, got %v", err)
	}
}

func TestCompleteRequiresForwardOdometer(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	duty, _ := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err := svc.StartDuty(context.Background(), duty.ID, "d1", 100, duty.Version); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	for _, closing := range []float64{99, 100} {
		err := svc.CompleteDuty(context.Background(), duty.ID, "d1", closing, 5, 400, 0)
		var ve *apperrors.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("closing %v: expected ValidationError, got %v", closing, err)
		}
	}
}

func TestFullLifecycle(t *testing.T) {
	svc, repo, pub, _ := newTestService()
	addDriver(repo, "d1", 200)

	duty, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if err := svc.StartDuty(context.Background(), duty.ID, "d1", 210, duty.Version); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	drv := repo.drivers["d1"]
	if drv.Active || drv.Status != domain.DriverInProgress {
		t.Errorf("driving driver should be unavailable, got active=%t status=%s", drv.Active, drv.Status)
	}

	stored := repo.duties[duty.ID]
	if err := svc.CompleteDuty(context.Background(), duty.ID, "d1", 265, 6.5, 520, stored.Version); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	stored = repo.duties[duty.ID]
	if stored.Kilometers != 55 {
		t.Errorf("expected derived distance 55, got %v", stored.Kilometers)
	}
	if !drv.Active || drv.Status != domain.DriverActive {
		t.Errorf("completed driver should be idle and available, got active=%t status=%s", drv.Active, drv.Status)
	}
	if drv.LastTripEndKm != 265 {
		t.Errorf("odometer floor should advance to 265, got %v", drv.LastTripEndKm)
	}

	want := []string{"task.status.assigned", "task.status.in-progress", "task.status.completed"}
	if len(pub.keys) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), pub.keys)
	}
	for i, key := range want {
		if pub.keys[i] != key {
			t.Errorf("event %d: expected %s, got %s", i, key, pub.keys[i])
		}
	}
}

func TestStartVersionConflict(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	duty, _ := svc.Dispatch(context.Background(), testDispatchInput("d1"))

	err := svc.StartDuty(context.Background(), duty.ID, "d1", 10, duty.Version+5)
	var ce *apperrors.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError on stale version, got %v", err)
	}
	if repo.duties[duty.ID].Status != domain.StatusAssigned {
		t.Error("conflicting start must not transition the duty")
	}
}

func TestCancelOnlyWhileAssigned(t *testing.T) {
	svc, repo, pub, _ := newTestService()
	addDriver(repo, "d1", 0)

	duty, _ := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err := svc.StartDuty(context.Background(), duty.ID, "d1", 10, duty.Version); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	err := svc.CancelDispatch(context.Background(), duty.ID)
	var se *apperrors.SequenceError
	if !errors.As(err, &se) {
		t.Fatalf("expected SequenceError cancelling a started duty, got %v", err)
	}

	// A fresh assigned duty can be cancelled and frees its driver.
	addDriver(repo, "d2", 0)
	duty2, _ := svc.Dispatch(context.Background(), testDispatchInput("d2"))
	if err := svc.CancelDispatch(context.Background(), duty2.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, ok := repo.duties[duty2.ID]; ok {
		t.Error("cancelled duty should be removed")
	}
	drv := repo.drivers["d2"]
	if !drv.Active || drv.Status != domain.DriverActive {
		t.Errorf("cancelled driver should be reset, got active=%t status=%s", drv.Active, drv.Status)
	}
	if pub.keys[len(pub.keys)-1] != "task.cancelled" {
		t.Errorf("expected task.cancelled published last, got %v", pub.keys)
	}
}

func TestDriverStats(t *testing.T) {
	svc, repo, _, _ := newTestService()
	addDriver(repo, "d1", 0)

	duty, _ := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err := svc.StartDuty(context.Background(), duty.ID, "d1", 0, 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stored := repo.duties[duty.ID]
	if err := svc.CompleteDuty(context.Background(), duty.ID, "d1", 40, 3, 250, stored.Version); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	duty2, err := svc.Dispatch(context.Background(), testDispatchInput("d1"))
	if err != nil {
		t.Fatalf("second dispatch failed: %v", err)
	}
	_ = duty2

	stats, err := svc.DriverStats(context.Background(), "d1")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalTrips != 2 || stats.ActiveDuties != 1 {
		t.Errorf("expected 2 trips / 1 active, got %d / %d", stats.TotalTrips, stats.ActiveDuties)
	}
	if stats.TotalFuel != 3 {
		t.Errorf("expected total fuel 3, got %v", stats.TotalFuel)
	}
}
