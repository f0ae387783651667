package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/apperrors"
)

type DutyRepo struct {
	db *pgxpool.Pool
}

func NewDutyRepo(db *pgxpool.Pool) *DutyRepo {
	return &DutyRepo{db: db}
}

const dutyColumns = `
	id, driver_id, driver_name,
	passenger_name, passenger_heads, passenger_designation, passenger_department, passenger_contact,
	tour_location, to_char(tour_date, 'YYYY-MM-DD'), tour_time, notes, status,
	opening_km, closing_km, kilometers, fuel_quantity, fuel_amount,
	version, created_at, started_at, completed_at`

func scanDuty(row pgx.Row) (*domain.Duty, error) {
	var d domain.Duty
	err := row.Scan(
		&d.ID, &d.DriverID, &d.DriverName,
		&d.Passenger.Name, &d.Passenger.Heads, &d.Passenger.Designation, &d.Passenger.Department, &d.Passenger.Contact,
		&d.TourLocation, &d.TourDate, &d.TourTime, &d.Notes, &d.Status,
		&d.OpeningKm, &d.ClosingKm, &d.Kilometers, &d.FuelQuantity, &d.FuelAmount,
		&d.Version, &d.CreatedAt, &d.StartedAt, &d.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDuty inserts the duty and marks its driver assigned in one
// transaction. The driver stays available-flagged until the duty starts.
func (r *DutyRepo) CreateDuty(ctx context.Context, duty domain.Duty) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (
			id, driver_id, driver_name,
			passenger_name, passenger_heads, passenger_designation, passenger_department, passenger_contact,
			tour_location, tour_date, tour_time, notes, status, version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		duty.ID, duty.DriverID, duty.DriverName,
		duty.Passenger.Name, duty.Passenger.Heads, duty.Passenger.Designation, duty.Passenger.Department, duty.Passenger.Contact,
		duty.TourLocation, duty.TourDate, duty.TourTime, duty.Notes, duty.Status, duty.Version, duty.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task failed: %w", err)
	}

	cmd, err := tx.Exec(ctx, `
		UPDATE drivers SET status = 'assigned' WHERE id = $1
	`, duty.DriverID)
	if err != nil {
		return fmt.Errorf("update driver status failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDriverNotFound
	}

	return tx.Commit(ctx)
}

func (r *DutyRepo) GetDutyByID(ctx context.Context, dutyID string) (*domain.Duty, error) {
	row := r.db.QueryRow(ctx, `SELECT `+dutyColumns+` FROM tasks WHERE id = $1`, dutyID)
	d, err := scanDuty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// StartDuty flips the duty to in-progress and the driver to busy in one
// transaction. The version predicate makes concurrent starts lose with
// a ConflictError instead of overwriting each other.
func (r *DutyRepo) StartDuty(ctx context.Context, duty *domain.Duty, openingKm float64, startedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE tasks
		SET status = 'in-progress',
		    opening_km = $1,
		    started_at = $2,
		    version = version + 1
		WHERE id = $3 AND status = 'assigned' AND version = $4
	`, openingKm, startedAt, duty.ID, duty.Version)
	if err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflictFor(ctx, duty)
	}

	_, err = tx.Exec(ctx, `
		UPDATE drivers SET status = 'in-progress', active = FALSE WHERE id = $1
	`, duty.DriverID)
	if err != nil {
		return fmt.Errorf("update driver status failed: %w", err)
	}

	return tx.Commit(ctx)
}

// CompleteDuty closes the duty, frees the driver, advances the odometer
// floor and credits the driver's lifetime distance, all in one
// transaction.
func (r *DutyRepo) CompleteDuty(ctx context.Context, duty *domain.Duty, closingKm, fuelQuantity, fuelAmount, kilometers float64, completedAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE tasks
		SET status = 'completed',
		    closing_km = $1,
		    fuel_quantity = $2,
		    fuel_amount = $3,
		    kilometers = $4,
		    completed_at = $5,
		    version = version + 1
		WHERE id = $6 AND status = 'in-progress' AND version = $7
	`, closingKm, fuelQuantity, fuelAmount, kilometers, completedAt, duty.ID, duty.Version)
	if err != nil {
		return fmt.Errorf("update task failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflictFor(ctx, duty)
	}

	_, err = tx.Exec(ctx, `
		UPDATE drivers
		SET status = 'active',
		    active = TRUE,
		    last_trip_end_km = $1
		WHERE id = $2
	`, closingKm, duty.DriverID)
	if err != nil {
		return fmt.Errorf("update driver status failed: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET total_kilometers = total_kilometers + $1 WHERE id = $2
	`, kilometers, duty.DriverID)
	if err != nil {
		return fmt.Errorf("update lifetime distance failed: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteDuty removes an unstarted duty and resets its driver to
// available in one transaction.
func (r *DutyRepo) DeleteDuty(ctx context.Context, dutyID, driverID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		DELETE FROM tasks WHERE id = $1 AND status = 'assigned'
	`, dutyID)
	if err != nil {
		return fmt.Errorf("delete task failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE drivers SET status = 'active', active = TRUE WHERE id = $1
	`, driverID)
	if err != nil {
		return fmt.Errorf("reset driver status failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *DutyRepo) ListByDriver(ctx context.Context, driverID string) ([]domain.Duty, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+dutyColumns+` FROM tasks WHERE driver_id = $1 ORDER BY created_at DESC
	`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duties []domain.Duty
	for rows.Next() {
		d, err := scanDuty(rows)
		if err != nil {
			return nil, err
		}
		duties = append(duties, *d)
	}
	return duties, rows.Err()
}

func (r *DutyRepo) GetDriverSnapshot(ctx context.Context, driverID string) (*domain.DriverSnapshot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT u.id, u.name, COALESCE(u.push_token, ''), d.active, d.status, d.last_trip_end_km
		FROM users u
		JOIN drivers d ON d.id = u.id
		WHERE u.id = $1 AND u.role = 'driver'
	`, driverID)

	var snap domain.DriverSnapshot
	err := row.Scan(&snap.ID, &snap.Name, &snap.PushToken, &snap.Active, &snap.Status, &snap.LastTripEndKm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return &snap, nil
}

func (r *DutyRepo) CreateEvent(ctx context.Context, dutyID, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO task_events (task_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3::jsonb, NOW())
	`, dutyID, eventType, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert task event: %w", err)
	}
	return nil
}

// conflictFor distinguishes a stale version from a vanished or
// already-transitioned duty after a zero-row conditional update.
func (r *DutyRepo) conflictFor(ctx context.Context, duty *domain.Duty) error {
	var version int64
	err := r.db.QueryRow(ctx, `SELECT version FROM tasks WHERE id = $1`, duty.ID).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return &apperrors.ConflictError{Expected: duty.Version, Actual: version}
}
