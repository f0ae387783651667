package psql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fleet-dispatch/internal/driver/models"
)

func (r *repo) GetState(ctx context.Context, driverID string) (*models.DriverState, error) {
	query := `
		SELECT u.id, u.name, d.active, d.status, d.last_trip_end_km,
		       d.latitude, d.longitude, d.location_at
		FROM users u
		JOIN drivers d ON d.id = u.id
		WHERE u.id = $1 AND u.role = 'driver'`

	var state models.DriverState
	err := r.db.QueryRow(ctx, query, driverID).Scan(
		&state.ID, &state.Name, &state.Active, &state.Status, &state.LastTripEndKm,
		&state.Latitude, &state.Longitude, &state.LocationAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New("driver does not exist")
	} else if err != nil {
		return nil, err
	}

	return &state, nil
}

// UpsertLocation merges the latest coordinates into the driver row and
// appends to the location history.
func (r *repo) UpsertLocation(ctx context.Context, data models.Location) error {
	queryUpdateDriver := `
		UPDATE drivers
		SET latitude = $1, longitude = $2, location_at = NOW()
		WHERE id = $3`
	queryInsertHistory := `
		INSERT INTO location_history(driver_id, latitude, longitude)
		VALUES ($1, $2, $3)`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, queryUpdateDriver, data.Latitude, data.Longitude, data.DriverID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("driver does not exist")
	}

	_, err = tx.Exec(ctx, queryInsertHistory, data.DriverID, data.Latitude, data.Longitude)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetPresence moves an idle driver between "active" and "offline".
// Drivers holding or driving a duty keep their status until the duty
// resolves.
func (r *repo) SetPresence(ctx context.Context, driverID string, online bool) error {
	query := `
		UPDATE drivers
		SET status = $1, active = $2
		WHERE id = $3 AND status IN ('active', 'offline')`

	status := models.DriverOffline
	if online {
		status = models.DriverActive
	}

	cmd, err := r.db.Exec(ctx, query, status, online, driverID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("driver does not exist or has a duty underway")
	}
	return nil
}
