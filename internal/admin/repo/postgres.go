package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-dispatch/internal/duty/domain"
)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{db: db}
}

// DriverOverview merges the driver's profile with the operational
// record and last known location.
type DriverOverview struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Active          bool       `json:"active"`
	Status          string     `json:"status"`
	LastTripEndKm   float64    `json:"last_trip_end_km"`
	TotalKilometers float64    `json:"total_kilometers"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	LocationAt      *time.Time `json:"location_at,omitempty"`
}

const taskColumns = `
	id, driver_id, driver_name,
	passenger_name, passenger_heads, passenger_designation, passenger_department, passenger_contact,
	tour_location, to_char(tour_date, 'YYYY-MM-DD'), tour_time, notes, status,
	opening_km, closing_km, kilometers, fuel_quantity, fuel_amount,
	version, created_at, started_at, completed_at`

func collectTasks(rows pgx.Rows) ([]domain.Duty, error) {
	defer rows.Close()

	var duties []domain.Duty
	for rows.Next() {
		var d domain.Duty
		err := rows.Scan(
			&d.ID, &d.DriverID, &d.DriverName,
			&d.Passenger.Name, &d.Passenger.Heads, &d.Passenger.Designation, &d.Passenger.Department, &d.Passenger.Contact,
			&d.TourLocation, &d.TourDate, &d.TourTime, &d.Notes, &d.Status,
			&d.OpeningKm, &d.ClosingKm, &d.Kilometers, &d.FuelQuantity, &d.FuelAmount,
			&d.Version, &d.CreatedAt, &d.StartedAt, &d.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		duties = append(duties, d)
	}
	return duties, rows.Err()
}

func (r *AdminRepo) ListTasks(ctx context.Context) ([]domain.Duty, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// ListTasksBetween returns tasks whose tour date falls inside the
// inclusive [from, to] range. Dates are YYYY-MM-DD.
func (r *AdminRepo) ListTasksBetween(ctx context.Context, from, to string) ([]domain.Duty, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE tour_date >= $1::date AND tour_date <= $2::date
		ORDER BY tour_date, tour_time
	`, from, to)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *AdminRepo) CountDriversByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM drivers GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ListDrivers returns every driver profile merged with the live
// operational record, optionally filtered by a name substring.
func (r *AdminRepo) ListDrivers(ctx context.Context, search string) ([]DriverOverview, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.total_kilometers,
		       d.active, d.status, d.last_trip_end_km,
		       d.latitude, d.longitude, d.location_at
		FROM users u
		JOIN drivers d ON d.id = u.id
		WHERE u.role = 'driver' AND ($1 = '' OR u.name ILIKE '%' || $1 || '%')
		ORDER BY u.name
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []DriverOverview{}
	for rows.Next() {
		var d DriverOverview
		err := rows.Scan(
			&d.ID, &d.Name, &d.Email, &d.Phone, &d.TotalKilometers,
			&d.Active, &d.Status, &d.LastTripEndKm,
			&d.Latitude, &d.Longitude, &d.LocationAt,
		)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
