package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-dispatch/internal/auth/domain"
)

var ErrUserNotFound = errors.New("user not found")

type AuthRepo struct {
	db *pgxpool.Pool
}

func NewAuthRepo(db *pgxpool.Pool) *AuthRepo {
	return &AuthRepo{db: db}
}

// CreateUser inserts the account and, for drivers, the paired
// operational record in the same transaction. A driver account without
// its drivers row would be undispatchable.
func (r *AuthRepo) CreateUser(ctx context.Context, user *domain.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Name, user.Email, user.Phone, user.Role, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return err
	}

	if user.Role == "driver" {
		_, err = tx.Exec(ctx, `
			INSERT INTO drivers (id, active, status, last_trip_end_km)
			VALUES ($1, TRUE, 'active', 0)
		`, user.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *AuthRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, role, password_hash, COALESCE(push_token, ''), total_kilometers, created_at
		FROM users WHERE email = $1`

	user := &domain.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role,
		&user.PasswordHash, &user.PushToken, &user.TotalKilometers, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *AuthRepo) SavePushToken(ctx context.Context, userID, token string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET push_token = $1 WHERE id = $2`, token, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
