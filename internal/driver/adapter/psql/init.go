package psql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-dispatch/internal/driver/models"
)

type Repo interface {
	GetState(ctx context.Context, driverID string) (*models.DriverState, error)
	UpsertLocation(ctx context.Context, data models.Location) error
	SetPresence(ctx context.Context, driverID string, online bool) error
}

type repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) Repo {
	return &repo{db: db}
}
