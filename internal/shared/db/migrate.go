package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"fleet-dispatch/internal/shared/models"
)

// RunMigrations applies pending migrations from the configured directory.
// A missing directory is not an error so ad-hoc environments can skip it.
func RunMigrations(cfg *models.Config) error {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	mPath := cfg.MigrationsPath
	if !filepath.IsAbs(mPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		mPath = filepath.Join(cwd, mPath)
	}
	if _, err := os.Stat(mPath); os.IsNotExist(err) {
		return nil
	}

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
