package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies every pending up migration found at the root of src and
// returns the schema version the database ends on.
func Migrate(databaseURL string, src fs.FS) (uint, error) {
	driver, err := iofs.New(src, ".")
	if err != nil {
		return 0, fmt.Errorf("postgres: open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", driver, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("postgres: schema version %d is dirty", version)
	}
	return version, nil
}
