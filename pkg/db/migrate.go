package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"eventmarket/pkg/config"
)

// MigrateConfig applies every pending up migration from migrationsPath
// (e.g. file://migrations). An up-to-date schema is not an error.
func MigrateConfig(migrationsPath string, cfg config.Config) error {
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return err
	}
	return nil
}

// RollbackConfig reverts the last n applied migrations.
func RollbackConfig(migrationsPath string, cfg config.Config, n int) error {
	if n <= 0 {
		return errors.New("rollback steps must be positive")
	}
	m, err := migrate.New(migrationsPath, migrationConnString(cfg))
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	return m.Steps(-n)
}
