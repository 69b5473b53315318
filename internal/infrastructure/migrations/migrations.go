// Package migrations applies the embedded PostgreSQL schema with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/IgorGrieder/short-links/internal/infrastructure/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Files exposes the embedded SQL, mostly for tests.
func Files() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// engine is the subset of *migrate.Migrate the Migrator drives.
type engine interface {
	Version() (uint, bool, error)
	Up() error
	Steps(n int) error
	Force(v int) error
	Close() (error, error)
}

// DirtyError reports a migration that failed part way. The schema must be
// repaired by hand and the version forced before Up can run again.
type DirtyError struct {
	Version uint
}

func (e *DirtyError) Error() string {
	return fmt.Sprintf("schema is dirty at version %d: repair it, then run `migrate force %d` (or the previous version if the change was reverted)", e.Version, e.Version)
}

type Migrator struct {
	migrate engine
}

// New expects a postgres:// URL.
func New(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{migrate: m}, nil
}

// Up applies pending migrations. It refuses to touch a dirty schema and
// returns a *DirtyError instead.
func (m *Migrator) Up() error {
	version, dirty, err := m.migrate.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		logger.Error("schema is dirty, refusing to migrate", zap.Uint("version", version))
		return &DirtyError{Version: version}
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema already up to date", zap.Uint("version", version))
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	newVersion, _, _ := m.migrate.Version()
	logger.Info("schema migrated", zap.Uint("version", newVersion))
	return nil
}

// Down rolls back a single step.
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("roll back: %w", err)
	}

	version, _, _ := m.migrate.Version()
	logger.Info("schema rolled back", zap.Uint("version", version))
	return nil
}

// Force records version as applied and clean without running any SQL.
func (m *Migrator) Force(version int) error {
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Warn("schema version forced", zap.Int("version", version))
	return nil
}

func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
