package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationResult reports the schema state after a migration run.
type MigrationResult struct {
	Version  uint
	Dirty    bool
	NoChange bool
}

// Migrate applies the migrations at sourceURL (for example "file://migrations")
// to the database at dsn. A positive steps moves that many versions up, a
// negative one moves down, and zero applies everything when up is set or
// reverts everything otherwise.
//
// Postcondition: Returns the resulting version, or an error. An already
// current schema is not an error.
func Migrate(sourceURL, dsn string, up bool, steps int) (MigrationResult, error) {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case steps != 0:
		err = m.Steps(steps)
	case up:
		err = m.Up()
	default:
		err = m.Down()
	}
	noChange := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !noChange {
		return MigrationResult{}, fmt.Errorf("migrating: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationResult{}, fmt.Errorf("reading schema version: %w", err)
	}
	return MigrationResult{Version: version, Dirty: dirty, NoChange: noChange}, nil
}
