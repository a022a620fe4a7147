package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrations locates a set of golang-migrate SQL files. Dir wins when set,
// otherwise the files are read from FS (usually an embed.FS) under Path.
type Migrations struct {
	Dir  string
	FS   fs.FS
	Path string
}

// MigrationSource turns a plain directory into a migrate source URL.
// Values that already carry a scheme are returned unchanged.
func MigrationSource(dir string) string {
	if strings.Contains(dir, "://") {
		return dir
	}
	return "file://" + dir
}

func (m Migrations) open(dsn string) (*migrate.Migrate, error) {
	if m.Dir != "" {
		mg, err := migrate.New(MigrationSource(m.Dir), dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: open migrations in %s: %w", m.Dir, err)
		}
		return mg, nil
	}
	if m.FS == nil {
		return nil, errors.New("postgres: no migration source configured")
	}
	path := m.Path
	if path == "" {
		path = "."
	}
	src, err := iofs.New(m.FS, path)
	if err != nil {
		return nil, fmt.Errorf("postgres: read embedded migrations: %w", err)
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create migrator: %w", err)
	}
	return mg, nil
}

// MigrateUp applies every pending migration. Nothing pending is not an error.
func MigrateUp(dsn string, src Migrations) error {
	return run(dsn, src, "up", (*migrate.Migrate).Up)
}

// MigrateDown rolls back every applied migration.
func MigrateDown(dsn string, src Migrations) error {
	return run(dsn, src, "down", (*migrate.Migrate).Down)
}

// SchemaVersion reports the applied version. ok is false on an empty database.
func SchemaVersion(dsn string, src Migrations) (version uint, dirty, ok bool, err error) {
	mg, err := src.open(dsn)
	if err != nil {
		return 0, false, false, err
	}
	defer mg.Close()

	version, dirty, err = mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("postgres: read schema version: %w", err)
	}
	return version, dirty, true, nil
}

func run(dsn string, src Migrations, direction string, step func(*migrate.Migrate) error) error {
	mg, err := src.open(dsn)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := step(mg); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations %s: %w", direction, err)
	}
	return nil
}
