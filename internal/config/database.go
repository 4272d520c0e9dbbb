package config

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/migrations"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Database holds database connection and configuration
type Database struct {
	*sql.DB
	Driver string
	logger *logrus.Logger
}

// NewDatabase opens the database behind databaseURL. URLs with a postgres://
// or postgresql:// scheme use PostgreSQL; anything else is treated as a
// SQLite file path or DSN (":memory:" included).
func NewDatabase(databaseURL string, logger *logrus.Logger) (*Database, error) {
	driver, dsn := resolveDriver(databaseURL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// One connection keeps writes serialized and makes ":memory:" a single database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("driver", driver).Info("Database connection established successfully")

	return &Database{
		DB:     db,
		Driver: driver,
		logger: logger,
	}, nil
}

func resolveDriver(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DriverPostgres, databaseURL
	}

	dsn = databaseURL
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}
	return DriverSQLite, dsn
}

// Migrate applies every embedded migration for the database's dialect.
func (d *Database) Migrate() error {
	return d.migrate(func(m *migrate.Migrate) error { return m.Up() })
}

// MigrateTo moves the schema to the given migration version.
func (d *Database) MigrateTo(version uint) error {
	return d.migrate(func(m *migrate.Migrate) error { return m.Migrate(version) })
}

func (d *Database) migrate(run func(*migrate.Migrate) error) error {
	var (
		driver database.Driver
		files  fs.FS
		subdir string
		err    error
	)

	switch d.Driver {
	case DriverPostgres:
		driver, err = postgres.WithInstance(d.DB, &postgres.Config{})
		files, subdir = migrations.Postgres, "postgres"
	default:
		driver, err = sqlite3.WithInstance(d.DB, &sqlite3.Config{})
		files, subdir = migrations.SQLite, "sqlite"
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(files, subdir)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, d.Driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := run(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	d.logger.WithField("version", version).Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
