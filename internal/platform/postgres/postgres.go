// Package postgres owns database connection setup and schema migrations.
package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres migrations driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// migration source
	_ "github.com/lib/pq"                                      // postgres sql driver
)

// timeout waiting for the database connection to be established.
const dbTimeout = 1 * time.Minute

// Open connects to Postgres, waits for the connection to be usable, and runs
// pending migrations from migrationsDir. Pass an empty migrationsDir to skip
// migrations (tests manage their own schema).
func Open(uri, migrationsDir string) (*sql.DB, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := wait(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if migrationsDir != "" {
		if err := Migrate(uri, migrationsDir); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Migrate applies pending migrations from migrationsDir against uri.
func Migrate(uri, migrationsDir string) error {
	if !strings.HasPrefix(migrationsDir, "file:") {
		migrationsDir = "file://" + migrationsDir
	}
	m, err := migrate.New(migrationsDir, uri)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func wait(db *sql.DB) error {
	deadline := time.Now().Add(dbTimeout)
	var err error
	for tries := 0; time.Now().Before(deadline); tries++ {
		err = db.Ping()
		if err == nil {
			return nil
		}
		time.Sleep(time.Second << uint(tries))
	}
	return fmt.Errorf("db connection not established after %s: %w", dbTimeout, err)
}
