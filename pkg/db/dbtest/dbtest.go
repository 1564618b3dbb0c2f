// Package dbtest opens migrated databases for package tests.
package dbtest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	"github.com/angelmondragon/fillytrckr-backend/pkg/migrate"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// EnvPostgresDSN points Postgres-backed tests at a disposable database.
const EnvPostgresDSN = "FILLY_TEST_DB_DSN"

func init() {
	goose.SetLogger(goose.NopLogger())
}

// OpenSQLite returns a client backed by a fresh, fully migrated SQLite file.
func OpenSQLite(t *testing.T) *db.Client {
	t.Helper()

	dsn := db.SQLiteDSN("file:" + filepath.Join(t.TempDir(), "filly.db"))
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.Run(context.Background(), sqlDB, config.DriverSQLite, "up"); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db.NewFromConn(conn, config.DriverSQLite)
}

// OpenPostgres returns a migrated Postgres client, skipping the test when
// FILLY_TEST_DB_DSN is unset. Tables are emptied before and after the test.
func OpenPostgres(t *testing.T) *db.Client {
	t.Helper()

	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvPostgresDSN)
	}

	conn, err := gorm.Open(postgres.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Run(context.Background(), sqlDB, config.DriverPostgres, "up"); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}

	truncate := func() {
		conn.Exec("TRUNCATE filly_rolls, filly_types, filly_brands, filly_colors, filly_subtypes, filly_surfaces RESTART IDENTITY CASCADE")
	}
	truncate()
	t.Cleanup(func() {
		truncate()
		_ = sqlDB.Close()
	})
	return db.NewFromConn(conn, config.DriverPostgres)
}
