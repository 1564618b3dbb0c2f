package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testParent struct {
	ID   uint
	Name string `gorm:"uniqueIndex"`
}

type testChild struct {
	ID       uint
	ParentID uint
	Parent   testParent `gorm:"constraint:OnDelete:RESTRICT"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := SQLiteDSN("file:" + filepath.Join(t.TempDir(), "client.db"))
	conn, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&testParent{}, &testChild{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromConn(conn, config.DriverSQLite)

	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testParent{Name: "committed"}).Error
	}))

	var count int64
	require.NoError(t, conn.Model(&testParent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testParent{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	require.NoError(t, conn.Model(&testParent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rollback should leave one record")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromConn(conn, config.DriverSQLite)

	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testParent{Name: "panicky"}).Error; err != nil {
				return err
			}
			panic("kaboom")
		})
	})

	var count int64
	require.NoError(t, conn.Model(&testParent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPing(t *testing.T) {
	client := NewFromConn(newTestDB(t), config.DriverSQLite)
	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, config.DriverSQLite, client.Driver())
}

func TestNew_SQLite(t *testing.T) {
	cfg := config.DBConfig{
		Driver: "sqlite3",
		DSN:    filepath.Join(t.TempDir(), "boot.db"),
	}
	client, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, config.DriverSQLite, client.Driver())
	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil)
	assert.Error(t, err, "missing DSN")

	_, err = New(context.Background(), config.DBConfig{Driver: "oracle", DSN: "x"}, nil)
	assert.Error(t, err, "unsupported driver")
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "rolls.db?_foreign_keys=on", SQLiteDSN("rolls.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", SQLiteDSN("file:x?mode=memory"))
	assert.Equal(t, "x.db?_fk=1", SQLiteDSN("x.db?_fk=1"))
}

func TestConstraintClassifiers(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, conn.Create(&testParent{Name: "bambu"}).Error)

	err := conn.Create(&testParent{Name: "bambu"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsForeignKeyViolation(err))

	err = conn.Create(&testChild{ParentID: 999}).Error
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.False(t, IsUniqueViolation(err, ""))

	assert.False(t, IsUniqueViolation(nil, ""))
	assert.False(t, IsForeignKeyViolation(nil))
	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "filly_brands_name_key"`), "filly_brands_name_key"))
}
