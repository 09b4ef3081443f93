package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// mockedDatabase wraps a sqlmock connection the way Open wraps a real one.
func mockedDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return &Database{DB: gormDB, driver: "postgres"}, mock
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), &config.DatabaseConfig{Driver: "sqlite", DBName: "file::memory:"}, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(context.Background()))

	pool, err := db.Pool()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", pool.Driver)
	assert.Equal(t, 1, pool.MaxOpen)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "oracle"}, nil)
		assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
	})

	t.Run("unreachable postgres", func(t *testing.T) {
		_, err := Open(context.Background(), &config.DatabaseConfig{
			Driver:  "postgres",
			Host:    "127.0.0.1",
			Port:    1,
			User:    "obras",
			DBName:  "obras",
			SSLMode: "disable",
		}, nil)
		assert.Error(t, err)
	})
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := mockedDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	assert.ErrorContains(t, db.Ping(context.Background()), "ping database: connection reset")

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Pool(t *testing.T) {
	db, mock := mockedDatabase(t)
	mock.ExpectClose()
	defer db.Close()

	pool, err := db.Pool()
	require.NoError(t, err)
	assert.Equal(t, "postgres", pool.Driver)
	assert.Equal(t, pool.Open, pool.InUse+pool.Idle)
	assert.NotEmpty(t, pool.WaitDuration)
}
