package database

import (
	"context"
	"errors"
	"testing"

	"ejaraat_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	assert.NoError(t, HealthCheck(context.Background(), sqlDB))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = HealthCheck(context.Background(), sqlDB)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialector_Unsupported(t *testing.T) {
	_, err := Dialector("oracle", "")
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	db, err := Open(DriverSQLite, ":memory:", false)
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
}
