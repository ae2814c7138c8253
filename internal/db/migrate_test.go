package db

import (
	"testing"

	"github.com/diewo77/orderdesk/internal/config"
	"github.com/diewo77/orderdesk/internal/logging"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func TestConnectAndMigrate(t *testing.T) {
	conn, err := Connect(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), logging.Discard())
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	assert.True(t, conn.Migrator().HasTable(&models.Document{}))
	assert.True(t, conn.Migrator().HasTable("kv_documents"))
	// Migrating twice is a no-op.
	require.NoError(t, Migrate(conn))

	require.NoError(t, Close(conn))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "pool is closed")
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.StoreConfig{Driver: config.DriverSQLite, Path: "x.db"}, config.DatabaseConfig{})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(config.StoreConfig{Driver: config.DriverPostgres}, config.Default().Database)
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(config.StoreConfig{Driver: config.DriverRedis}, config.DatabaseConfig{})
	assert.Error(t, err)
}
