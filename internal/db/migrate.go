package db

import (
	"fmt"
	"time"

	"github.com/diewo77/orderdesk/internal/config"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Dialector picks the gorm dialect for the configured store driver.
func Dialector(cfg config.StoreConfig, dbCfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		return postgres.Open(dbCfg.DSN()), nil
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}
}

// Connect opens the database, retrying to give Postgres time to start.
func Connect(dialector gorm.Dialector, log logrus.FieldLogger) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error

	for i := 0; i < connectAttempts; i++ {
		conn, err = gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err == nil {
			break
		}
		log.WithError(err).Warnf("database connection attempt %d/%d failed, retrying", i+1, connectAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return conn, nil
}

// Close releases the connection pool behind conn.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the document table.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Document{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
