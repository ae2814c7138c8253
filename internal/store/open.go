package store

import (
	"context"
	"fmt"

	"github.com/diewo77/orderdesk/internal/config"
	"github.com/diewo77/orderdesk/internal/db"
	"github.com/sirupsen/logrus"
)

// Open builds the store selected by cfg.Store.Driver. SQL backends are
// migrated first when cfg.App.Migrations is set.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Store, error) {
	sc := cfg.Store
	switch sc.Driver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverFile:
		return NewFileStore(sc.Path)
	case config.DriverSQLite, config.DriverPostgres:
		dialector, err := db.Dialector(sc, cfg.Database)
		if err != nil {
			return nil, err
		}
		conn, err := db.Connect(dialector, log)
		if err != nil {
			return nil, err
		}
		if cfg.App.Migrations {
			if err := db.Migrate(conn); err != nil {
				return nil, err
			}
		}
		return NewGormStore(conn), nil
	case config.DriverRedis:
		return DialRedis(ctx, sc.RedisAddr, sc.RedisPassword, sc.RedisDB, sc.RedisPrefix)
	case config.DriverNATS:
		return DialNATS(ctx, sc.NATSURL, sc.NATSBucket)
	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}
}
