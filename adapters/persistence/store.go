package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/internal/domain/owner"
	"github.com/khoahotran/devfolio/pkg/logger"
)

// OpenOwnerRepo builds the repository for cfg.Store.Driver. The returned func
// releases the underlying client. Postgres schemas are migrated first.
func OpenOwnerRepo(ctx context.Context, cfg config.Config, log logger.Logger) (owner.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := NewMongoClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Error("Mongo disconnect failed", err)
			}
		}
		db := client.Database(cfg.Mongo.Database)
		if err := EnsureOwnerIndexes(ctx, db); err != nil {
			closeFn()
			return nil, nil, err
		}
		return NewMongoOwnerRepo(db, log), closeFn, nil

	case config.StorePostgres:
		if err := MigratePostgres(cfg.DB.DSN, cfg.DB.Migrations, log); err != nil {
			return nil, nil, err
		}
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresOwnerRepo(pool, log), pool.Close, nil

	case config.StoreMemory:
		log.Warn("Using in-memory store, data is lost on restart")
		return NewMemoryOwnerRepo(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
