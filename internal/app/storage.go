package app

import (
	"context"
	"fmt"

	fileadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/file"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/memory"
	minioadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/minio"
	mongoadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/mongo"
	postgresadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/postgres"
	redisadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/redis"
	sqliteadapter "github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/adapter/sqlite"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
)

// newStorage opens the backing store selected by cfg.Driver.
func newStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (repository.KeyValueStore, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return memory.NewKVStore(), nil
	case config.StorageNone:
		return memory.Noop{}, nil
	case config.StorageFile, "":
		return fileadapter.NewKVStore(cfg.File.Path, log)
	case config.StorageSQLite:
		return sqliteadapter.NewKVStore(cfg.SQLite.Path)
	case config.StoragePostgres:
		return postgresadapter.NewKVStore(ctx, cfg.Postgres.DSN)
	case config.StorageRedis:
		client, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redisadapter.NewKVStore(client, cfg.KeyPrefix), nil
	case config.StorageMongo:
		client, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return mongoadapter.NewKVStore(client, cfg.MongoDB.Database, cfg.MongoDB.Collection, cfg.KeyPrefix), nil
	case config.StorageMinIO:
		return minioadapter.NewKVStore(ctx, cfg.MinIO, cfg.KeyPrefix, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
