package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophSignup/internal/config"
	"github.com/atinyakov/GophSignup/internal/db"
	"github.com/atinyakov/GophSignup/internal/models"
)

// Store is implemented by every record repository in this package.
type Store interface {
	Save(ctx context.Context, record models.FormRecord) error
	Load(ctx context.Context) (*models.FormRecord, error)
}

// Open builds the repository selected by opts.Storage. The returned close
// function releases any connection the repository holds.
func Open(ctx context.Context, opts *config.Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Storage {
	case config.StorageMemory:
		return NewMemoryRecordRepository(), noop, nil
	case config.StorageFile:
		return NewFileRecordRepository(opts.StoragePath, opts.StorageKey), noop, nil
	case config.StoragePostgres:
		conn, err := db.InitPostgres(ctx, opts.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresRecordRepository(conn, opts.StorageKey), conn.Close, nil
	case config.StorageRedis:
		client, err := db.InitRedis(ctx, opts.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisRecordRepository(client, opts.StorageKey), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Storage)
	}
}
