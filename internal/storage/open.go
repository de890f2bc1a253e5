package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"jackut/internal/config"
)

// OpenSnapshotStore builds the backend selected by cfg.Storage.Type. The returned
// cleanup releases backend resources and is never nil.
func OpenSnapshotStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (SnapshotStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Type {
	case config.StorageFile, "":
		s, err := NewFileSnapshotStore(cfg.Storage.SnapshotPath())
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("path", s.Path()).Msg("using file snapshot store")
		return s, noop, nil

	case config.StoragePostgres:
		db, err := InitDB(cfg.Database, log)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, fmt.Errorf("get sql db: %w", err)
		}
		cleanup := func() {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("closing database")
			}
		}
		if err := AutoMigrateTables(db.WithContext(ctx)); err != nil {
			cleanup()
			return nil, noop, err
		}
		log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("using postgres snapshot store")
		return NewGormSnapshotStore(db, cfg.Storage.SnapshotName), cleanup, nil

	case config.StorageS3:
		s, err := NewObjectSnapshotStore(ctx, cfg.Storage.S3, cfg.Storage.SnapshotName)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("bucket", cfg.Storage.S3.BucketName).Msg("using s3 snapshot store")
		return s, noop, nil

	default:
		return nil, noop, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
