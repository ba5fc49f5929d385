package store

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

// Storages bundles the repositories the services depend on.
type Storages struct {
	UserRepository     UserRepository
	DocumentRepository DocumentRepository
	FileStorage        FileStorage

	// DB is nil for the in-memory backend.
	DB *DB
}

// NewStorages opens the configured backends and applies migrations.
// An empty DSN keeps users and documents in memory. Files go to S3 when a
// bucket is configured, to the local directory otherwise.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	s := &Storages{}

	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database configured, data is kept in memory")
		s.UserRepository = NewMemoryUserRepository(log)
		s.DocumentRepository = NewMemoryDocumentRepository(log)
	} else {
		db, err := NewConnectDB(ctx, cfg.DB.DSN, log)
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			db.Close()
			return nil, err
		}
		s.DB = db
		s.UserRepository = NewUserRepository(db, log)
		s.DocumentRepository = NewDocumentRepository(db, log)
	}

	var err error
	if cfg.S3.Bucket != "" {
		s.FileStorage, err = NewS3FileStorage(ctx, cfg.S3, log)
	} else {
		s.FileStorage, err = NewLocalFileStorage(cfg.Files.Dir, log)
	}
	if err != nil {
		return nil, errors.Join(err, s.Close())
	}

	return s, nil
}

// PingContext implements [Pinger]. The in-memory backend is always healthy.
func (s *Storages) PingContext(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.PingContext(ctx)
}

func (s *Storages) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
