package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

// localFileStorage keeps uploads under a directory on disk.
type localFileStorage struct {
	dir    string
	logger *logger.Logger
}

func NewLocalFileStorage(dir string, log *logger.Logger) (FileStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Err(err).Str("func", "NewLocalFileStorage").Str("dir", dir).Msg("error creating upload directory")
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}
	log.Debug().Str("dir", dir).Msg("creating local file storage")
	return &localFileStorage{dir: dir, logger: log}, nil
}

func (s *localFileStorage) path(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: invalid key %q", ErrFileNotFound, key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

// Save writes to a temp file first and renames it into place.
func (s *localFileStorage) Save(ctx context.Context, key string, _ string, content io.Reader) error {
	log := logger.FromContext(ctx)

	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, content); err != nil {
		tmp.Close()
		log.Err(err).Str("func", "*localFileStorage.Save").Msg("error writing file")
		return fmt.Errorf("error writing file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("error moving file into place: %w", err)
	}
	return nil
}

func (s *localFileStorage) Load(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	return f, nil
}

// Delete is idempotent.
func (s *localFileStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing file: %w", err)
	}
	return nil
}
