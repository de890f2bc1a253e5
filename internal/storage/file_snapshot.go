package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileSnapshotStore keeps the snapshot in a single JSON file on local disk.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore creates the parent directory of path if needed.
func NewFileSnapshotStore(path string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory '%s': %w", filepath.Dir(path), err)
	}
	return &FileSnapshotStore{path: path}, nil
}

func (s *FileSnapshotStore) Path() string { return s.path }

func (s *FileSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot '%s': %w", s.path, err)
	}
	return DecodeSnapshot(payload)
}

// Save writes to a uniquely named temp file in the same directory and renames it over
// the target, so readers see either the old snapshot or the new one.
func (s *FileSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, _, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory '%s': %w", dir, err)
	}
	tmpPath := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.New().String()+".tmp")

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create temp snapshot '%s': %w", tmpPath, err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot '%s': %w", s.path, err)
	}
	return nil
}

func (s *FileSnapshotStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete snapshot '%s': %w", s.path, err)
	}
	return nil
}
