package services

import (
	"context"
	"errors"
	"sync"

	"jackut/internal/apperrors"
	"jackut/internal/storage"
)

var errNoSnapshotStore = errors.New("no snapshot store configured")

// SystemService defines the lifecycle of the whole system state.
type SystemService interface {
	// Reset clears memory and deletes the persisted snapshot.
	Reset(ctx context.Context) error
	// Load replaces memory with the persisted snapshot. A missing snapshot is not an
	// error and leaves memory untouched.
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

// mu serializes Reset, Load and Save, covering both the in-memory step and the
// snapshot store call.
type systemService struct {
	base
	mu        sync.Mutex
	state     *storage.Store
	snapshots storage.SnapshotStore
}

func NewSystemService(b base, state *storage.Store, snapshots storage.SnapshotStore) SystemService {
	return &systemService{base: b, state: state, snapshots: snapshots}
}

func (s *systemService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Clear(ctx); err != nil {
		return err
	}
	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx); err != nil {
			return apperrors.PersistenceFailure(err)
		}
	}
	s.log.Info().Msg("system reset")
	return nil
}

func (s *systemService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots == nil {
		return apperrors.PersistenceFailure(errNoSnapshotStore)
	}
	snap, err := s.snapshots.Load(ctx)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		s.log.Info().Msg("no snapshot found, keeping current state")
		return nil
	}
	if err != nil {
		return apperrors.PersistenceFailure(err)
	}
	if err := s.state.Import(ctx, snap); err != nil {
		return err
	}
	s.log.Info().
		Int("users", len(snap.Data.Users)).
		Int("communities", len(snap.Data.Communities)).
		Time("saved_at", snap.SavedAt).
		Msg("system loaded")
	return nil
}

func (s *systemService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots == nil {
		return apperrors.PersistenceFailure(errNoSnapshotStore)
	}
	snap, err := s.state.Export(ctx, s.now())
	if err != nil {
		return err
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	s.log.Debug().
		Int("users", len(snap.Data.Users)).
		Int("communities", len(snap.Data.Communities)).
		Msg("system saved")
	return nil
}
