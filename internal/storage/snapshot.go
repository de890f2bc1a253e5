package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jackut/internal/models"
)

// SnapshotVersion is the schema version written by this build.
const SnapshotVersion = 1

var (
	// ErrSnapshotNotFound is returned by SnapshotStore.Load when nothing was saved yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotCorrupt is returned when a snapshot fails its version or checksum check.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// SnapshotStore persists one system snapshot.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	// Delete removes the persisted snapshot. Deleting an absent snapshot succeeds.
	Delete(ctx context.Context) error
}

// SnapshotData is the persisted state: users and communities, each sorted by key.
type SnapshotData struct {
	Users       []*models.User      `json:"users"`
	Communities []*models.Community `json:"communities"`
}

// Snapshot is the decoded form of a persisted system state.
type Snapshot struct {
	Version int
	SavedAt time.Time
	Data    SnapshotData
}

type snapshotEnvelope struct {
	Version  int             `json:"version"`
	SavedAt  time.Time       `json:"savedAt"`
	Checksum string          `json:"checksum"`
	Data     json.RawMessage `json:"data"`
}

// EncodeSnapshot renders snap as an indented JSON envelope and returns it along with the
// checksum of its data section.
func EncodeSnapshot(snap *Snapshot) ([]byte, string, error) {
	data := snap.Data
	if data.Users == nil {
		data.Users = []*models.User{}
	}
	if data.Communities == nil {
		data.Communities = []*models.Community{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot data: %w", err)
	}
	sum := checksum(raw)

	payload, err := json.MarshalIndent(snapshotEnvelope{
		Version:  SnapshotVersion,
		SavedAt:  snap.SavedAt.UTC(),
		Checksum: sum,
		Data:     raw,
	}, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, sum, nil
}

// DecodeSnapshot parses and verifies a payload produced by EncodeSnapshot.
func DecodeSnapshot(payload []byte) (*Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if env.Version < 1 || env.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, env.Version)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, env.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if got := checksum(compact.Bytes()); got != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrSnapshotCorrupt)
	}

	snap := &Snapshot{Version: env.Version, SavedAt: env.SavedAt}
	if err := json.Unmarshal(compact.Bytes(), &snap.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return snap, nil
}

func checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
