package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
)

// SnapshotStore keeps versioned blobs in process memory.
type SnapshotStore struct {
	mu      sync.RWMutex
	entries map[string]portsrepo.Snapshot
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{entries: make(map[string]portsrepo.Snapshot)}
}

var _ portsrepo.SnapshotRepositoryFacade = (*SnapshotStore)(nil)

func (s *SnapshotStore) Load(ctx context.Context, key string) (*portsrepo.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", key, apperrors.ErrNotFound)
	}
	data := make([]byte, len(snap.Data))
	copy(data, snap.Data)
	return &portsrepo.Snapshot{Data: data, Version: snap.Version}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.entries[key].Version
	if current != expectedVersion {
		return 0, fmt.Errorf("snapshot %q at version %d, write based on %d: %w",
			key, current, expectedVersion, apperrors.ErrConflict)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.entries[key] = portsrepo.Snapshot{Data: stored, Version: current + 1}
	return current + 1, nil
}
