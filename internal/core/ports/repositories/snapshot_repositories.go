package repositories

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// Snapshot keys shared by the registries.
const (
	KeyApplicationsAndUsers = "applications-and-users"
	KeyEmployees            = "employees"
)

// Snapshot is one stored blob together with the version it was written at.
type Snapshot struct {
	Data    []byte
	Version int64
}

// SnapshotReader defines read operations against the key-value snapshot store
type SnapshotReader interface {
	// Load returns the blob stored under key, or apperrors.ErrNotFound.
	Load(ctx context.Context, key string) (*Snapshot, error)
}

// SnapshotWriter defines write operations against the key-value snapshot store
type SnapshotWriter interface {
	// Save replaces the blob under key if the stored version still equals expectedVersion
	// (0 for a key that does not exist yet). It returns the new version, or
	// apperrors.ErrConflict when the caller's read is stale.
	Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error)
}

// SnapshotRepositoryFacade combines snapshot read and write operations
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}

// SnapshotEventWriter is implemented by stores that can write a snapshot and the
// events describing it in one transaction. Either both are stored or neither is.
type SnapshotEventWriter interface {
	SaveWithEvents(ctx context.Context, key string, data []byte, expectedVersion int64, events []domain.ApplicationEvent) (int64, error)
}
