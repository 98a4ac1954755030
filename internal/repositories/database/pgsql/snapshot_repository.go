package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSnapshotRepository stores versioned JSON blobs in kv_snapshots.
type PgxSnapshotRepository struct {
	BaseRepository
}

func newPgxSnapshotRepository(pool *pgxpool.Pool) *PgxSnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)
	_ portsrepo.SnapshotEventWriter      = (*PgxSnapshotRepository)(nil)
)

func (r *PgxSnapshotRepository) Load(ctx context.Context, key string) (*portsrepo.Snapshot, error) {
	query := `SELECT data, version FROM kv_snapshots WHERE key = $1;`
	var snap portsrepo.Snapshot
	err := r.Pool.QueryRow(ctx, query, key).Scan(&snap.Data, &snap.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %q: %w", key, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}
	return &snap, nil
}

// Save inserts the first version or bumps an existing row whose version still
// matches. Zero affected rows means another writer got there first.
func (r *PgxSnapshotRepository) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	return saveSnapshot(ctx, r.Pool, key, data, expectedVersion)
}

// SaveWithEvents is Save plus the event inserts, committed together. A version
// conflict rolls back and leaves application_events untouched.
func (r *PgxSnapshotRepository) SaveWithEvents(ctx context.Context, key string, data []byte, expectedVersion int64, events []domain.ApplicationEvent) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	newVersion, err := saveSnapshot(ctx, tx, key, data, expectedVersion)
	if err != nil {
		return 0, err
	}
	for _, event := range events {
		if err := insertEvent(ctx, tx, event); err != nil {
			return 0, err
		}
	}
	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func saveSnapshot(ctx context.Context, q querier, key string, data []byte, expectedVersion int64) (int64, error) {
	var query string
	var args []any
	if expectedVersion == 0 {
		query = `
			INSERT INTO kv_snapshots (key, data, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (key) DO NOTHING
			RETURNING version;
		`
		args = []any{key, data}
	} else {
		query = `
			UPDATE kv_snapshots
			SET data = $2, version = version + 1, updated_at = NOW()
			WHERE key = $1 AND version = $3
			RETURNING version;
		`
		args = []any{key, data, expectedVersion}
	}

	var newVersion int64
	err := q.QueryRow(ctx, query, args...).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("snapshot %q moved past version %d: %w", key, expectedVersion, apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return newVersion, nil
}
