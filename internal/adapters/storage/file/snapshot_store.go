package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/spf13/afero"
)

var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type envelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// SnapshotStore keeps one JSON file per key under a directory. Writes go to a
// temp file that is renamed over the target.
type SnapshotStore struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewSnapshotStore creates the directory if needed.
func NewSnapshotStore(fs afero.Fs, dir string) (*SnapshotStore, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}
	return &SnapshotStore{fs: fs, dir: dir}, nil
}

var _ portsrepo.SnapshotRepositoryFacade = (*SnapshotStore)(nil)

func (s *SnapshotStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: invalid snapshot key %q", apperrors.ErrValidation, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *SnapshotStore) read(key string) (*envelope, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	raw, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %q: %w", key, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", key, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", key, err)
	}
	return &env, nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) (*portsrepo.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	env, err := s.read(key)
	if err != nil {
		return nil, err
	}
	return &portsrepo.Snapshot{Data: []byte(env.Data), Version: env.Version}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !json.Valid(data) {
		return 0, fmt.Errorf("%w: snapshot %q is not valid JSON", apperrors.ErrValidation, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	env, err := s.read(key)
	switch {
	case err == nil:
		current = env.Version
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return 0, err
	}
	if current != expectedVersion {
		return 0, fmt.Errorf("snapshot %q at version %d, write based on %d: %w",
			key, current, expectedVersion, apperrors.ErrConflict)
	}

	out, err := json.Marshal(envelope{Version: current + 1, Data: data})
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot %q: %w", key, err)
	}
	p, _ := s.path(key)
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, out, 0o640); err != nil {
		return 0, fmt.Errorf("failed to write snapshot %q: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return 0, fmt.Errorf("failed to replace snapshot %q: %w", key, err)
	}
	return current + 1, nil
}
