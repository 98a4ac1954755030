package file_test

import (
	"context"
	"testing"

	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/file"
	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_SaveLoadConflict(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store, err := file.NewSnapshotStore(fs, "/data")
	require.NoError(t, err)

	_, err = store.Load(ctx, "employees")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	v, err := store.Save(ctx, "employees", []byte(`[["CLK001",{}]]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	exists, err := afero.Exists(fs, "/data/employees.json")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = store.Save(ctx, "employees", []byte(`[]`), 0)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	snap, err := store.Load(ctx, "employees")
	require.NoError(t, err)
	assert.JSONEq(t, `[["CLK001",{}]]`, string(snap.Data))
	assert.Equal(t, int64(1), snap.Version)
}

func TestSnapshotStore_SecondInstanceSeesWrites(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	a, err := file.NewSnapshotStore(fs, "/data")
	require.NoError(t, err)
	b, err := file.NewSnapshotStore(fs, "/data")
	require.NoError(t, err)

	_, err = a.Save(ctx, "applications-and-users", []byte(`{}`), 0)
	require.NoError(t, err)

	_, err = b.Save(ctx, "applications-and-users", []byte(`{"x":1}`), 0)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSnapshotStore_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store, err := file.NewSnapshotStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	_, err = store.Save(ctx, "../escape", []byte(`{}`), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = store.Save(ctx, "k", []byte(`not json`), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
