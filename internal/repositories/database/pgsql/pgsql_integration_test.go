//go:build integration

package pgsql_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/adapters/storage/memory"
	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vaultix_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/vaultix_backend/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newRepositories(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vaultix"),
		tcpostgres.WithUsername("vaultix"),
		tcpostgres.WithPassword("vaultix"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(url, "file://../../../../migrations", slog.Default()))

	pool, err := database.NewPgxPool(ctx, url, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pgsql.NewRepositoryProvider(pool, memory.NewOTPStore())
}

func TestSnapshotRepository_OptimisticVersioning(t *testing.T) {
	ctx := context.Background()
	repo := newRepositories(t).SnapshotRepo

	_, err := repo.Load(ctx, portsrepo.KeyEmployees)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	v, err := repo.Save(ctx, portsrepo.KeyEmployees, []byte(`[]`), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = repo.Save(ctx, portsrepo.KeyEmployees, []byte(`[]`), 0)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	v, err = repo.Save(ctx, portsrepo.KeyEmployees, []byte(`[["CLK001",{"role":"clerk"}]]`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = repo.Save(ctx, portsrepo.KeyEmployees, []byte(`[]`), 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	snap, err := repo.Load(ctx, portsrepo.KeyEmployees)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Version)
	assert.JSONEq(t, `[["CLK001",{"role":"clerk"}]]`, string(snap.Data))
}

func TestEventRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := newRepositories(t).EventRepo
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	submitted := &domain.Application{ID: "app-1", Status: domain.StatusDocumentsSubmitted, KYCStatus: domain.KYCPending}
	started := submitted.Clone()
	started.Status = domain.StatusKYCInProgress
	started.KYCStatus = domain.KYCInProgress
	started.ClerkID = "CLK001"

	require.NoError(t, repo.Append(ctx, domain.ApplicationEvent{
		EventID: "ev-1", ApplicationID: "app-1", Kind: domain.EventApplicationSubmitted,
		ActorID: "a@example.com", OccurredAt: base, After: submitted,
	}))
	require.NoError(t, repo.Append(ctx, domain.ApplicationEvent{
		EventID: "ev-2", ApplicationID: "app-1", Kind: domain.EventKYCStarted,
		ActorID: "CLK001", OccurredAt: base.Add(time.Minute), Before: submitted, After: started,
	}))
	require.NoError(t, repo.Append(ctx, domain.ApplicationEvent{
		EventID: "ev-3", ApplicationID: "app-2", Kind: domain.EventApplicationSubmitted,
		ActorID: "b@example.com", OccurredAt: base.Add(2 * time.Minute), After: &domain.Application{ID: "app-2"},
	}))

	history, err := repo.ListByApplication(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].Before)
	assert.Equal(t, "CLK001", history[1].After.ClerkID)
	assert.Equal(t, domain.StatusDocumentsSubmitted, history[1].Before.Status)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "ev-3", recent[0].EventID)
	assert.Equal(t, "ev-2", recent[1].EventID)
}

func TestSnapshotRepository_SaveWithEventsCommitsTogether(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	store, ok := repos.SnapshotRepo.(portsrepo.SnapshotEventWriter)
	require.True(t, ok)

	event := domain.ApplicationEvent{
		EventID: "ev-1", ApplicationID: "app-1", Kind: domain.EventApplicationSubmitted,
		ActorID: "a@example.com", OccurredAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		After: &domain.Application{ID: "app-1", Status: domain.StatusDocumentsSubmitted},
	}
	v, err := store.SaveWithEvents(ctx, portsrepo.KeyApplicationsAndUsers, []byte(`{}`), 0, []domain.ApplicationEvent{event})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	stale := event
	stale.EventID = "ev-2"
	_, err = store.SaveWithEvents(ctx, portsrepo.KeyApplicationsAndUsers, []byte(`{"x":1}`), 0, []domain.ApplicationEvent{stale})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	history, err := repos.EventRepo.ListByApplication(ctx, "app-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ev-1", history[0].EventID)

	snap, err := repos.SnapshotRepo.Load(ctx, portsrepo.KeyApplicationsAndUsers)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(snap.Data))
}

func TestSnapshotRepository_SaveWithEventsRollsBackOnEventFailure(t *testing.T) {
	ctx := context.Background()
	repos := newRepositories(t)
	store := repos.SnapshotRepo.(portsrepo.SnapshotEventWriter)

	event := domain.ApplicationEvent{
		EventID: "ev-dup", ApplicationID: "app-1", Kind: domain.EventApplicationSubmitted,
		ActorID: "a@example.com", OccurredAt: time.Now().UTC(), After: &domain.Application{ID: "app-1"},
	}
	require.NoError(t, repos.EventRepo.Append(ctx, event))

	_, err := store.SaveWithEvents(ctx, portsrepo.KeyApplicationsAndUsers, []byte(`{}`), 0, []domain.ApplicationEvent{event})
	require.Error(t, err)

	_, err = repos.SnapshotRepo.Load(ctx, portsrepo.KeyApplicationsAndUsers)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
