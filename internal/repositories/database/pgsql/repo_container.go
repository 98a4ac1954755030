package pgsql

import (
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres snapshot and event stores. OTP challenges
// never touch the database, so the caller supplies that store.
func NewRepositoryProvider(dbPool *pgxpool.Pool, otpRepo portsrepo.OTPRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SnapshotRepo: newPgxSnapshotRepository(dbPool),
		EventRepo:    newPgxEventRepository(dbPool),
		OTPRepo:      otpRepo,
	}
}
