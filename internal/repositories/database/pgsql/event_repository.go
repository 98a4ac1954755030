package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	"github.com/SscSPs/vaultix_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxEventRepository is the append-only application_events table.
type PgxEventRepository struct {
	BaseRepository
}

func newPgxEventRepository(pool *pgxpool.Pool) *PgxEventRepository {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

const eventColumns = `event_id, application_id, kind, actor_id, occurred_at, before_state, after_state`

func (r *PgxEventRepository) Append(ctx context.Context, event domain.ApplicationEvent) error {
	return insertEvent(ctx, r.Pool, event)
}

func insertEvent(ctx context.Context, q querier, event domain.ApplicationEvent) error {
	row, err := models.FromDomainEvent(event)
	if err != nil {
		return err
	}
	query := `INSERT INTO application_events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err = q.Exec(ctx, query,
		row.EventID,
		row.ApplicationID,
		row.Kind,
		row.ActorID,
		row.OccurredAt,
		row.BeforeState,
		row.AfterState,
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}
	return nil
}

func (r *PgxEventRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM application_events WHERE application_id = $1 ORDER BY occurred_at ASC, seq ASC;`
	rows, err := r.Pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for application %s: %w", applicationID, err)
	}
	return collectEvents(rows)
}

func (r *PgxEventRepository) ListRecent(ctx context.Context, limit int) ([]domain.ApplicationEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM application_events ORDER BY occurred_at DESC, seq DESC`
	var rows pgx.Rows
	var err error
	if limit > 0 {
		rows, err = r.Pool.Query(ctx, query+` LIMIT $1;`, limit)
	} else {
		rows, err = r.Pool.Query(ctx, query+`;`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.ApplicationEvent, error) {
	defer rows.Close()
	events := make([]domain.ApplicationEvent, 0)
	for rows.Next() {
		var row models.EventRow
		if err := rows.Scan(
			&row.EventID,
			&row.ApplicationID,
			&row.Kind,
			&row.ActorID,
			&row.OccurredAt,
			&row.BeforeState,
			&row.AfterState,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		event, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}
