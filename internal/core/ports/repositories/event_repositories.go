package repositories

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// EventWriter appends to the application history. There is no update or delete.
type EventWriter interface {
	Append(ctx context.Context, event domain.ApplicationEvent) error
}

// EventReader defines read operations for the application history
type EventReader interface {
	// ListByApplication returns events for one application, oldest first.
	ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error)

	// ListRecent returns up to limit events across all applications, newest first.
	// A non-positive limit returns everything.
	ListRecent(ctx context.Context, limit int) ([]domain.ApplicationEvent, error)
}

// EventRepositoryFacade combines all event log operations
type EventRepositoryFacade interface {
	EventWriter
	EventReader
}
