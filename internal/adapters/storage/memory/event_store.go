package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
)

// EventStore is an append-only in-memory application history.
type EventStore struct {
	mu     sync.RWMutex
	events []domain.ApplicationEvent
}

// NewEventStore creates an empty in-memory event log.
func NewEventStore() *EventStore {
	return &EventStore{}
}

var _ portsrepo.EventRepositoryFacade = (*EventStore)(nil)

func (s *EventStore) Append(ctx context.Context, event domain.ApplicationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *EventStore) ListByApplication(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ApplicationEvent, 0)
	for _, e := range s.events {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (s *EventStore) ListRecent(ctx context.Context, limit int) ([]domain.ApplicationEvent, error) {
	s.mu.RLock()
	out := make([]domain.ApplicationEvent, len(s.events))
	copy(out, s.events)
	s.mu.RUnlock()

	// reverse append order first so equal timestamps stay newest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
