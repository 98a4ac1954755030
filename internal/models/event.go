package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// EventRow is the application_events table row. Application states are JSONB.
type EventRow struct {
	EventID       string
	ApplicationID string
	Kind          string
	ActorID       string
	OccurredAt    time.Time
	BeforeState   []byte // NULL for submission events
	AfterState    []byte
}

// FromDomainEvent encodes the before/after application states for storage.
func FromDomainEvent(e domain.ApplicationEvent) (EventRow, error) {
	row := EventRow{
		EventID:       e.EventID,
		ApplicationID: e.ApplicationID,
		Kind:          string(e.Kind),
		ActorID:       e.ActorID,
		OccurredAt:    e.OccurredAt,
	}
	if e.Before != nil {
		b, err := json.Marshal(e.Before)
		if err != nil {
			return EventRow{}, fmt.Errorf("failed to encode before state of event %s: %w", e.EventID, err)
		}
		row.BeforeState = b
	}
	a, err := json.Marshal(e.After)
	if err != nil {
		return EventRow{}, fmt.Errorf("failed to encode after state of event %s: %w", e.EventID, err)
	}
	row.AfterState = a
	return row, nil
}

// ToDomain decodes a stored row.
func (r EventRow) ToDomain() (domain.ApplicationEvent, error) {
	e := domain.ApplicationEvent{
		EventID:       r.EventID,
		ApplicationID: r.ApplicationID,
		Kind:          domain.EventKind(r.Kind),
		ActorID:       r.ActorID,
		OccurredAt:    r.OccurredAt,
	}
	if len(r.BeforeState) > 0 {
		e.Before = &domain.Application{}
		if err := json.Unmarshal(r.BeforeState, e.Before); err != nil {
			return domain.ApplicationEvent{}, fmt.Errorf("failed to decode before state of event %s: %w", r.EventID, err)
		}
	}
	if len(r.AfterState) > 0 {
		e.After = &domain.Application{}
		if err := json.Unmarshal(r.AfterState, e.After); err != nil {
			return domain.ApplicationEvent{}, fmt.Errorf("failed to decode after state of event %s: %w", r.EventID, err)
		}
	}
	return e, nil
}
