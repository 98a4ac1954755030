package domain

import "time"

// EventKind names a recorded application transition.
type EventKind string

const (
	EventApplicationSubmitted EventKind = "application_submitted"
	EventKYCStarted           EventKind = "kyc_started"
	EventKYCCompleted         EventKind = "kyc_completed"
	EventApplicationApproved  EventKind = "application_approved"
	EventApplicationRejected  EventKind = "application_rejected"
	EventBalanceUpdated       EventKind = "balance_updated"
)

// ApplicationEvent is an immutable entry in the append-only application history.
// Before is nil for submission events.
type ApplicationEvent struct {
	EventID       string       `json:"eventId"`
	ApplicationID string       `json:"applicationId"`
	Kind          EventKind    `json:"kind"`
	ActorID       string       `json:"actorId"`
	OccurredAt    time.Time    `json:"occurredAt"`
	Before        *Application `json:"before,omitempty"`
	After         *Application `json:"after"`
}
