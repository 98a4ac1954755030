package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemStats is recomputed from the full application set on every request.
type SystemStats struct {
	TotalApplications    int             `json:"totalApplications"`
	PendingApplications  int             `json:"pendingApplications"`
	KYCInProgress        int             `json:"kycInProgress"`
	KYCCompleted         int             `json:"kycCompleted"`
	ApprovedApplications int             `json:"approvedApplications"`
	RejectedApplications int             `json:"rejectedApplications"`
	TotalApprovedBalance decimal.Decimal `json:"totalApprovedBalance"`
	ActiveCustomers      int             `json:"activeCustomers"`
}

// AuditLogEntry is a display row rendered from an ApplicationEvent.
type AuditLogEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Action        EventKind `json:"action"`
	ApplicationID string    `json:"applicationId"`
	ActorID       string    `json:"actorId"`
	Message       string    `json:"message"`
}
