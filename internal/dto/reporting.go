package dto

import "github.com/SscSPs/vaultix_backend/internal/core/domain"

// AuditLogParams defines query parameters for the audit log.
type AuditLogParams struct {
	Limit int `form:"limit,default=50" binding:"min=0,max=1000"`
}

// AuditLogResponse wraps the rendered audit entries.
type AuditLogResponse struct {
	Entries []domain.AuditLogEntry `json:"entries"`
}

// ApplicationHistoryResponse wraps one application's events, oldest first.
type ApplicationHistoryResponse struct {
	ApplicationID string                    `json:"applicationId"`
	Events        []domain.ApplicationEvent `json:"events"`
}
