package services

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// ReportingSvcFacade exposes the derived, read-only views.
type ReportingSvcFacade interface {
	SystemStats(ctx context.Context) domain.SystemStats
	AuditLog(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
	ApplicationHistory(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error)
}
