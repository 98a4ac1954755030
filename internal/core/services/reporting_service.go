package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ReportingService derives stats and the audit log on demand. It never writes.
type ReportingService struct {
	BaseService
	applications portssvc.ApplicationReaderSvc
	events       portsrepo.EventReader
}

func NewReportingService(applications portssvc.ApplicationReaderSvc, events portsrepo.EventReader) *ReportingService {
	return &ReportingService{
		BaseService:  newBaseService(),
		applications: applications,
		events:       events,
	}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// SystemStats counts applications per stage in one pass.
func (s *ReportingService) SystemStats(ctx context.Context) domain.SystemStats {
	stats := domain.SystemStats{TotalApprovedBalance: decimal.Zero}
	for _, app := range s.applications.ListAll(ctx) {
		stats.TotalApplications++
		switch app.Status {
		case domain.StatusDocumentsSubmitted:
			stats.PendingApplications++
		case domain.StatusKYCInProgress:
			stats.KYCInProgress++
		case domain.StatusKYCCompleted:
			stats.KYCCompleted++
		case domain.StatusApproved:
			stats.ApprovedApplications++
			stats.TotalApprovedBalance = stats.TotalApprovedBalance.Add(app.Balance)
		case domain.StatusRejected:
			stats.RejectedApplications++
		}
		if app.CanPerformOperations {
			stats.ActiveCustomers++
		}
	}
	return stats
}

// AuditLog renders the most recent events, newest first.
func (s *ReportingService) AuditLog(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	events, err := s.events.ListRecent(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list application events")
		return nil, fmt.Errorf("failed to list application events: %w", err)
	}
	entries := make([]domain.AuditLogEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, domain.AuditLogEntry{
			ID:            e.EventID,
			Timestamp:     e.OccurredAt,
			Action:        e.Kind,
			ApplicationID: e.ApplicationID,
			ActorID:       e.ActorID,
			Message:       auditMessage(e),
		})
	}
	return entries, nil
}

// ApplicationHistory returns one application's events, oldest first.
func (s *ReportingService) ApplicationHistory(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error) {
	if s.applications.GetApplication(ctx, applicationID) == nil {
		return nil, fmt.Errorf("application %s: %w", applicationID, apperrors.ErrNotFound)
	}
	events, err := s.events.ListByApplication(ctx, applicationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list application history")
		return nil, fmt.Errorf("failed to list application history: %w", err)
	}
	return events, nil
}

func auditMessage(e domain.ApplicationEvent) string {
	after := e.After
	if after == nil {
		return string(e.Kind)
	}
	name := after.PersonalInfo.FullName()
	switch e.Kind {
	case domain.EventApplicationSubmitted:
		return fmt.Sprintf("New %s account application submitted by %s", after.AccountInfo.AccountType, name)
	case domain.EventKYCStarted:
		return fmt.Sprintf("Video KYC started by clerk %s for %s", e.ActorID, name)
	case domain.EventKYCCompleted:
		return fmt.Sprintf("Video KYC completed for %s", name)
	case domain.EventApplicationApproved:
		return fmt.Sprintf("Application for %s approved by manager %s, account %s opened", name, e.ActorID, after.AccountNumber)
	case domain.EventApplicationRejected:
		return fmt.Sprintf("Application for %s rejected by manager %s: %s", name, e.ActorID, after.ManagerNotes)
	case domain.EventBalanceUpdated:
		return fmt.Sprintf("Balance of account %s set to %s", after.AccountNumber, after.Balance.StringFixed(2))
	}
	return string(e.Kind)
}
