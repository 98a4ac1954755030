package services

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplicationReaderSvc defines read operations on the application registry.
// Lookups never fail: a miss is nil or an empty slice.
type ApplicationReaderSvc interface {
	GetApplication(ctx context.Context, applicationID string) *domain.Application
	GetApplicationByEmail(ctx context.Context, email string) *domain.Application
	ListApplications(ctx context.Context, filter domain.ApplicationFilter) []domain.Application
	ListAll(ctx context.Context) []domain.Application
}

// ApplicationWriterSvc defines the state-machine transitions. Each transition
// returns false, without mutating anything, when its precondition does not hold.
type ApplicationWriterSvc interface {
	// CreateApplication registers a draft and its identity entry, returning the new ID.
	CreateApplication(ctx context.Context, draft domain.ApplicationDraft) (string, error)

	StartVideoKYC(ctx context.Context, applicationID, clerkID string) bool
	CompleteKYC(ctx context.Context, applicationID, notes string) bool
	ApproveApplication(ctx context.Context, applicationID, managerID, notes string) bool
	RejectApplication(ctx context.Context, applicationID, managerID, reason string) bool
	UpdateBalance(ctx context.Context, applicationID string, newBalance decimal.Decimal) bool
}

// CustomerLookupSvc resolves identity entries held alongside the applications.
type CustomerLookupSvc interface {
	FindCustomer(ctx context.Context, email string) *domain.Customer
}

// ApplicationSvcFacade combines all application registry interfaces
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
	CustomerLookupSvc

	// Load replaces in-memory state with the persisted snapshot.
	Load(ctx context.Context) error
}
