package services

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// IdentitySvcFacade is the customer-side identity directory.
type IdentitySvcFacade interface {
	// Login returns the identity entry for email, or nil when unknown.
	Login(ctx context.Context, email, password string) *domain.Customer

	// GetApplicationByOwner resolves email to the application it owns.
	GetApplicationByOwner(ctx context.Context, email string) *domain.Application
}
