package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/utils"
)

type customerDirectory interface {
	portssvc.ApplicationReaderSvc
	portssvc.CustomerLookupSvc
}

// IdentityService is the customer login lookup over the registry's identity entries.
type IdentityService struct {
	BaseService
	directory     customerDirectory
	checkPassword bool
}

// NewIdentityService creates the directory. With checkPassword false, Login is a plain
// email lookup and the supplied password is ignored.
func NewIdentityService(directory customerDirectory, checkPassword bool) *IdentityService {
	return &IdentityService{
		BaseService:   newBaseService(),
		directory:     directory,
		checkPassword: checkPassword,
	}
}

var _ portssvc.IdentitySvcFacade = (*IdentityService)(nil)

func (s *IdentityService) Login(ctx context.Context, email, password string) *domain.Customer {
	customer := s.directory.FindCustomer(ctx, email)
	if customer == nil {
		s.LogInfo(ctx, "Customer login for unknown email")
		return nil
	}
	if s.checkPassword && (customer.PasswordHash == "" || !utils.CheckPasswordHash(password, customer.PasswordHash)) {
		s.LogInfo(ctx, "Customer login refused", slog.String("application_id", customer.ApplicationID))
		return nil
	}
	return customer
}

func (s *IdentityService) GetApplicationByOwner(ctx context.Context, email string) *domain.Application {
	customer := s.directory.FindCustomer(ctx, email)
	if customer == nil {
		return nil
	}
	return s.directory.GetApplication(ctx, customer.ApplicationID)
}
