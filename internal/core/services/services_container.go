package services

import (
	"time"

	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/SscSPs/vaultix_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The registries start empty; call Load on the application and employee registries before serving.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics, opts ...Option) *portssvc.ServiceContainer {
	opts = append([]Option{WithOTPTTL(cfg.OTPTTL)}, opts...)

	container := &portssvc.ServiceContainer{}

	applications := NewApplicationService(repos.SnapshotRepo, repos.EventRepo, m, opts...)
	container.Application = applications
	container.Identity = NewIdentityService(applications, cfg.CustomerPasswordCheck)

	employees := NewEmployeeService(repos.SnapshotRepo, opts...)
	container.Employee = employees
	container.OTP = NewOTPService(employees, repos.OTPRepo, m, opts...)
	container.StaffAuth = NewStaffAuthService(employees, container.OTP, m, opts...)

	expiry := cfg.JWTExpiryDuration
	if expiry <= 0 {
		expiry = time.Hour
	}
	container.Token = NewTokenService(cfg.JWTSecret, expiry, cfg.JWTIssuer, opts...)

	container.Reporting = NewReportingService(applications, repos.EventRepo)
	container.Operations = NewOperationsService(applications)

	return container
}
