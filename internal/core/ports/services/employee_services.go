package services

import (
	"context"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// EmployeeReaderSvc defines read operations for staff records
type EmployeeReaderSvc interface {
	// GetEmployee returns apperrors.ErrNotFound for an unknown employee ID.
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// EmployeeWriterSvc defines write operations for staff records
type EmployeeWriterSvc interface {
	RegisterEmployee(ctx context.Context, req domain.NewEmployee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employeeID string, update domain.EmployeeUpdate) (*domain.Employee, error)
	ResetPassword(ctx context.Context, employeeID, newPassword string) error
	DeactivateEmployee(ctx context.Context, employeeID string) error
	ReactivateEmployee(ctx context.Context, employeeID string) error
	RecordLogin(ctx context.Context, employeeID string, at time.Time) error
}

// EmployeeSvcFacade combines all employee directory interfaces
type EmployeeSvcFacade interface {
	EmployeeReaderSvc
	EmployeeWriterSvc

	// Load replaces in-memory state with the persisted snapshot.
	Load(ctx context.Context) error

	// SeedDefaults creates the demo admin, manager and clerk when the directory is empty.
	SeedDefaults(ctx context.Context, password string) error
}
