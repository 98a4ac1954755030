package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock ApplicationService ---
type MockApplicationService struct {
	mock.Mock
}

var _ portssvc.ApplicationSvcFacade = (*MockApplicationService)(nil)

func (m *MockApplicationService) GetApplication(ctx context.Context, applicationID string) *domain.Application {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Application)
}
func (m *MockApplicationService) GetApplicationByEmail(ctx context.Context, email string) *domain.Application {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Application)
}
func (m *MockApplicationService) ListApplications(ctx context.Context, filter domain.ApplicationFilter) []domain.Application {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Application)
}
func (m *MockApplicationService) ListAll(ctx context.Context) []domain.Application {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Application)
}
func (m *MockApplicationService) CreateApplication(ctx context.Context, draft domain.ApplicationDraft) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}
func (m *MockApplicationService) StartVideoKYC(ctx context.Context, applicationID, clerkID string) bool {
	return m.Called(ctx, applicationID, clerkID).Bool(0)
}
func (m *MockApplicationService) CompleteKYC(ctx context.Context, applicationID, notes string) bool {
	return m.Called(ctx, applicationID, notes).Bool(0)
}
func (m *MockApplicationService) ApproveApplication(ctx context.Context, applicationID, managerID, notes string) bool {
	return m.Called(ctx, applicationID, managerID, notes).Bool(0)
}
func (m *MockApplicationService) RejectApplication(ctx context.Context, applicationID, managerID, reason string) bool {
	return m.Called(ctx, applicationID, managerID, reason).Bool(0)
}
func (m *MockApplicationService) UpdateBalance(ctx context.Context, applicationID string, newBalance decimal.Decimal) bool {
	return m.Called(ctx, applicationID, newBalance).Bool(0)
}
func (m *MockApplicationService) FindCustomer(ctx context.Context, email string) *domain.Customer {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Customer)
}
func (m *MockApplicationService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock IdentityService ---
type MockIdentityService struct {
	mock.Mock
}

var _ portssvc.IdentitySvcFacade = (*MockIdentityService)(nil)

func (m *MockIdentityService) Login(ctx context.Context, email, password string) *domain.Customer {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Customer)
}
func (m *MockIdentityService) GetApplicationByOwner(ctx context.Context, email string) *domain.Application {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Application)
}

// --- Mock EmployeeService ---
type MockEmployeeService struct {
	mock.Mock
}

var _ portssvc.EmployeeSvcFacade = (*MockEmployeeService)(nil)

func (m *MockEmployeeService) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) RegisterEmployee(ctx context.Context, req domain.NewEmployee) (*domain.Employee, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) UpdateEmployee(ctx context.Context, employeeID string, update domain.EmployeeUpdate) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeService) ResetPassword(ctx context.Context, employeeID, newPassword string) error {
	return m.Called(ctx, employeeID, newPassword).Error(0)
}
func (m *MockEmployeeService) DeactivateEmployee(ctx context.Context, employeeID string) error {
	return m.Called(ctx, employeeID).Error(0)
}
func (m *MockEmployeeService) ReactivateEmployee(ctx context.Context, employeeID string) error {
	return m.Called(ctx, employeeID).Error(0)
}
func (m *MockEmployeeService) RecordLogin(ctx context.Context, employeeID string, at time.Time) error {
	return m.Called(ctx, employeeID, at).Error(0)
}
func (m *MockEmployeeService) Load(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockEmployeeService) SeedDefaults(ctx context.Context, password string) error {
	return m.Called(ctx, password).Error(0)
}

// --- Mock StaffAuthService ---
type MockStaffAuthService struct {
	mock.Mock
}

var _ portssvc.StaffAuthSvcFacade = (*MockStaffAuthService)(nil)

func (m *MockStaffAuthService) RequestOTP(ctx context.Context, employeeID, password string, role domain.EmployeeRole) (domain.LoginResult, *domain.OTPIssue) {
	args := m.Called(ctx, employeeID, password, role)
	if args.Get(1) == nil {
		return args.Get(0).(domain.LoginResult), nil
	}
	return args.Get(0).(domain.LoginResult), args.Get(1).(*domain.OTPIssue)
}
func (m *MockStaffAuthService) VerifyLogin(ctx context.Context, employeeID, password string, role domain.EmployeeRole, otpCode string) domain.LoginResult {
	return m.Called(ctx, employeeID, password, role, otpCode).Get(0).(domain.LoginResult)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, subject, role string) (string, time.Time, error) {
	args := m.Called(ctx, subject, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) SystemStats(ctx context.Context) domain.SystemStats {
	return m.Called(ctx).Get(0).(domain.SystemStats)
}
func (m *MockReportingService) AuditLog(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}
func (m *MockReportingService) ApplicationHistory(ctx context.Context, applicationID string) ([]domain.ApplicationEvent, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApplicationEvent), args.Error(1)
}

// --- Mock OperationsService ---
type MockOperationsService struct {
	mock.Mock
}

var _ portssvc.OperationsSvcFacade = (*MockOperationsService)(nil)

func (m *MockOperationsService) Deposit(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error) {
	args := m.Called(ctx, email, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockOperationsService) Withdraw(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error) {
	args := m.Called(ctx, email, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockOperationsService) Transfer(ctx context.Context, email, toAccountNumber string, amount decimal.Decimal) (*domain.Application, error) {
	args := m.Called(ctx, email, toAccountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
