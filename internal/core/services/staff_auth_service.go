package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/SscSPs/vaultix_backend/internal/utils"
)

// StaffAuthService runs the two-factor staff login on top of the directory and OTP issuer.
type StaffAuthService struct {
	BaseService
	employees portssvc.EmployeeSvcFacade
	otp       portssvc.OTPSvcFacade
	metrics   *metrics.Metrics
}

func NewStaffAuthService(employees portssvc.EmployeeSvcFacade, otp portssvc.OTPSvcFacade, m *metrics.Metrics, opts ...Option) *StaffAuthService {
	return &StaffAuthService{
		BaseService: resolveOptions(opts).base(),
		employees:   employees,
		otp:         otp,
		metrics:     m,
	}
}

var _ portssvc.StaffAuthSvcFacade = (*StaffAuthService)(nil)

func failure(reason domain.LoginFailure, msg string) domain.LoginResult {
	return domain.LoginResult{Success: false, Failure: reason, Message: msg}
}

// checkCredentials runs the employee, active, password and role checks in that order.
func (s *StaffAuthService) checkCredentials(ctx context.Context, employeeID, password string, role domain.EmployeeRole) (*domain.Employee, domain.LoginResult) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, failure(domain.LoginFailureUnknownEmployee, "Employee not found")
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to look up employee", slog.String("employee_id", employeeID))
		return nil, failure(domain.LoginFailureInternal, "Unable to verify credentials")
	}
	if !emp.IsActive {
		return nil, failure(domain.LoginFailureInactive, "Employee account is deactivated")
	}
	if !utils.CheckPasswordHash(password, emp.PasswordHash) {
		return nil, failure(domain.LoginFailureBadPassword, "Invalid password")
	}
	if emp.Role != role {
		return nil, failure(domain.LoginFailureRoleMismatch, fmt.Sprintf("Employee is not registered as %s", role))
	}
	return emp, domain.LoginResult{Success: true, Employee: emp}
}

// RequestOTP is the credentials phase. On success the challenge is returned to the caller.
func (s *StaffAuthService) RequestOTP(ctx context.Context, employeeID, password string, role domain.EmployeeRole) (domain.LoginResult, *domain.OTPIssue) {
	emp, result := s.checkCredentials(ctx, employeeID, password, role)
	if !result.Success {
		s.LogInfo(ctx, "OTP request refused",
			slog.String("employee_id", employeeID),
			slog.String("reason", string(result.Failure)))
		return result, nil
	}

	code, expiresAt, err := s.otp.GenerateOTP(ctx, emp.EmployeeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue otp", slog.String("employee_id", employeeID))
		return failure(domain.LoginFailureInternal, "Unable to issue OTP"), nil
	}
	result.Message = "OTP generated"
	return result, &domain.OTPIssue{Code: code, ExpiresAt: expiresAt}
}

// VerifyLogin is the OTP phase. The challenge is consumed and lastLogin stamped only on success.
func (s *StaffAuthService) VerifyLogin(ctx context.Context, employeeID, password string, role domain.EmployeeRole, otpCode string) domain.LoginResult {
	emp, result := s.checkCredentials(ctx, employeeID, password, role)
	if !result.Success {
		s.metrics.StaffLogins.WithLabelValues(string(result.Failure)).Inc()
		return result
	}

	if reason, msg := s.otp.Redeem(ctx, emp.EmployeeID, otpCode); reason != domain.LoginFailureNone {
		s.metrics.StaffLogins.WithLabelValues(string(reason)).Inc()
		s.LogInfo(ctx, "Staff login refused",
			slog.String("employee_id", employeeID),
			slog.String("reason", string(reason)))
		return failure(reason, msg)
	}

	now := s.Now()
	if err := s.employees.RecordLogin(ctx, emp.EmployeeID, now); err != nil {
		s.LogError(ctx, err, "Failed to record last login", slog.String("employee_id", employeeID))
	} else {
		emp.LastLogin = &now
	}

	s.metrics.StaffLogins.WithLabelValues("success").Inc()
	s.LogInfo(ctx, "Staff login succeeded",
		slog.String("employee_id", employeeID),
		slog.String("role", string(emp.Role)))
	return domain.LoginResult{
		Success:  true,
		Message:  "Login successful",
		Employee: emp,
		Redirect: emp.Role.LandingRoute(),
	}
}
