package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
)

// OTPService issues single-use staff login codes.
type OTPService struct {
	BaseService
	employees portssvc.EmployeeReaderSvc
	store     portsrepo.OTPRepository
	metrics   *metrics.Metrics
	code      func() (string, error)
	ttl       time.Duration
}

// NewOTPService creates an issuer. The validity window defaults to five minutes.
func NewOTPService(employees portssvc.EmployeeReaderSvc, store portsrepo.OTPRepository, m *metrics.Metrics, opts ...Option) *OTPService {
	o := resolveOptions(opts)
	return &OTPService{
		BaseService: o.base(),
		employees:   employees,
		store:       store,
		metrics:     m,
		code:        o.otpCode,
		ttl:         o.otpTTL,
	}
}

var _ portssvc.OTPSvcFacade = (*OTPService)(nil)

// GenerateOTP replaces any earlier challenge for the employee with a fresh one.
func (s *OTPService) GenerateOTP(ctx context.Context, employeeID string) (string, time.Time, error) {
	emp, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !emp.IsActive {
		return "", time.Time{}, fmt.Errorf("employee %s is deactivated: %w", employeeID, apperrors.ErrForbidden)
	}

	code, err := s.code()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate otp: %w", err)
	}
	now := s.Now()
	challenge := domain.OTPChallenge{
		EmployeeID: employeeID,
		Code:       code,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, challenge); err != nil {
		s.LogError(ctx, err, "Failed to store otp challenge", slog.String("employee_id", employeeID))
		return "", time.Time{}, fmt.Errorf("failed to store otp challenge: %w", err)
	}
	s.metrics.OTPIssued.Inc()
	s.LogDebug(ctx, "OTP issued", slog.String("employee_id", employeeID), slog.Time("expires_at", challenge.ExpiresAt))
	return code, challenge.ExpiresAt, nil
}

// Redeem checks the challenge in order (exists, live, matches) and consumes it.
// Nothing is consumed unless every check passes.
func (s *OTPService) Redeem(ctx context.Context, employeeID, code string) (domain.LoginFailure, string) {
	now := s.Now()
	challenge, err := s.store.Find(ctx, employeeID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.LoginFailureOTPMissing, "No OTP has been requested for this employee"
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read otp challenge", slog.String("employee_id", employeeID))
		return domain.LoginFailureInternal, "Unable to verify OTP"
	}
	if challenge.Consumed || challenge.IsExpired(now) {
		return domain.LoginFailureOTPExpired, "OTP has expired or was already used"
	}
	if !challenge.Matches(code) {
		return domain.LoginFailureOTPMismatch, "Invalid OTP"
	}

	// Consume re-checks atomically; a concurrent redeem may have won.
	if err := s.store.Consume(ctx, employeeID, code, now); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrExpired):
			return domain.LoginFailureOTPExpired, "OTP has expired or was already used"
		case errors.Is(err, apperrors.ErrNotFound):
			return domain.LoginFailureOTPMismatch, "Invalid OTP"
		default:
			s.LogError(ctx, err, "Failed to consume otp challenge", slog.String("employee_id", employeeID))
			return domain.LoginFailureInternal, "Unable to verify OTP"
		}
	}
	return domain.LoginFailureNone, ""
}
