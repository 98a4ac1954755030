package services

import (
	"context"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// OTPSvcFacade issues and redeems one-time staff login codes.
type OTPSvcFacade interface {
	// GenerateOTP creates a fresh challenge for an active employee and returns the code.
	GenerateOTP(ctx context.Context, employeeID string) (string, time.Time, error)

	// Redeem validates and consumes the challenge. LoginFailureNone means success.
	Redeem(ctx context.Context, employeeID, code string) (domain.LoginFailure, string)
}

// StaffAuthSvcFacade composes the employee directory and OTP issuer into the
// awaiting-credentials -> awaiting-otp -> authenticated login flow.
type StaffAuthSvcFacade interface {
	// RequestOTP checks credentials and, if they pass, issues a challenge.
	RequestOTP(ctx context.Context, employeeID, password string, role domain.EmployeeRole) (domain.LoginResult, *domain.OTPIssue)

	// VerifyLogin runs every check in order and consumes the challenge on success.
	VerifyLogin(ctx context.Context, employeeID, password string, role domain.EmployeeRole, otpCode string) domain.LoginResult
}

// TokenSvcFacade defines the interface for session token management.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, subject, role string) (string, time.Time, error)
}
