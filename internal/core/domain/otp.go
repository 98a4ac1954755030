package domain

import (
	"crypto/subtle"
	"time"
)

// OTPChallenge is an ephemeral second-factor code for one employee's login attempt.
type OTPChallenge struct {
	EmployeeID string    `json:"employeeId"`
	Code       string    `json:"code"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Consumed   bool      `json:"consumed"`
}

// IsExpired checks the validity window against now.
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Matches compares the supplied code in constant time.
func (c *OTPChallenge) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}

// LoginFailure classifies why a staff login attempt was refused.
type LoginFailure string

const (
	LoginFailureNone            LoginFailure = ""
	LoginFailureUnknownEmployee LoginFailure = "unknown_employee"
	LoginFailureInactive        LoginFailure = "inactive"
	LoginFailureBadPassword     LoginFailure = "bad_password"
	LoginFailureRoleMismatch    LoginFailure = "role_mismatch"
	LoginFailureOTPMissing      LoginFailure = "otp_missing"
	LoginFailureOTPExpired      LoginFailure = "otp_expired"
	LoginFailureOTPMismatch     LoginFailure = "otp_mismatch"
	LoginFailureInternal        LoginFailure = "internal"
)

// LoginResult is the outcome of the two-factor staff login.
type LoginResult struct {
	Success  bool
	Message  string
	Failure  LoginFailure
	Employee *Employee
	Redirect string
}

// OTPIssue is what the credentials phase hands back: the code and its deadline.
type OTPIssue struct {
	Code      string
	ExpiresAt time.Time
}
