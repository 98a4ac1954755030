package dto

import "time"

// CustomerLoginRequest defines the customer login payload.
type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// CustomerLoginResponse returns the session token and the owned application.
type CustomerLoginResponse struct {
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expiresAt"`
	Application ApplicationResponse `json:"application"`
}

// StaffCredentialsRequest is the first login phase.
type StaffCredentialsRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=clerk manager admin"`
}

// StaffOTPResponse returns the issued code. There is no delivery channel, so
// the caller displays it.
type StaffOTPResponse struct {
	Message   string    `json:"message"`
	OTP       string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StaffVerifyRequest is the second login phase.
type StaffVerifyRequest struct {
	StaffCredentialsRequest
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// StaffLoginResponse is returned after a successful two-factor login.
type StaffLoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Role      string           `json:"role"`
	Redirect  string           `json:"redirect"`
	Employee  EmployeeResponse `json:"employee"`
}

// LoginFailureResponse carries the staff login failure reason.
type LoginFailureResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}
