package domain

import (
	"strings"
	"time"
)

// RoleCustomer tags identity entries created at registration.
const RoleCustomer = "customer"

// Customer is the identity entry that links a login email to the application it owns.
// The application reference is lookup-only; the registry owns the lifecycle.
type Customer struct {
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	ApplicationID string    `json:"applicationId"`
	PasswordHash  string    `json:"passwordHash,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NormalizeEmail is the canonical key form for customer and employee emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
