package domain

import "time"

// EmployeeRole is one of the three staff roles.
type EmployeeRole string

const (
	RoleClerk   EmployeeRole = "clerk"
	RoleManager EmployeeRole = "manager"
	RoleAdmin   EmployeeRole = "admin"
)

// IsValid reports whether r is a known staff role.
func (r EmployeeRole) IsValid() bool {
	switch r {
	case RoleClerk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// LandingRoute is where a freshly authenticated employee is redirected.
func (r EmployeeRole) LandingRoute() string {
	switch r {
	case RoleClerk:
		return "/clerk-dashboard"
	case RoleManager:
		return "/manager-dashboard"
	case RoleAdmin:
		return "/admin-dashboard"
	}
	return "/"
}

// Employee is a staff record. EmployeeID is the business key (e.g. "CLK001").
type Employee struct {
	EmployeeID   string       `json:"employeeId"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Department   string       `json:"department,omitempty"`
	Role         EmployeeRole `json:"role"`
	PasswordHash string       `json:"passwordHash"`
	IsActive     bool         `json:"isActive"`
	LastLogin    *time.Time   `json:"lastLogin,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Clone returns a copy safe to hand out of the directory.
func (e *Employee) Clone() *Employee {
	if e == nil {
		return nil
	}
	c := *e
	if e.LastLogin != nil {
		t := *e.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// EmployeeUpdate carries a partial update; nil fields are left untouched.
type EmployeeUpdate struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Phone      *string
	Department *string
	Role       *EmployeeRole
}

// NewEmployee is the input for registering a staff member.
type NewEmployee struct {
	EmployeeID string `validate:"required"`
	FirstName  string `validate:"required"`
	LastName   string `validate:"required"`
	Email      string `validate:"required,email"`
	Phone      string
	Department string
	Role       EmployeeRole `validate:"required,oneof=clerk manager admin"`
	Password   string       `validate:"required,min=6"`
}
