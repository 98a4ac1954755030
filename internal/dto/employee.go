package dto

import (
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// CreateEmployeeRequest defines the payload for registering a staff member.
type CreateEmployeeRequest struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Role       string `json:"role" binding:"required,oneof=clerk manager admin"`
	Password   string `json:"password" binding:"required,min=6"`
}

// ToNewEmployee converts the request to the directory's input type.
func (r CreateEmployeeRequest) ToNewEmployee() domain.NewEmployee {
	return domain.NewEmployee{
		EmployeeID: r.EmployeeID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Department: r.Department,
		Role:       domain.EmployeeRole(r.Role),
		Password:   r.Password,
	}
}

// UpdateEmployeeRequest defines the data allowed for updating an employee.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateEmployeeRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Role       *string `json:"role" binding:"omitempty,oneof=clerk manager admin"`
}

// ToEmployeeUpdate converts the request to a partial update.
func (r UpdateEmployeeRequest) ToEmployeeUpdate() domain.EmployeeUpdate {
	u := domain.EmployeeUpdate{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Department: r.Department,
	}
	if r.Role != nil {
		role := domain.EmployeeRole(*r.Role)
		u.Role = &role
	}
	return u
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// EmployeeResponse is the employee view; the password hash never leaves the service.
type EmployeeResponse struct {
	EmployeeID string     `json:"employeeId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Department string     `json:"department,omitempty"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"isActive"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ToEmployeeResponse converts a domain.Employee to an EmployeeResponse DTO
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Department: e.Department,
		Role:       string(e.Role),
		IsActive:   e.IsActive,
		LastLogin:  e.LastLogin,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ListEmployeesResponse wraps the list of employees.
type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// ToListEmployeesResponse converts a slice of domain.Employee.
func ToListEmployeesResponse(emps []domain.Employee) ListEmployeesResponse {
	out := make([]EmployeeResponse, len(emps))
	for i := range emps {
		out[i] = ToEmployeeResponse(&emps[i])
	}
	return ListEmployeesResponse{Employees: out}
}
