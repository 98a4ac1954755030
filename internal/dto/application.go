package dto

import (
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateApplicationRequest is the public registration payload. Required-field
// checks run in the registry so every caller gets the same validation.
type CreateApplicationRequest struct {
	PersonalInfo domain.PersonalInfo `json:"personalInfo"`
	ContactInfo  domain.ContactInfo  `json:"contactInfo"`
	IdentityInfo domain.IdentityInfo `json:"identityInfo"`
	AccountInfo  domain.AccountInfo  `json:"accountInfo"`
	Documents    domain.Documents    `json:"documents"`
	SelfieRef    string              `json:"selfieRef,omitempty"`
	Password     string              `json:"password"`
}

// ToDraft converts the request into the registry's input type.
func (r CreateApplicationRequest) ToDraft() domain.ApplicationDraft {
	return domain.ApplicationDraft{
		PersonalInfo: r.PersonalInfo,
		ContactInfo:  r.ContactInfo,
		IdentityInfo: r.IdentityInfo,
		AccountInfo:  r.AccountInfo,
		Documents:    r.Documents,
		SelfieRef:    r.SelfieRef,
		Password:     r.Password,
	}
}

// CreateApplicationResponse returns the new application's ID.
type CreateApplicationResponse struct {
	ApplicationID string `json:"applicationId"`
}

// ApplicationResponse is the full application view returned to staff and its owner.
type ApplicationResponse struct {
	ID                   string                   `json:"id"`
	PersonalInfo         domain.PersonalInfo      `json:"personalInfo"`
	ContactInfo          domain.ContactInfo       `json:"contactInfo"`
	IdentityInfo         domain.IdentityInfo      `json:"identityInfo"`
	AccountInfo          domain.AccountInfo       `json:"accountInfo"`
	Documents            domain.Documents         `json:"documents"`
	SelfieRef            string                   `json:"selfieRef,omitempty"`
	Status               domain.ApplicationStatus `json:"status"`
	KYCStatus            domain.KYCStatus         `json:"kycStatus"`
	ClerkID              string                   `json:"clerkId,omitempty"`
	ManagerID            string                   `json:"managerId,omitempty"`
	ClerkNotes           string                   `json:"clerkNotes,omitempty"`
	ManagerNotes         string                   `json:"managerNotes,omitempty"`
	AccountNumber        string                   `json:"accountNumber,omitempty"`
	Balance              decimal.Decimal          `json:"balance"`
	CanPerformOperations bool                     `json:"canPerformOperations"`
	SubmittedDate        time.Time                `json:"submittedDate"`
	KYCDate              *time.Time               `json:"kycDate,omitempty"`
	ApprovalDate         *time.Time               `json:"approvalDate,omitempty"`
}

// ToApplicationResponse converts a domain.Application to an ApplicationResponse DTO
func ToApplicationResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                   a.ID,
		PersonalInfo:         a.PersonalInfo,
		ContactInfo:          a.ContactInfo,
		IdentityInfo:         a.IdentityInfo,
		AccountInfo:          a.AccountInfo,
		Documents:            a.Documents,
		SelfieRef:            a.SelfieRef,
		Status:               a.Status,
		KYCStatus:            a.KYCStatus,
		ClerkID:              a.ClerkID,
		ManagerID:            a.ManagerID,
		ClerkNotes:           a.ClerkNotes,
		ManagerNotes:         a.ManagerNotes,
		AccountNumber:        a.AccountNumber,
		Balance:              a.Balance,
		CanPerformOperations: a.CanPerformOperations,
		SubmittedDate:        a.SubmittedDate,
		KYCDate:              a.KYCDate,
		ApprovalDate:         a.ApprovalDate,
	}
}

// ListApplicationsResponse wraps a list of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}

// ToListApplicationsResponse converts a slice of domain.Application.
func ToListApplicationsResponse(apps []domain.Application) ListApplicationsResponse {
	out := make([]ApplicationResponse, len(apps))
	for i := range apps {
		out[i] = ToApplicationResponse(&apps[i])
	}
	return ListApplicationsResponse{Applications: out}
}

// ListApplicationsParams defines query filters for listing applications.
type ListApplicationsParams struct {
	Status    string `form:"status"`
	KYCStatus string `form:"kycStatus"`
	ClerkID   string `form:"clerkId"`
}

// ToFilter converts the query parameters to a registry filter.
func (p ListApplicationsParams) ToFilter() domain.ApplicationFilter {
	return domain.ApplicationFilter{
		Status:    domain.ApplicationStatus(p.Status),
		KYCStatus: domain.KYCStatus(p.KYCStatus),
		ClerkID:   p.ClerkID,
	}
}

// CompleteKYCRequest carries the clerk's session notes.
type CompleteKYCRequest struct {
	Notes string `json:"notes"`
}

// ApproveApplicationRequest carries the manager's notes.
type ApproveApplicationRequest struct {
	Notes string `json:"notes"`
}

// RejectApplicationRequest carries the mandatory rejection reason.
type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransitionResponse reports the application after a successful transition.
type TransitionResponse struct {
	Message     string              `json:"message"`
	Application ApplicationResponse `json:"application"`
}
