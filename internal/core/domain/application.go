package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ApplicationStatus is the workflow position of an account-opening application.
type ApplicationStatus string

const (
	StatusDocumentsSubmitted ApplicationStatus = "documents_submitted"
	StatusKYCInProgress      ApplicationStatus = "kyc_in_progress"
	StatusKYCCompleted       ApplicationStatus = "kyc_completed"
	StatusApproved           ApplicationStatus = "approved"
	StatusRejected           ApplicationStatus = "rejected"
)

// IsTerminal reports whether no further transition can leave this status.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// KYCStatus tracks the identity-verification stage in parallel with ApplicationStatus.
type KYCStatus string

const (
	KYCPending    KYCStatus = "pending"
	KYCInProgress KYCStatus = "in_progress"
	KYCCompleted  KYCStatus = "completed"
	KYCVerified   KYCStatus = "verified"
)

// AccountType is the product the customer asked to open.
type AccountType string

const (
	AccountSavings AccountType = "savings"
	AccountCurrent AccountType = "current"
	AccountSalary  AccountType = "salary"
	AccountFixed   AccountType = "fixed_deposit"
)

// Address is embedded in ContactInfo.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PersonalInfo struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	FatherName    string `json:"fatherName"`
	MotherName    string `json:"motherName"`
	Nationality   string `json:"nationality"`
}

// FullName joins first and last name for display and log templates.
func (p PersonalInfo) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type ContactInfo struct {
	Email          string  `json:"email" validate:"required"`
	Phone          string  `json:"phone" validate:"required"`
	AlternatePhone string  `json:"alternatePhone,omitempty"`
	Address        Address `json:"address"`
}

type IdentityInfo struct {
	PANNumber     string          `json:"panNumber"`
	AadhaarNumber string          `json:"aadhaarNumber"`
	Occupation    string          `json:"occupation"`
	EmployerName  string          `json:"employerName,omitempty"`
	AnnualIncome  decimal.Decimal `json:"annualIncome"`
	SourceOfFunds string          `json:"sourceOfFunds,omitempty"`
}

type Nominee struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
}

type AccountInfo struct {
	AccountType    AccountType     `json:"accountType" validate:"required"`
	InitialDeposit decimal.Decimal `json:"initialDeposit"`
	Nominee        *Nominee        `json:"nominee,omitempty"`
}

// Documents holds presence markers only; file content never reaches the core.
type Documents struct {
	IdentityProof bool `json:"identityProof"`
	AddressProof  bool `json:"addressProof"`
	Photograph    bool `json:"photograph"`
	Signature     bool `json:"signature"`
}

// ApplicationDraft is the field-validated input for a new application.
type ApplicationDraft struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	ContactInfo  ContactInfo  `json:"contactInfo"`
	IdentityInfo IdentityInfo `json:"identityInfo"`
	AccountInfo  AccountInfo  `json:"accountInfo"`
	Documents    Documents    `json:"documents"`
	SelfieRef    string       `json:"selfieRef,omitempty"`
	Password     string       `json:"-"`
}

// Application is the account-opening case record tracked through the workflow.
type Application struct {
	ID           string       `json:"id"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	ContactInfo  ContactInfo  `json:"contactInfo"`
	IdentityInfo IdentityInfo `json:"identityInfo"`
	AccountInfo  AccountInfo  `json:"accountInfo"`
	Documents    Documents    `json:"documents"`
	SelfieRef    string       `json:"selfieRef,omitempty"`

	Status    ApplicationStatus `json:"status"`
	KYCStatus KYCStatus         `json:"kycStatus"`

	ClerkID      string `json:"clerkId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
	ClerkNotes   string `json:"clerkNotes,omitempty"`
	ManagerNotes string `json:"managerNotes,omitempty"`

	AccountNumber        string          `json:"accountNumber,omitempty"`
	Balance              decimal.Decimal `json:"balance"`
	CanPerformOperations bool            `json:"canPerformOperations"`

	SubmittedDate time.Time  `json:"submittedDate"`
	KYCDate       *time.Time `json:"kycDate,omitempty"`
	ApprovalDate  *time.Time `json:"approvalDate,omitempty"`

	Version int64 `json:"version"`
}

// NewApplication builds a freshly submitted application from a draft.
func NewApplication(id string, draft ApplicationDraft, now time.Time) *Application {
	return &Application{
		ID:                   id,
		PersonalInfo:         draft.PersonalInfo,
		ContactInfo:          draft.ContactInfo,
		IdentityInfo:         draft.IdentityInfo,
		AccountInfo:          draft.AccountInfo,
		Documents:            draft.Documents,
		SelfieRef:            draft.SelfieRef,
		Status:               StatusDocumentsSubmitted,
		KYCStatus:            KYCPending,
		Balance:              decimal.Zero,
		CanPerformOperations: false,
		SubmittedDate:        now,
		Version:              1,
	}
}

// Clone returns a deep copy so callers never share mutable state with the registry.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	if a.AccountInfo.Nominee != nil {
		n := *a.AccountInfo.Nominee
		c.AccountInfo.Nominee = &n
	}
	if a.KYCDate != nil {
		t := *a.KYCDate
		c.KYCDate = &t
	}
	if a.ApprovalDate != nil {
		t := *a.ApprovalDate
		c.ApprovalDate = &t
	}
	return &c
}

func preconditionErr(op string, a *Application) error {
	return fmt.Errorf("%w: cannot %s application %s in status %s/%s",
		apperrors.ErrPrecondition, op, a.ID, a.Status, a.KYCStatus)
}

// StartKYC claims the application for a clerk's video-KYC session.
func (a *Application) StartKYC(clerkID string) error {
	if a.KYCStatus != KYCPending {
		return preconditionErr("start KYC for", a)
	}
	a.KYCStatus = KYCInProgress
	a.Status = StatusKYCInProgress
	a.ClerkID = clerkID
	a.Version++
	return nil
}

// CompleteKYC closes the video-KYC session with the clerk's notes.
func (a *Application) CompleteKYC(notes string, now time.Time) error {
	if a.KYCStatus != KYCInProgress {
		return preconditionErr("complete KYC for", a)
	}
	a.KYCStatus = KYCCompleted
	a.Status = StatusKYCCompleted
	a.ClerkNotes = notes
	a.KYCDate = &now
	a.Version++
	return nil
}

// Approve opens the account. accountNumber is only ever written here.
func (a *Application) Approve(managerID, notes, accountNumber string, now time.Time) error {
	if a.Status != StatusKYCCompleted {
		return preconditionErr("approve", a)
	}
	if a.AccountNumber != "" {
		return preconditionErr("re-issue account number for", a)
	}
	a.Status = StatusApproved
	a.ManagerID = managerID
	a.ManagerNotes = notes
	a.ApprovalDate = &now
	a.AccountNumber = accountNumber
	a.Balance = a.AccountInfo.InitialDeposit
	a.CanPerformOperations = true
	a.Version++
	return nil
}

// Reject ends the workflow. KYCStatus is intentionally left at completed.
func (a *Application) Reject(managerID, reason string) error {
	if a.Status != StatusKYCCompleted {
		return preconditionErr("reject", a)
	}
	a.Status = StatusRejected
	a.ManagerID = managerID
	a.ManagerNotes = reason
	a.CanPerformOperations = false
	a.Version++
	return nil
}

// SetBalance is the unguarded customer-facing balance primitive, gated only by CanPerformOperations.
func (a *Application) SetBalance(newBalance decimal.Decimal) error {
	if !a.CanPerformOperations {
		return fmt.Errorf("%w: operations disabled for application %s", apperrors.ErrForbidden, a.ID)
	}
	a.Balance = newBalance
	a.Version++
	return nil
}

// AdjustBalance moves the balance by delta. The result may not go below zero.
func (a *Application) AdjustBalance(delta decimal.Decimal) error {
	if !a.CanPerformOperations {
		return fmt.Errorf("%w: operations disabled for application %s", apperrors.ErrForbidden, a.ID)
	}
	if a.Balance.Add(delta).IsNegative() {
		return fmt.Errorf("%w: insufficient funds", apperrors.ErrValidation)
	}
	return a.SetBalance(a.Balance.Add(delta))
}

// CheckConsistency verifies the (status, kycStatus) pair is one the workflow can reach.
func (a *Application) CheckConsistency() error {
	ok := false
	switch a.Status {
	case StatusDocumentsSubmitted:
		ok = a.KYCStatus == KYCPending
	case StatusKYCInProgress:
		ok = a.KYCStatus == KYCInProgress
	case StatusKYCCompleted:
		ok = a.KYCStatus == KYCCompleted
	case StatusApproved:
		ok = a.KYCStatus == KYCVerified || a.KYCStatus == KYCCompleted
	case StatusRejected:
		ok = a.KYCStatus == KYCCompleted || a.KYCStatus == KYCVerified
	}
	if !ok {
		return fmt.Errorf("%w: application %s has inconsistent status pair %s/%s",
			apperrors.ErrValidation, a.ID, a.Status, a.KYCStatus)
	}
	if a.Status != StatusApproved && a.AccountNumber != "" {
		return fmt.Errorf("%w: application %s carries an account number in status %s",
			apperrors.ErrValidation, a.ID, a.Status)
	}
	return nil
}

// ApplicationFilter selects applications for list queries. Zero values match everything.
type ApplicationFilter struct {
	Status    ApplicationStatus
	KYCStatus KYCStatus
	ClerkID   string
}

// Matches applies the filter predicate.
func (f ApplicationFilter) Matches(a *Application) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.KYCStatus != "" && a.KYCStatus != f.KYCStatus {
		return false
	}
	if f.ClerkID != "" && a.ClerkID != f.ClerkID {
		return false
	}
	return true
}
