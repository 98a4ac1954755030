package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/utils"
)

// EmployeeService is the staff directory, persisted under its own snapshot key.
type EmployeeService struct {
	BaseService
	snapshots portsrepo.SnapshotRepositoryFacade

	mu        sync.RWMutex
	employees map[string]*domain.Employee
	version   int64
}

// NewEmployeeService creates an empty directory. Call Load before use.
func NewEmployeeService(snapshots portsrepo.SnapshotRepositoryFacade, opts ...Option) *EmployeeService {
	o := resolveOptions(opts)
	return &EmployeeService{
		BaseService: o.base(),
		snapshots:   snapshots,
		employees:   make(map[string]*domain.Employee),
	}
}

var _ portssvc.EmployeeSvcFacade = (*EmployeeService)(nil)

// Load replaces in-memory state with the persisted snapshot.
func (s *EmployeeService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *EmployeeService) loadLocked(ctx context.Context) error {
	snap, err := s.snapshots.Load(ctx, portsrepo.KeyEmployees)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.employees = make(map[string]*domain.Employee)
		s.version = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load employees snapshot: %w", err)
	}
	var entries []pair[*domain.Employee]
	if err := json.Unmarshal(snap.Data, &entries); err != nil {
		return fmt.Errorf("failed to decode employees snapshot: %w", err)
	}
	s.employees = fromPairs(entries)
	s.version = snap.Version
	return nil
}

// commitLocked persists the candidate directory and swaps it in on success.
func (s *EmployeeService) commitLocked(ctx context.Context, next map[string]*domain.Employee) error {
	data, err := json.Marshal(toPairs(next))
	if err != nil {
		return fmt.Errorf("failed to encode employees snapshot: %w", err)
	}
	newVersion, err := s.snapshots.Save(ctx, portsrepo.KeyEmployees, data, s.version)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if rerr := s.loadLocked(ctx); rerr != nil {
				s.LogError(ctx, rerr, "Failed to reload employees after conflict")
			}
		}
		return fmt.Errorf("failed to persist employees snapshot: %w", err)
	}
	s.employees = next
	s.version = newVersion
	return nil
}

// mutate clones one employee, applies fn and commits.
func (s *EmployeeService) mutate(ctx context.Context, employeeID string, fn func(e *domain.Employee) error) (*domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.employees[employeeID]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", employeeID, apperrors.ErrNotFound)
	}
	updated := current.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.Now()

	next := maps.Clone(s.employees)
	next[employeeID] = updated
	if err := s.commitLocked(ctx, next); err != nil {
		s.LogError(ctx, err, "Failed to persist employee update", slog.String("employee_id", employeeID))
		return nil, err
	}
	return updated.Clone(), nil
}

// RegisterEmployee adds an active staff member with a bcrypt-hashed password.
func (s *EmployeeService) RegisterEmployee(ctx context.Context, req domain.NewEmployee) (*domain.Employee, error) {
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash employee password: %w", err)
	}

	now := s.Now()
	emp := &domain.Employee{
		EmployeeID:   req.EmployeeID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        domain.NormalizeEmail(req.Email),
		Phone:        req.Phone,
		Department:   req.Department,
		Role:         req.Role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.employees[emp.EmployeeID]; exists {
		return nil, fmt.Errorf("employee %s: %w", emp.EmployeeID, apperrors.ErrDuplicate)
	}
	next := maps.Clone(s.employees)
	next[emp.EmployeeID] = emp
	if err := s.commitLocked(ctx, next); err != nil {
		s.LogError(ctx, err, "Failed to persist new employee", slog.String("employee_id", emp.EmployeeID))
		return nil, err
	}
	s.LogInfo(ctx, "Employee registered",
		slog.String("employee_id", emp.EmployeeID),
		slog.String("role", string(emp.Role)))
	return emp.Clone(), nil
}

// UpdateEmployee applies the non-nil fields of update.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID string, update domain.EmployeeUpdate) (*domain.Employee, error) {
	if update.Role != nil && !update.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, *update.Role)
	}
	if update.Email != nil {
		if err := validate.Var(*update.Email, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: invalid email: %v", apperrors.ErrValidation, err)
		}
	}
	return s.mutate(ctx, employeeID, func(e *domain.Employee) error {
		if update.FirstName != nil {
			e.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			e.LastName = *update.LastName
		}
		if update.Email != nil {
			e.Email = domain.NormalizeEmail(*update.Email)
		}
		if update.Phone != nil {
			e.Phone = *update.Phone
		}
		if update.Department != nil {
			e.Department = *update.Department
		}
		if update.Role != nil {
			e.Role = *update.Role
		}
		return nil
	})
}

// ResetPassword replaces the stored hash.
func (s *EmployeeService) ResetPassword(ctx context.Context, employeeID, newPassword string) error {
	if err := validate.Var(newPassword, "required,min=6"); err != nil {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash employee password: %w", err)
	}
	_, err = s.mutate(ctx, employeeID, func(e *domain.Employee) error {
		e.PasswordHash = hash
		return nil
	})
	return err
}

// DeactivateEmployee blocks further logins. Records are never deleted.
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, employeeID string) error {
	return s.setActive(ctx, employeeID, false)
}

// ReactivateEmployee re-enables a deactivated employee.
func (s *EmployeeService) ReactivateEmployee(ctx context.Context, employeeID string) error {
	return s.setActive(ctx, employeeID, true)
}

func (s *EmployeeService) setActive(ctx context.Context, employeeID string, active bool) error {
	_, err := s.mutate(ctx, employeeID, func(e *domain.Employee) error {
		e.IsActive = active
		return nil
	})
	if err == nil {
		s.LogInfo(ctx, "Employee active flag changed",
			slog.String("employee_id", employeeID),
			slog.Bool("is_active", active))
	}
	return err
}

// RecordLogin stamps lastLogin after a successful two-factor login.
func (s *EmployeeService) RecordLogin(ctx context.Context, employeeID string, at time.Time) error {
	_, err := s.mutate(ctx, employeeID, func(e *domain.Employee) error {
		e.LastLogin = &at
		return nil
	})
	return err
}

func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", employeeID, apperrors.ErrNotFound)
	}
	return e.Clone(), nil
}

// ListEmployees returns every employee ordered by ID.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, *e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

var defaultEmployees = []domain.NewEmployee{
	{EmployeeID: "ADM001", FirstName: "Priya", LastName: "Sharma", Email: "admin@vaultix.bank", Department: "Administration", Role: domain.RoleAdmin},
	{EmployeeID: "MNG001", FirstName: "Rahul", LastName: "Verma", Email: "manager@vaultix.bank", Department: "Operations", Role: domain.RoleManager},
	{EmployeeID: "CLK001", FirstName: "Anita", LastName: "Desai", Email: "clerk@vaultix.bank", Department: "Customer Onboarding", Role: domain.RoleClerk},
}

// SeedDefaults creates the demo admin, manager and clerk when the directory is empty.
func (s *EmployeeService) SeedDefaults(ctx context.Context, password string) error {
	s.mu.RLock()
	empty := len(s.employees) == 0
	s.mu.RUnlock()
	if !empty {
		return nil
	}
	for _, req := range defaultEmployees {
		req.Password = password
		if _, err := s.RegisterEmployee(ctx, req); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("failed to seed employee %s: %w", req.EmployeeID, err)
		}
	}
	s.LogInfo(ctx, "Seeded default employees", slog.Int("count", len(defaultEmployees)))
	return nil
}
