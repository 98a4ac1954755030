package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/metrics"
	"github.com/SscSPs/vaultix_backend/internal/utils"
	"github.com/shopspring/decimal"
)

type applicationsSnapshot struct {
	Applications []pair[*domain.Application] `json:"applications"`
	Users        []pair[*domain.Customer]    `json:"users"`
}

// ApplicationService is the application registry: it owns every application and
// identity entry and is the only place the workflow state machine runs.
type ApplicationService struct {
	BaseService
	snapshots     portsrepo.SnapshotRepositoryFacade
	events        portsrepo.EventWriter
	metrics       *metrics.Metrics
	accountNumber func(time.Time) string

	mu           sync.RWMutex
	applications map[string]*domain.Application
	customers    map[string]*domain.Customer
	version      int64
}

// NewApplicationService creates a registry backed by the given stores. Call Load
// before serving traffic to pick up persisted state.
func NewApplicationService(snapshots portsrepo.SnapshotRepositoryFacade, events portsrepo.EventWriter, m *metrics.Metrics, opts ...Option) *ApplicationService {
	o := resolveOptions(opts)
	return &ApplicationService{
		BaseService:   o.base(),
		snapshots:     snapshots,
		events:        events,
		metrics:       m,
		accountNumber: o.accountNumber,
		applications:  make(map[string]*domain.Application),
		customers:     make(map[string]*domain.Customer),
	}
}

var _ portssvc.ApplicationSvcFacade = (*ApplicationService)(nil)

// Load replaces in-memory state with the persisted snapshot. A missing key is an empty registry.
func (s *ApplicationService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *ApplicationService) loadLocked(ctx context.Context) error {
	snap, err := s.snapshots.Load(ctx, portsrepo.KeyApplicationsAndUsers)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.applications = make(map[string]*domain.Application)
		s.customers = make(map[string]*domain.Customer)
		s.version = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load applications snapshot: %w", err)
	}

	var doc applicationsSnapshot
	if err := json.Unmarshal(snap.Data, &doc); err != nil {
		return fmt.Errorf("failed to decode applications snapshot: %w", err)
	}
	s.applications = fromPairs(doc.Applications)
	s.customers = fromPairs(doc.Users)
	s.version = snap.Version
	s.LogDebug(ctx, "Applications snapshot loaded",
		slog.Int("applications", len(s.applications)),
		slog.Int("customers", len(s.customers)),
		slog.Int64("version", s.version))
	return nil
}

// persistLocked writes the candidate state. The caller swaps it in only on success.
// When the store supports it, event is written in the same transaction and the
// returned flag is true.
func (s *ApplicationService) persistLocked(ctx context.Context, apps map[string]*domain.Application, customers map[string]*domain.Customer, event domain.ApplicationEvent) (bool, error) {
	data, err := json.Marshal(applicationsSnapshot{
		Applications: toPairs(apps),
		Users:        toPairs(customers),
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode applications snapshot: %w", err)
	}

	start := time.Now()
	var newVersion int64
	txStore, withEvents := s.snapshots.(portsrepo.SnapshotEventWriter)
	if withEvents {
		newVersion, err = txStore.SaveWithEvents(ctx, portsrepo.KeyApplicationsAndUsers, data, s.version, []domain.ApplicationEvent{event})
	} else {
		newVersion, err = s.snapshots.Save(ctx, portsrepo.KeyApplicationsAndUsers, data, s.version)
	}
	s.metrics.ObservePersist(start)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.SnapshotConflicts.Inc()
			if rerr := s.loadLocked(ctx); rerr != nil {
				s.LogError(ctx, rerr, "Failed to reload applications after conflict")
			}
		}
		return false, fmt.Errorf("failed to persist applications snapshot: %w", err)
	}
	s.version = newVersion
	return withEvents, nil
}

func (s *ApplicationService) newEvent(kind domain.EventKind, actorID string, before, after *domain.Application) domain.ApplicationEvent {
	return domain.ApplicationEvent{
		EventID:       s.NewID(),
		ApplicationID: after.ID,
		Kind:          kind,
		ActorID:       actorID,
		OccurredAt:    s.Now(),
		Before:        before.Clone(),
		After:         after.Clone(),
	}
}

// recordEvent appends event unless persistLocked already stored it.
func (s *ApplicationService) recordEvent(ctx context.Context, event domain.ApplicationEvent, stored bool) {
	s.metrics.Transitions.WithLabelValues(string(event.Kind)).Inc()
	if stored {
		return
	}
	// The snapshot is already durable; a lost event is logged, not rolled back.
	if err := s.events.Append(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to append application event",
			slog.String("application_id", event.ApplicationID),
			slog.String("kind", string(event.Kind)))
	}
}

// CreateApplication validates the draft, stores a new application in
// documents_submitted and points the owner's email at it.
func (s *ApplicationService) CreateApplication(ctx context.Context, draft domain.ApplicationDraft) (string, error) {
	if err := validate.Struct(draft); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if draft.AccountInfo.InitialDeposit.IsNegative() {
		return "", fmt.Errorf("%w: initial deposit cannot be negative", apperrors.ErrValidation)
	}

	var passwordHash string
	if draft.Password != "" {
		hash, err := utils.HashPassword(draft.Password)
		if err != nil {
			return "", fmt.Errorf("failed to hash customer password: %w", err)
		}
		passwordHash = hash
	}

	now := s.Now()
	app := domain.NewApplication(s.NewID(), draft, now)
	email := domain.NormalizeEmail(draft.ContactInfo.Email)
	customer := &domain.Customer{
		Email:         email,
		Role:          domain.RoleCustomer,
		ApplicationID: app.ID,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	apps := maps.Clone(s.applications)
	apps[app.ID] = app
	customers := maps.Clone(s.customers)
	if prev, ok := customers[email]; ok {
		s.LogInfo(ctx, "Email already registered, re-pointing identity entry",
			slog.String("previous_application_id", prev.ApplicationID),
			slog.String("application_id", app.ID))
	}
	customers[email] = customer

	event := s.newEvent(domain.EventApplicationSubmitted, email, nil, app)
	stored, err := s.persistLocked(ctx, apps, customers, event)
	if err != nil {
		s.LogError(ctx, err, "Failed to persist new application")
		return "", err
	}
	s.applications = apps
	s.customers = customers

	s.metrics.ApplicationsSubmitted.Inc()
	s.recordEvent(ctx, event, stored)
	s.LogInfo(ctx, "Application submitted",
		slog.String("application_id", app.ID),
		slog.String("account_type", string(app.AccountInfo.AccountType)))
	return app.ID, nil
}

// actorFunc names who caused a transition, given the application after it.
type actorFunc func(after *domain.Application) string

func staffActor(id string) actorFunc {
	return func(*domain.Application) string { return id }
}

func assignedClerk(after *domain.Application) string { return after.ClerkID }

func owningCustomer(after *domain.Application) string {
	return domain.NormalizeEmail(after.ContactInfo.Email)
}

// transition applies fn to a copy of the application, persists, then swaps the copy in.
func (s *ApplicationService) transition(ctx context.Context, kind domain.EventKind, applicationID string, actor actorFunc, fn func(*domain.Application) error) bool {
	_, err := s.apply(ctx, kind, applicationID, actor, fn)
	return err == nil
}

// apply is transition reporting why it was refused. It returns a copy of the
// updated application.
func (s *ApplicationService) apply(ctx context.Context, kind domain.EventKind, applicationID string, actor actorFunc, fn func(*domain.Application) error) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.GetLogger(ctx).With(
		slog.String("application_id", applicationID),
		slog.String("kind", string(kind)))

	current, ok := s.applications[applicationID]
	if !ok {
		s.metrics.TransitionsRefused.WithLabelValues(string(kind), "not_found").Inc()
		logger.Warn("Transition refused: application not found")
		return nil, fmt.Errorf("application %s: %w", applicationID, apperrors.ErrNotFound)
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		s.metrics.TransitionsRefused.WithLabelValues(string(kind), "precondition").Inc()
		logger.Info("Transition refused", slog.String("reason", err.Error()))
		return nil, err
	}
	if err := next.CheckConsistency(); err != nil {
		s.metrics.TransitionsRefused.WithLabelValues(string(kind), "inconsistent").Inc()
		logger.Error("Transition would break application invariants", slog.String("error", err.Error()))
		return nil, err
	}

	apps := maps.Clone(s.applications)
	apps[applicationID] = next
	event := s.newEvent(kind, actor(next), current, next)
	stored, err := s.persistLocked(ctx, apps, s.customers, event)
	if err != nil {
		reason := "storage"
		if errors.Is(err, apperrors.ErrConflict) {
			reason = "conflict"
		}
		s.metrics.TransitionsRefused.WithLabelValues(string(kind), reason).Inc()
		logger.Error("Transition not persisted", slog.String("error", err.Error()))
		return nil, err
	}
	s.applications = apps

	s.recordEvent(ctx, event, stored)
	logger.Info("Transition applied", slog.String("status", string(next.Status)))
	return next.Clone(), nil
}

// StartVideoKYC lets a clerk claim a pending application.
func (s *ApplicationService) StartVideoKYC(ctx context.Context, applicationID, clerkID string) bool {
	return s.transition(ctx, domain.EventKYCStarted, applicationID, staffActor(clerkID), func(a *domain.Application) error {
		return a.StartKYC(clerkID)
	})
}

// CompleteKYC closes the clerk's video session. The acting clerk is the one recorded at start.
func (s *ApplicationService) CompleteKYC(ctx context.Context, applicationID, notes string) bool {
	now := s.Now()
	return s.transition(ctx, domain.EventKYCCompleted, applicationID, assignedClerk, func(a *domain.Application) error {
		return a.CompleteKYC(notes, now)
	})
}

// ApproveApplication opens the account and enables customer operations.
func (s *ApplicationService) ApproveApplication(ctx context.Context, applicationID, managerID, notes string) bool {
	now := s.Now()
	return s.transition(ctx, domain.EventApplicationApproved, applicationID, staffActor(managerID), func(a *domain.Application) error {
		return a.Approve(managerID, notes, s.accountNumber(now), now)
	})
}

// RejectApplication ends the workflow without opening an account.
func (s *ApplicationService) RejectApplication(ctx context.Context, applicationID, managerID, reason string) bool {
	return s.transition(ctx, domain.EventApplicationRejected, applicationID, staffActor(managerID), func(a *domain.Application) error {
		return a.Reject(managerID, reason)
	})
}

// UpdateBalance overwrites the balance of an operation-enabled application.
func (s *ApplicationService) UpdateBalance(ctx context.Context, applicationID string, newBalance decimal.Decimal) bool {
	return s.transition(ctx, domain.EventBalanceUpdated, applicationID, owningCustomer, func(a *domain.Application) error {
		return a.SetBalance(newBalance)
	})
}

// AdjustBalance adds delta to the balance under the registry lock, so concurrent
// adjustments never overwrite each other. A result below zero is refused.
func (s *ApplicationService) AdjustBalance(ctx context.Context, applicationID string, delta decimal.Decimal) (*domain.Application, error) {
	return s.apply(ctx, domain.EventBalanceUpdated, applicationID, owningCustomer, func(a *domain.Application) error {
		return a.AdjustBalance(delta)
	})
}

// GetApplication returns a copy of the application, or nil.
func (s *ApplicationService) GetApplication(ctx context.Context, applicationID string) *domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applications[applicationID].Clone()
}

// GetApplicationByEmail follows the identity entry for email.
func (s *ApplicationService) GetApplicationByEmail(ctx context.Context, email string) *domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[domain.NormalizeEmail(email)]
	if !ok {
		return nil
	}
	return s.applications[c.ApplicationID].Clone()
}

// FindCustomer returns a copy of the identity entry for email, or nil.
func (s *ApplicationService) FindCustomer(ctx context.Context, email string) *domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[domain.NormalizeEmail(email)]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// ListApplications returns copies matching filter, oldest submission first.
func (s *ApplicationService) ListApplications(ctx context.Context, filter domain.ApplicationFilter) []domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Application, 0, len(s.applications))
	for _, a := range s.applications {
		if filter.Matches(a) {
			out = append(out, *a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedDate.Equal(out[j].SubmittedDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedDate.Before(out[j].SubmittedDate)
	})
	return out
}

// ListAll returns every application.
func (s *ApplicationService) ListAll(ctx context.Context) []domain.Application {
	return s.ListApplications(ctx, domain.ApplicationFilter{})
}
