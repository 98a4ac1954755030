package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/vaultix_backend/internal/core/ports/repositories"
)

// OTPStore holds one challenge per employee in process memory.
type OTPStore struct {
	mu         sync.Mutex
	challenges map[string]domain.OTPChallenge
}

// NewOTPStore creates an empty in-memory challenge store.
func NewOTPStore() *OTPStore {
	return &OTPStore{challenges: make(map[string]domain.OTPChallenge)}
}

var _ portsrepo.OTPRepository = (*OTPStore)(nil)

func (s *OTPStore) Save(ctx context.Context, challenge domain.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.EmployeeID] = challenge
	return nil
}

func (s *OTPStore) Find(ctx context.Context, employeeID string) (*domain.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[employeeID]
	if !ok {
		return nil, fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrNotFound)
	}
	return &c, nil
}

func (s *OTPStore) Consume(ctx context.Context, employeeID, code string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[employeeID]
	if !ok || !c.Matches(code) {
		return fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrNotFound)
	}
	if c.Consumed || c.IsExpired(now) {
		return fmt.Errorf("otp challenge for %s: %w", employeeID, apperrors.ErrExpired)
	}
	c.Consumed = true
	s.challenges[employeeID] = c
	return nil
}
