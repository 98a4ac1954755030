package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
)

// OTPRepository stores at most one live challenge per employee.
type OTPRepository interface {
	// Save stores the challenge, replacing any previous one for the same employee.
	Save(ctx context.Context, challenge domain.OTPChallenge) error

	// Find returns the current challenge for the employee, or apperrors.ErrNotFound.
	Find(ctx context.Context, employeeID string) (*domain.OTPChallenge, error)

	// Consume atomically marks the challenge with the given code as used. It returns
	// apperrors.ErrNotFound when no challenge with that code exists and
	// apperrors.ErrExpired when it was already consumed or is past now.
	Consume(ctx context.Context, employeeID, code string, now time.Time) error
}
