package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/vaultix_backend/internal/apperrors"
	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type balanceRegistry interface {
	portssvc.ApplicationReaderSvc
	AdjustBalance(ctx context.Context, applicationID string, delta decimal.Decimal) (*domain.Application, error)
}

// OperationsService turns customer deposits, withdrawals and transfers into
// balance adjustments on the registry. Each adjustment is applied against the
// balance current at write time, never a value read earlier.
type OperationsService struct {
	BaseService
	registry balanceRegistry
}

func NewOperationsService(registry balanceRegistry) *OperationsService {
	return &OperationsService{BaseService: newBaseService(), registry: registry}
}

var _ portssvc.OperationsSvcFacade = (*OperationsService)(nil)

func (s *OperationsService) operable(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	app := s.registry.GetApplicationByEmail(ctx, email)
	if app == nil {
		return nil, fmt.Errorf("application for %s: %w", email, apperrors.ErrNotFound)
	}
	if !app.CanPerformOperations {
		return nil, fmt.Errorf("operations not enabled for application %s: %w", app.ID, apperrors.ErrForbidden)
	}
	return app, nil
}

func (s *OperationsService) Deposit(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error) {
	app, err := s.operable(ctx, email, amount)
	if err != nil {
		return nil, err
	}
	return s.registry.AdjustBalance(ctx, app.ID, amount)
}

func (s *OperationsService) Withdraw(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error) {
	app, err := s.operable(ctx, email, amount)
	if err != nil {
		return nil, err
	}
	return s.registry.AdjustBalance(ctx, app.ID, amount.Neg())
}

// Transfer debits the caller and credits the approved account with toAccountNumber.
// If the credit fails the debit is reversed by crediting the amount back.
func (s *OperationsService) Transfer(ctx context.Context, email, toAccountNumber string, amount decimal.Decimal) (*domain.Application, error) {
	from, err := s.operable(ctx, email, amount)
	if err != nil {
		return nil, err
	}
	if from.AccountNumber == toAccountNumber {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
	}

	var to *domain.Application
	for _, candidate := range s.registry.ListApplications(ctx, domain.ApplicationFilter{Status: domain.StatusApproved}) {
		if candidate.AccountNumber == toAccountNumber {
			c := candidate
			to = &c
			break
		}
	}
	if to == nil {
		return nil, fmt.Errorf("account %s: %w", toAccountNumber, apperrors.ErrNotFound)
	}
	if !to.CanPerformOperations {
		return nil, fmt.Errorf("account %s cannot receive funds: %w", toAccountNumber, apperrors.ErrForbidden)
	}

	updated, err := s.registry.AdjustBalance(ctx, from.ID, amount.Neg())
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.AdjustBalance(ctx, to.ID, amount); err != nil {
		if _, rerr := s.registry.AdjustBalance(ctx, from.ID, amount); rerr != nil {
			s.LogError(ctx, rerr, "Failed to reverse transfer debit",
				slog.String("application_id", from.ID),
				slog.String("amount", amount.String()))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Transfer completed",
		slog.String("from_application_id", from.ID),
		slog.String("to_application_id", to.ID),
		slog.String("amount", amount.String()))
	return updated, nil
}
