package services

import (
	"context"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OperationsSvcFacade composes customer money movements on top of UpdateBalance.
type OperationsSvcFacade interface {
	Deposit(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error)
	Withdraw(ctx context.Context, email string, amount decimal.Decimal) (*domain.Application, error)
	Transfer(ctx context.Context, email, toAccountNumber string, amount decimal.Decimal) (*domain.Application, error)
}
