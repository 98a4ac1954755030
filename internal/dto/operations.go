package dto

import "github.com/shopspring/decimal"

// AmountRequest is the deposit and withdrawal payload.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest moves funds to another approved account.
type TransferRequest struct {
	ToAccountNumber string          `json:"toAccountNumber" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

// BalanceResponse reports the caller's balance after an operation.
type BalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}
