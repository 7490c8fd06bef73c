package services

import (
	"context"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
)

// AccountSvc exposes the explicit account lifecycle operations. Accounts are
// also created implicitly by the statement import path.
type AccountSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// DeleteAccount removes the account and, by cascade, all its transactions.
	DeleteAccount(ctx context.Context, accountNumber string) error
}
