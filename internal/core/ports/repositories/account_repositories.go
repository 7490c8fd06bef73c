package repositories

import (
	"context"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations return apperrors.ErrNotFound for missing rows and
// apperrors.ErrDuplicate for unique-constraint violations.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// DeleteAccount removes an account; its transactions cascade at the
	// storage layer.
	DeleteAccount(ctx context.Context, accountID string) error
}
