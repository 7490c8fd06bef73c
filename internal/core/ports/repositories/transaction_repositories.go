package repositories

import (
	"context"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
)

// TransactionRepository defines the retrieval contract the core pipeline
// depends on. Filters combine with logical AND; "contains" is a case-sensitive
// substring match on string fields. A nil limit means unbounded results.
//
// Implementations return apperrors.ErrNotFound for missing rows and
// apperrors.ErrDuplicate when an insert or update violates the dedup-key
// uniqueness constraint.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// FindOneTransactionByFilters returns the first transaction matching all
	// filters; used as the dedup probe during import.
	FindOneTransactionByFilters(ctx context.Context, filters []domain.Filter) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filters []domain.Filter, orderBy string, orderDirection domain.OrderDirection, limit, offset *int) ([]domain.Transaction, error)
	CountTransactions(ctx context.Context, filters []domain.Filter) (int64, error)
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID string) error
}
