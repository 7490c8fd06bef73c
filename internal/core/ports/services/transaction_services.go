package services

import (
	"context"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
)

// TransactionPage is the result of a filtered transaction listing. FromDate
// and ToDate are the earliest and latest operation original dates of the page
// (zero when the page is empty). Statistics is set only when requested and is
// computed over the full filtered set, not just the page.
type TransactionPage struct {
	Transactions []domain.Transaction
	TotalCount   int64
	FromDate     string
	ToDate       string
	Statistics   *domain.BankTransactionStatistics
}

// TransactionSvc exposes the transaction import, listing and CRUD operations.
//
// All operations are scoped to the account identified by accountNumber;
// a missing account surfaces as apperrors.ErrNotFound.
type TransactionSvc interface {
	// ImportStatement ingests a statement file. The returned ImportResult
	// carries the counters accumulated so far even when err is non-nil, so
	// partial progress stays visible and a retry is idempotent.
	ImportStatement(ctx context.Context, contents []byte) (domain.ImportResult, error)
	ListTransactions(ctx context.Context, accountNumber string, query domain.ListQuery) (*TransactionPage, error)
	GetTransactionByID(ctx context.Context, accountNumber, transactionID string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, accountNumber string, req dto.TransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, accountNumber, transactionID string, req dto.TransactionRequest) error
	DeleteTransaction(ctx context.Context, accountNumber, transactionID string) error
}
