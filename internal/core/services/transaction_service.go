package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	portsrepo "github.com/nmoratal-dev/bank-ledger-api/internal/core/ports/repositories"
	portssvc "github.com/nmoratal-dev/bank-ledger-api/internal/core/ports/services"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
	"github.com/nmoratal-dev/bank-ledger-api/internal/statement"
	"github.com/nmoratal-dev/bank-ledger-api/internal/statistics"
	"github.com/nmoratal-dev/bank-ledger-api/internal/utils/mapping"
)

// transactionService implements the TransactionSvc interface
type transactionService struct {
	BaseService
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
}

// NewTransactionService creates a new transaction service backed by the given
// repositories.
func NewTransactionService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository) portssvc.TransactionSvc {
	return &transactionService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure transactionService implements the TransactionSvc interface
var _ portssvc.TransactionSvc = (*transactionService)(nil)

// ImportStatement parses the uploaded statement and ingests only the rows not
// already persisted. Duplicate detection is an exact match on the dedup key;
// a unique-constraint rejection from a concurrent import of the same row
// counts as a duplicate too, since the storage constraint is the race-safety
// backstop. The returned counters are valid even when an error is returned.
func (s *transactionService) ImportStatement(ctx context.Context, contents []byte) (domain.ImportResult, error) {
	result := domain.ImportResult{}

	stmt, err := statement.Extract(contents)
	if err != nil {
		s.LogError(ctx, err, "Failed to extract statement")
		return result, err
	}
	result.AccountNumber = stmt.AccountNumber

	account, err := s.findOrCreateAccount(ctx, stmt)
	if err != nil {
		return result, err
	}

	for i, row := range stmt.Rows {
		candidate, err := mapping.RowToTransaction(row, account.AccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to normalize statement row", slog.Int("row", i))
			return result, fmt.Errorf("row %d: %w", i, err)
		}

		_, err = s.txnRepo.FindOneTransactionByFilters(ctx, candidate.DedupKey())
		switch {
		case err == nil:
			result.Duplicates++
			continue
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Dedup probe failed", slog.Int("row", i))
			return result, fmt.Errorf("row %d: %w: %v", i, apperrors.ErrTransactionService, err)
		}

		now := time.Now().UTC()
		candidate.TransactionID = uuid.NewString()
		candidate.CreatedAt = now
		candidate.LastUpdatedAt = now
		if err := s.txnRepo.SaveTransaction(ctx, candidate); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// Lost a race against a concurrent import of the same row.
				result.Duplicates++
				continue
			}
			s.LogError(ctx, err, "Failed to persist statement row", slog.Int("row", i))
			return result, fmt.Errorf("row %d: %w: %v", i, apperrors.ErrTransactionService, err)
		}
		result.Imported++
	}

	s.LogInfo(ctx, "Statement imported",
		slog.String("account_number", result.AccountNumber),
		slog.Int("imported", result.Imported),
		slog.Int("duplicates", result.Duplicates))
	return result, nil
}

// findOrCreateAccount resolves the statement's account by its number,
// creating it from the header block when unseen.
func (s *transactionService) findOrCreateAccount(ctx context.Context, stmt *statement.Statement) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, stmt.AccountNumber)
	if err == nil {
		s.LogDebug(ctx, "Account already exists", slog.String("account_number", stmt.AccountNumber))
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up account", slog.String("account_number", stmt.AccountNumber))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}

	now := time.Now().UTC()
	created := domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: stmt.AccountNumber,
		AccountHolder: stmt.AccountHolder,
		Balance:       stmt.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race against a concurrent import creating the same
			// account; use the winner's row.
			account, err := s.accountRepo.FindAccountByNumber(ctx, stmt.AccountNumber)
			if err != nil {
				s.LogError(ctx, err, "Failed to re-fetch account after create race", slog.String("account_number", stmt.AccountNumber))
				return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
			}
			return account, nil
		}
		s.LogError(ctx, err, "Failed to create account", slog.String("account_number", stmt.AccountNumber))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}
	s.LogInfo(ctx, "Account created", slog.String("account_number", created.AccountNumber))
	return &created, nil
}

// ListTransactions retrieves one page of the account's transactions matching
// the query. When statistics are requested they are computed over the whole
// filtered set via an unbounded query, not just the returned page.
func (s *transactionService) ListTransactions(ctx context.Context, accountNumber string, query domain.ListQuery) (*portssvc.TransactionPage, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	filters := append([]domain.Filter{
		{Field: "account_id", Operator: domain.FilterEq, Value: account.AccountID},
	}, query.Filters...)

	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = domain.DefaultOrderBy
	}
	orderDirection := query.OrderDirection
	if orderDirection == "" {
		orderDirection = domain.OrderDesc
	}

	txns, err := s.txnRepo.ListTransactions(ctx, filters, orderBy, orderDirection, query.Limit, query.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_number", accountNumber))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}
	total, err := s.txnRepo.CountTransactions(ctx, filters)
	if err != nil {
		s.LogError(ctx, err, "Failed to count transactions", slog.String("account_number", accountNumber))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}

	page := &portssvc.TransactionPage{
		Transactions: txns,
		TotalCount:   total,
	}
	page.FromDate, page.ToDate = dateRange(txns)

	if query.WithStatistics {
		// Aggregates must span the full filtered set, so re-query without
		// limit/offset unless the page already covers everything.
		full := txns
		if query.Limit != nil || query.Offset != nil {
			full, err = s.txnRepo.ListTransactions(ctx, filters, orderBy, orderDirection, nil, nil)
			if err != nil {
				s.LogError(ctx, err, "Failed to list transactions for statistics", slog.String("account_number", accountNumber))
				return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
			}
		}
		stats := statistics.Calculate(full)
		page.Statistics = &stats
	}
	return page, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, accountNumber, transactionID string) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.AccountID != account.AccountID {
		// The transaction exists but belongs to another account; from this
		// caller's point of view it does not exist.
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, accountNumber string, req dto.TransactionRequest) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	txn, err := mapping.RequestToTransaction(req, account.AccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.TransactionID = uuid.NewString()
	txn.CreatedAt = now
	txn.LastUpdatedAt = now
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save transaction", slog.String("account_number", accountNumber))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}
	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, accountNumber, transactionID string, req dto.TransactionRequest) error {
	existing, err := s.GetTransactionByID(ctx, accountNumber, transactionID)
	if err != nil {
		return err
	}
	updated, err := mapping.RequestToTransaction(req, existing.AccountID)
	if err != nil {
		return err
	}
	updated.TransactionID = existing.TransactionID
	updated.CreatedAt = existing.CreatedAt
	updated.LastUpdatedAt = time.Now().UTC()

	if err := s.txnRepo.UpdateTransaction(ctx, updated); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}
	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, accountNumber, transactionID string) error {
	if _, err := s.GetTransactionByID(ctx, accountNumber, transactionID); err != nil {
		return err
	}
	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("%w: %v", apperrors.ErrTransactionService, err)
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// dateRange scans the rows for the earliest and latest operation original
// dates; the snapshot's ordering is caller-chosen and cannot be relied on.
func dateRange(txns []domain.Transaction) (string, string) {
	if len(txns) == 0 {
		return "", ""
	}
	from, to := txns[0].OperationOriginalDate, txns[0].OperationOriginalDate
	for _, txn := range txns[1:] {
		if txn.OperationOriginalDate.Before(from) {
			from = txn.OperationOriginalDate
		}
		if txn.OperationOriginalDate.After(to) {
			to = txn.OperationOriginalDate
		}
	}
	return from.Format(domain.DateFormat), to.Format(domain.DateFormat)
}
