package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	portsrepo "github.com/nmoratal-dev/bank-ledger-api/internal/core/ports/repositories"
	"github.com/nmoratal-dev/bank-ledger-api/internal/models"
)

// transactionColumns is the select list shared by all transaction queries.
// The account join is always present so dot-path filters can reference it.
const transactionColumns = `t.transaction_id, t.operation_original_date, t.operation_effective_date, t.concept, t.amount, t.balance, t.account_id, t.created_at, t.last_updated_at`

const transactionFrom = ` FROM transactions t JOIN accounts a ON a.account_id = t.account_id`

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepository
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:          m.TransactionID,
		OperationOriginalDate:  m.OperationOriginalDate,
		OperationEffectiveDate: m.OperationEffectiveDate,
		Concept:                m.Concept,
		Amount:                 m.Amount,
		Balance:                m.Balance,
		AccountID:              m.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OperationOriginalDate,
		&m.OperationEffectiveDate,
		&m.Concept,
		&m.Amount,
		&m.Balance,
		&m.AccountID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTransaction inserts a new transaction. An insert colliding with the
// dedup-key uniqueness constraint is reported as apperrors.ErrDuplicate; the
// constraint is the race-safety backstop for concurrent imports.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, operation_original_date, operation_effective_date, concept, amount, balance, account_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		txn.TransactionID,
		txn.OperationOriginalDate,
		txn.OperationEffectiveDate,
		txn.Concept,
		txn.Amount,
		txn.Balance,
		txn.AccountID,
		txn.CreatedAt,
		txn.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionFrom + ` WHERE t.transaction_id = $1;`
	m, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

// FindOneTransactionByFilters returns the first transaction matching all
// filters, or apperrors.ErrNotFound.
func (r *PgxTransactionRepository) FindOneTransactionByFilters(ctx context.Context, filters []domain.Filter) (*domain.Transaction, error) {
	where, args, err := buildTransactionWhere(filters, nil)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + transactionColumns + transactionFrom + where + ` LIMIT 1;`
	m, err := scanTransaction(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by filters: %w", err)
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves transactions matching the filters in the given
// order. A nil limit returns the full filtered set.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filters []domain.Filter, orderBy string, orderDirection domain.OrderDirection, limit, offset *int) ([]domain.Transaction, error) {
	where, args, err := buildTransactionWhere(filters, nil)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(orderBy, orderDirection)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + transactionFrom + where + order
	if limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}
	query += ";"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	txns := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		txns[i] = toDomainTransaction(m)
	}
	return txns, nil
}

// CountTransactions returns the number of transactions matching the filters.
func (r *PgxTransactionRepository) CountTransactions(ctx context.Context, filters []domain.Filter) (int64, error) {
	where, args, err := buildTransactionWhere(filters, nil)
	if err != nil {
		return 0, err
	}
	query := `SELECT count(*)` + transactionFrom + where + `;`

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction.
// An update colliding with the dedup-key uniqueness constraint is reported as
// apperrors.ErrDuplicate.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET operation_original_date = $1, operation_effective_date = $2, concept = $3, amount = $4, balance = $5, last_updated_at = $6
		WHERE transaction_id = $7;
	`
	tag, err := r.pool.Exec(ctx, query,
		txn.OperationOriginalDate,
		txn.OperationEffectiveDate,
		txn.Concept,
		txn.Amount,
		txn.Balance,
		txn.LastUpdatedAt,
		txn.TransactionID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction by its ID.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
