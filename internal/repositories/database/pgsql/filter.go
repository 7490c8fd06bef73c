package pgsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
)

// transactionFilterColumns whitelists filterable field names against SQL
// expressions. Dot-path names traverse the account relationship, which the
// transaction queries always join.
var transactionFilterColumns = map[string]string{
	"operation_original_date":  "t.operation_original_date",
	"operation_effective_date": "t.operation_effective_date",
	"concept":                  "t.concept",
	"amount":                   "t.amount",
	"balance":                  "t.balance",
	"account_id":               "t.account_id",
	"account.account_number":   "a.account_number",
	"account.account_holder":   "a.account_holder",
}

// buildTransactionWhere translates filters into a WHERE clause combined with
// logical AND, appending bind values to args. It returns an empty clause for
// an empty filter list. Unknown fields and operators fail with
// apperrors.ErrValidation; filters are request-supplied.
func buildTransactionWhere(filters []domain.Filter, args []any) (string, []any, error) {
	if len(filters) == 0 {
		return "", args, nil
	}
	clauses := make([]string, 0, len(filters))
	for _, f := range filters {
		column, ok := transactionFilterColumns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown filter field %q", apperrors.ErrValidation, f.Field)
		}
		placeholder := len(args) + 1
		switch f.Operator {
		case domain.FilterEq:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", column, placeholder))
		case domain.FilterNeq:
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", column, placeholder))
		case domain.FilterGt:
			clauses = append(clauses, fmt.Sprintf("%s > $%d", column, placeholder))
		case domain.FilterGte:
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", column, placeholder))
		case domain.FilterLt:
			clauses = append(clauses, fmt.Sprintf("%s < $%d", column, placeholder))
		case domain.FilterLte:
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", column, placeholder))
		case domain.FilterContains:
			// Case-sensitive substring match; position() avoids interpreting
			// LIKE metacharacters in the user-supplied value.
			clauses = append(clauses, fmt.Sprintf("position($%d in %s) > 0", placeholder, column))
		case domain.FilterNotContains:
			clauses = append(clauses, fmt.Sprintf("position($%d in %s) = 0", placeholder, column))
		default:
			return "", nil, fmt.Errorf("%w: unsupported filter operator %q", apperrors.ErrValidation, f.Operator)
		}
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// orderClause resolves a caller-supplied order field against the column
// whitelist, with created_at as a stable tie-break.
func orderClause(orderBy string, direction domain.OrderDirection) (string, error) {
	column, ok := transactionFilterColumns[orderBy]
	if !ok {
		return "", fmt.Errorf("%w: unknown order field %q", apperrors.ErrValidation, orderBy)
	}
	dir := "ASC"
	if direction == domain.OrderDesc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, t.created_at %s", column, dir, dir), nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// rejection (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
