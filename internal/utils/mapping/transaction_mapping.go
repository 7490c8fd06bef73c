// Package mapping converts between the raw statement row / API payload
// representations of a transaction and the canonical domain record. All
// functions are pure; malformed fields yield the explicit sentinel errors
// from apperrors.
package mapping

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
	"github.com/nmoratal-dev/bank-ledger-api/internal/statement"
)

// RowToTransaction converts a raw statement row into a domain transaction
// attached to accountID. Dates must be DD/MM/YYYY, amounts numeric.
// The identifier and audit fields are left for the caller to populate.
func RowToTransaction(row statement.Row, accountID string) (domain.Transaction, error) {
	originalDate, err := parseDate(row.OperationOriginalDate, domain.StatementDateFormat)
	if err != nil {
		return domain.Transaction{}, err
	}
	effectiveDate, err := parseDate(row.OperationEffectiveDate, domain.StatementDateFormat)
	if err != nil {
		return domain.Transaction{}, err
	}
	amount, err := parseNumber(row.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	balance, err := parseNumber(row.Balance)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		OperationOriginalDate:  originalDate,
		OperationEffectiveDate: effectiveDate,
		Concept:                row.Concept,
		Amount:                 amount,
		Balance:                balance,
		AccountID:              accountID,
	}, nil
}

// RequestToTransaction converts an API payload into a domain transaction
// attached to accountID. Dates must be ISO-8601 (YYYY-MM-DD).
func RequestToTransaction(req dto.TransactionRequest, accountID string) (domain.Transaction, error) {
	originalDate, err := parseDate(req.OperationOriginalDate, domain.DateFormat)
	if err != nil {
		return domain.Transaction{}, err
	}
	effectiveDate, err := parseDate(req.OperationEffectiveDate, domain.DateFormat)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		OperationOriginalDate:  originalDate,
		OperationEffectiveDate: effectiveDate,
		Concept:                req.Concept,
		Amount:                 req.Amount,
		Balance:                req.Balance,
		AccountID:              accountID,
	}, nil
}

// parseDate interprets value as a pure calendar date at UTC midnight.
func parseDate(value, layout string) (time.Time, error) {
	parsed, err := time.ParseInLocation(layout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", apperrors.ErrInvalidDateFormat, value, layout)
	}
	return parsed, nil
}

func parseNumber(value string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not numeric", apperrors.ErrInvalidNumberFormat, value)
	}
	return parsed, nil
}
