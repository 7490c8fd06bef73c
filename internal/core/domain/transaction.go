package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single bank statement movement against an account.
//
// Operation dates are pure calendar dates stored as UTC midnight; no
// time-of-day or offset component is kept.
type Transaction struct {
	TransactionID          string          `json:"transactionID"`          // Primary Key (UUID)
	OperationOriginalDate  time.Time       `json:"operationOriginalDate"`  // Date the operation was ordered
	OperationEffectiveDate time.Time       `json:"operationEffectiveDate"` // Date the operation settled
	Concept                string          `json:"concept"`                // Free-text description from the bank
	Amount                 decimal.Decimal `json:"amount"`                 // Positive = deposit, negative = withdrawal
	Balance                decimal.Decimal `json:"balance"`                // Running balance after this transaction
	AccountID              string          `json:"accountID"`              // FK -> accounts.account_id
	AuditFields
}

// DedupKey returns the five fields that uniquely identify a transaction during
// import, as exact-match filters. A row matching all five is a duplicate.
func (t Transaction) DedupKey() []Filter {
	return []Filter{
		{Field: "operation_original_date", Operator: FilterEq, Value: t.OperationOriginalDate.Format(DateFormat)},
		{Field: "operation_effective_date", Operator: FilterEq, Value: t.OperationEffectiveDate.Format(DateFormat)},
		{Field: "concept", Operator: FilterEq, Value: t.Concept},
		{Field: "amount", Operator: FilterEq, Value: t.Amount},
		{Field: "balance", Operator: FilterEq, Value: t.Balance},
	}
}

// ImportResult reports the outcome of a statement import. It is returned even
// when the import fails part-way so callers can see partial progress; combined
// with the dedup key this makes a retry of the same file idempotent.
type ImportResult struct {
	AccountNumber string `json:"accountNumber"`
	Imported      int    `json:"imported"`
	Duplicates    int    `json:"duplicates"`
}
