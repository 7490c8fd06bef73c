package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a statement movement.
// The 5-tuple (operation_original_date, operation_effective_date, concept,
// amount, balance) carries a uniqueness constraint; it is the dedup key.
type Transaction struct {
	TransactionID          string          `db:"transaction_id"`
	OperationOriginalDate  time.Time       `db:"operation_original_date"`
	OperationEffectiveDate time.Time       `db:"operation_effective_date"`
	Concept                string          `db:"concept"`
	Amount                 decimal.Decimal `db:"amount"`
	Balance                decimal.Decimal `db:"balance"`
	AccountID              string          `db:"account_id"`
	AuditFields
}
