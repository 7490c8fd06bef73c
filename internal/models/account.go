package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database representation of a customer account.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber string          `db:"account_number"` // Unique business key
	AccountHolder string          `db:"account_holder"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}
