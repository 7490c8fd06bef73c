package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer bank account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string          `json:"accountNumber"` // Business key, unique (e.g. IBAN)
	AccountHolder string          `json:"accountHolder"`
	Balance       decimal.Decimal `json:"balance"` // Balance as reported by the last imported statement
	AuditFields
}
