package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create an account explicitly
// (imports create accounts implicitly from the statement header).
type CreateAccountRequest struct {
	AccountNumber string          `json:"accountNumber" binding:"required,max=34"`
	AccountHolder string          `json:"accountHolder" binding:"required"`
	Balance       decimal.Decimal `json:"balance"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber string          `json:"accountNumber"`
	AccountHolder string          `json:"accountHolder"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		AccountHolder: acc.AccountHolder,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}
