package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	"github.com/nmoratal-dev/bank-ledger-api/internal/utils/pagination"
)

// TransactionRequest defines the payload for creating or updating a
// transaction through the API. Dates are ISO-8601 (YYYY-MM-DD) strings.
type TransactionRequest struct {
	OperationOriginalDate  string          `json:"operationOriginalDate" binding:"required"`
	OperationEffectiveDate string          `json:"operationEffectiveDate" binding:"required"`
	Concept                string          `json:"concept" binding:"required"`
	Amount                 decimal.Decimal `json:"amount"`
	Balance                decimal.Decimal `json:"balance"`
}

// TransactionResponse is the API view of a transaction, all dates rendered as
// ISO-8601 strings.
type TransactionResponse struct {
	TransactionID          string          `json:"transactionID"`
	OperationOriginalDate  string          `json:"operationOriginalDate"`
	OperationEffectiveDate string          `json:"operationEffectiveDate"`
	Concept                string          `json:"concept"`
	Amount                 decimal.Decimal `json:"amount"`
	Balance                decimal.Decimal `json:"balance"`
	CreatedAt              time.Time       `json:"createdAt"`
	LastUpdatedAt          time.Time       `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its API view.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:          txn.TransactionID,
		OperationOriginalDate:  txn.OperationOriginalDate.Format(domain.DateFormat),
		OperationEffectiveDate: txn.OperationEffectiveDate.Format(domain.DateFormat),
		Concept:                txn.Concept,
		Amount:                 txn.Amount,
		Balance:                txn.Balance,
		CreatedAt:              txn.CreatedAt,
		LastUpdatedAt:          txn.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines the query parameters of the listing endpoint.
// Single-value and range parameters for the same field are mutually exclusive,
// and range parameters must come as a pair; the handler enforces both rules.
type ListTransactionsParams struct {
	Concept                 string           `form:"concept"`
	Amount                  *decimal.Decimal `form:"amount"`
	AmountStartRange        *decimal.Decimal `form:"amount_start_range"`
	AmountEndRange          *decimal.Decimal `form:"amount_end_range"`
	OperationDate           string           `form:"operation_date"`
	OperationStartRangeDate string           `form:"operation_start_range_date"`
	OperationEndRangeDate   string           `form:"operation_end_range_date"`
	OrderBy                 string           `form:"order_by,default=operation_original_date" binding:"oneof=operation_original_date operation_effective_date concept amount balance"`
	OrderDirection          string           `form:"order_direction,default=desc" binding:"oneof=asc desc"`
	Limit                   int              `form:"limit,default=10" binding:"min=1,max=100"`
	Offset                  int              `form:"offset,default=0" binding:"min=0"`
	Statistics              bool             `form:"statistics,default=false"`
}

// ListTransactionsResponse is the paginated listing payload.
type ListTransactionsResponse struct {
	Data       []TransactionResponse             `json:"data"`
	Total      int64                             `json:"total"`
	FromDate   string                            `json:"fromDate"` // Earliest operation original date in the page, ISO-8601
	ToDate     string                            `json:"toDate"`   // Latest operation original date in the page, ISO-8601
	Links      pagination.Links                  `json:"links"`
	Statistics *domain.BankTransactionStatistics `json:"statistics,omitempty"`
}

// ImportResultResponse reports statement import counters. Error is only
// present when the import stopped part-way; the counters still reflect the
// rows processed before the failure.
type ImportResultResponse struct {
	AccountNumber string `json:"accountNumber"`
	Imported      int    `json:"imported"`
	Duplicates    int    `json:"duplicates"`
	Error         string `json:"error,omitempty"`
}
