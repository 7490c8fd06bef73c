package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConceptStatistics aggregates the transactions sharing one concept string.
type ConceptStatistics struct {
	Concept         string          `json:"concept"`
	NumTransactions int             `json:"numTransactions"`
	TotalBalance    decimal.Decimal `json:"totalBalance"` // Sum of amounts for this concept
}

// BasicStatistics holds the headline aggregates over a transaction set.
type BasicStatistics struct {
	TotalTransactions        int                 `json:"totalTransactions"`
	TotalDeposited           decimal.Decimal     `json:"totalDeposited"` // Sum of amounts > 0
	TotalWithdrawn           decimal.Decimal     `json:"totalWithdrawn"` // Sum of amounts < 0, non-positive
	TotalBalance             decimal.Decimal     `json:"totalBalance"`   // TotalDeposited + TotalWithdrawn
	AverageTransactionAmount decimal.Decimal     `json:"averageTransactionAmount"`
	TransactionsPerConcept   []ConceptStatistics `json:"transactionsPerConcept"` // Ordered by TotalBalance descending
}

// PeriodStatistics aggregates transactions falling in one calendar period.
// Period is "2006-01-02" for daily entries and "2006-01" for monthly ones.
type PeriodStatistics struct {
	Period          string          `json:"period"`
	NumTransactions int             `json:"numTransactions"`
	TotalBalance    decimal.Decimal `json:"totalBalance"`
}

// TimeBasedAnalysis groups the same rows by operation original date, once per
// calendar day and once per calendar month, both in ascending period order.
type TimeBasedAnalysis struct {
	DailyTransactions   []PeriodStatistics `json:"dailyTransactions"`
	MonthlyTransactions []PeriodStatistics `json:"monthlyTransactions"`
}

// AccountBasedAnalysis summarizes the balance column of a transaction set.
type AccountBasedAnalysis struct {
	AverageBalance decimal.Decimal `json:"averageBalance"`
	FinalBalance   decimal.Decimal `json:"finalBalance"` // Balance of the last row by operation original date ascending
}

// TransactionSummary is the projection of a transaction used inside insights.
type TransactionSummary struct {
	OperationOriginalDate  time.Time       `json:"operationOriginalDate"`
	OperationEffectiveDate time.Time       `json:"operationEffectiveDate"`
	Concept                string          `json:"concept"`
	Amount                 decimal.Decimal `json:"amount"`
	Balance                decimal.Decimal `json:"balance"`
}

// AdvancedInsights holds the extremes and the per-account ending balance series.
// LargestDeposit and LargestWithdrawal are nil when the set has no deposit or
// no withdrawal respectively.
//
// DailyEndingBalance maps account ID to a calendar-day series of ending
// balances ("2006-01-02" keys) spanning each account's first to last effective
// date; days without activity carry the prior day's balance forward.
type AdvancedInsights struct {
	LargestDeposit     *TransactionSummary                   `json:"largestDeposit,omitempty"`
	LargestWithdrawal  *TransactionSummary                   `json:"largestWithdrawal,omitempty"`
	DailyEndingBalance map[string]map[string]decimal.Decimal `json:"dailyEndingBalance"`
}

// BankTransactionStatistics is the full set of derived aggregates computed
// over a filtered transaction snapshot. It has no independent lifecycle.
type BankTransactionStatistics struct {
	BasicStatistics      BasicStatistics      `json:"basicStatistics"`
	TimeBasedAnalysis    TimeBasedAnalysis    `json:"timeBasedAnalysis"`
	AccountBasedAnalysis AccountBasedAnalysis `json:"accountBasedAnalysis"`
	AdvancedInsights     AdvancedInsights     `json:"advancedInsights"`
}
