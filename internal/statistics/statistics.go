// Package statistics computes derived aggregates over an in-memory snapshot
// of transactions. All functions are pure: they take the filtered set the
// caller already retrieved, perform no I/O, and never fail — degenerate
// inputs (no rows, no deposits, no withdrawals) yield zero or absent values.
package statistics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
)

const monthFormat = "2006-01"

// Calculate computes the full statistics set over the given transactions.
// The input ordering does not matter: rows are re-sorted by operation
// original date ascending before any order-sensitive aggregate.
func Calculate(txns []domain.Transaction) domain.BankTransactionStatistics {
	ordered := sortedByOriginalDate(txns)
	return domain.BankTransactionStatistics{
		BasicStatistics:      Basic(ordered),
		TimeBasedAnalysis:    TimeBased(ordered),
		AccountBasedAnalysis: AccountBased(ordered),
		AdvancedInsights:     Advanced(ordered),
	}
}

// Basic computes counts, totals and the per-concept breakdown.
func Basic(txns []domain.Transaction) domain.BasicStatistics {
	stats := domain.BasicStatistics{
		TotalTransactions:      len(txns),
		TransactionsPerConcept: []domain.ConceptStatistics{},
	}

	type conceptAgg struct {
		count int
		total decimal.Decimal
	}
	perConcept := make(map[string]*conceptAgg)

	for _, txn := range txns {
		if txn.Amount.IsPositive() {
			stats.TotalDeposited = stats.TotalDeposited.Add(txn.Amount)
		} else if txn.Amount.IsNegative() {
			stats.TotalWithdrawn = stats.TotalWithdrawn.Add(txn.Amount)
		}
		agg, ok := perConcept[txn.Concept]
		if !ok {
			agg = &conceptAgg{}
			perConcept[txn.Concept] = agg
		}
		agg.count++
		agg.total = agg.total.Add(txn.Amount)
	}

	stats.TotalBalance = stats.TotalDeposited.Add(stats.TotalWithdrawn)
	if len(txns) > 0 {
		stats.AverageTransactionAmount = sumAmounts(txns).Div(decimal.NewFromInt(int64(len(txns))))
	}

	for concept, agg := range perConcept {
		stats.TransactionsPerConcept = append(stats.TransactionsPerConcept, domain.ConceptStatistics{
			Concept:         concept,
			NumTransactions: agg.count,
			TotalBalance:    agg.total,
		})
	}
	sort.Slice(stats.TransactionsPerConcept, func(i, j int) bool {
		a, b := stats.TransactionsPerConcept[i], stats.TransactionsPerConcept[j]
		if !a.TotalBalance.Equal(b.TotalBalance) {
			return a.TotalBalance.GreaterThan(b.TotalBalance)
		}
		return a.Concept < b.Concept
	})
	return stats
}

// TimeBased groups the rows by operation original date, per calendar day and
// per calendar month.
func TimeBased(txns []domain.Transaction) domain.TimeBasedAnalysis {
	return domain.TimeBasedAnalysis{
		DailyTransactions:   groupByPeriod(txns, domain.DateFormat),
		MonthlyTransactions: groupByPeriod(txns, monthFormat),
	}
}

// AccountBased computes the average and final balance of the set. The final
// balance is taken from the chronologically last row, not from the input order.
func AccountBased(txns []domain.Transaction) domain.AccountBasedAnalysis {
	if len(txns) == 0 {
		return domain.AccountBasedAnalysis{}
	}
	ordered := sortedByOriginalDate(txns)
	total := decimal.Zero
	for _, txn := range ordered {
		total = total.Add(txn.Balance)
	}
	return domain.AccountBasedAnalysis{
		AverageBalance: total.Div(decimal.NewFromInt(int64(len(ordered)))),
		FinalBalance:   ordered[len(ordered)-1].Balance,
	}
}

// Advanced computes the largest deposit and withdrawal and the per-account
// daily ending balance series.
func Advanced(txns []domain.Transaction) domain.AdvancedInsights {
	insights := domain.AdvancedInsights{
		DailyEndingBalance: dailyEndingBalance(txns),
	}
	for i := range txns {
		txn := txns[i]
		if txn.Amount.IsPositive() {
			if insights.LargestDeposit == nil || txn.Amount.GreaterThan(insights.LargestDeposit.Amount) {
				insights.LargestDeposit = summarize(txn)
			}
		}
		if txn.Amount.IsNegative() {
			if insights.LargestWithdrawal == nil || txn.Amount.LessThan(insights.LargestWithdrawal.Amount) {
				insights.LargestWithdrawal = summarize(txn)
			}
		}
	}
	return insights
}

// dailyEndingBalance builds, per account, a calendar-day ending balance series
// spanning that account's first to last effective date. The ending balance of
// a day is the balance of the last transaction on that day (in operation
// original date order); a day with no activity carries the prior day forward.
func dailyEndingBalance(txns []domain.Transaction) map[string]map[string]decimal.Decimal {
	type dayKey struct {
		accountID string
		day       time.Time
	}
	ordered := sortedByOriginalDate(txns)

	lastBalance := make(map[dayKey]decimal.Decimal)
	firstDay := make(map[string]time.Time)
	lastDay := make(map[string]time.Time)
	for _, txn := range ordered {
		day := txn.OperationEffectiveDate
		lastBalance[dayKey{txn.AccountID, day}] = txn.Balance
		if f, ok := firstDay[txn.AccountID]; !ok || day.Before(f) {
			firstDay[txn.AccountID] = day
		}
		if l, ok := lastDay[txn.AccountID]; !ok || day.After(l) {
			lastDay[txn.AccountID] = day
		}
	}

	series := make(map[string]map[string]decimal.Decimal, len(firstDay))
	for accountID, first := range firstDay {
		accountSeries := make(map[string]decimal.Decimal)
		carried := decimal.Zero
		for day := first; !day.After(lastDay[accountID]); day = day.AddDate(0, 0, 1) {
			if balance, ok := lastBalance[dayKey{accountID, day}]; ok {
				carried = balance
			}
			accountSeries[day.Format(domain.DateFormat)] = carried
		}
		series[accountID] = accountSeries
	}
	return series
}

func groupByPeriod(txns []domain.Transaction, layout string) []domain.PeriodStatistics {
	type periodAgg struct {
		count int
		total decimal.Decimal
	}
	perPeriod := make(map[string]*periodAgg)
	for _, txn := range txns {
		period := txn.OperationOriginalDate.Format(layout)
		agg, ok := perPeriod[period]
		if !ok {
			agg = &periodAgg{}
			perPeriod[period] = agg
		}
		agg.count++
		agg.total = agg.total.Add(txn.Amount)
	}

	result := make([]domain.PeriodStatistics, 0, len(perPeriod))
	for period, agg := range perPeriod {
		result = append(result, domain.PeriodStatistics{
			Period:          period,
			NumTransactions: agg.count,
			TotalBalance:    agg.total,
		})
	}
	// Period labels are zero-padded, so lexicographic order is chronological.
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result
}

func sortedByOriginalDate(txns []domain.Transaction) []domain.Transaction {
	ordered := make([]domain.Transaction, len(txns))
	copy(ordered, txns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OperationOriginalDate.Before(ordered[j].OperationOriginalDate)
	})
	return ordered
}

func sumAmounts(txns []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total
}

func summarize(txn domain.Transaction) *domain.TransactionSummary {
	return &domain.TransactionSummary{
		OperationOriginalDate:  txn.OperationOriginalDate,
		OperationEffectiveDate: txn.OperationEffectiveDate,
		Concept:                txn.Concept,
		Amount:                 txn.Amount,
		Balance:                txn.Balance,
	}
}
