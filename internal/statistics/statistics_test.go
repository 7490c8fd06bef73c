package statistics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	"github.com/nmoratal-dev/bank-ledger-api/internal/statistics"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(accountID string, day time.Time, concept string, amount, balance string) domain.Transaction {
	return domain.Transaction{
		OperationOriginalDate:  day,
		OperationEffectiveDate: day,
		Concept:                concept,
		Amount:                 decimal.RequireFromString(amount),
		Balance:                decimal.RequireFromString(balance),
		AccountID:              accountID,
	}
}

func TestCalculate_EmptySet(t *testing.T) {
	stats := statistics.Calculate(nil)

	assert.Equal(t, 0, stats.BasicStatistics.TotalTransactions)
	assert.True(t, stats.BasicStatistics.TotalDeposited.IsZero())
	assert.True(t, stats.BasicStatistics.TotalWithdrawn.IsZero())
	assert.True(t, stats.BasicStatistics.TotalBalance.IsZero())
	assert.True(t, stats.BasicStatistics.AverageTransactionAmount.IsZero())
	assert.Empty(t, stats.BasicStatistics.TransactionsPerConcept)
	assert.Empty(t, stats.TimeBasedAnalysis.DailyTransactions)
	assert.Empty(t, stats.TimeBasedAnalysis.MonthlyTransactions)
	assert.True(t, stats.AccountBasedAnalysis.AverageBalance.IsZero())
	assert.True(t, stats.AccountBasedAnalysis.FinalBalance.IsZero())
	assert.Nil(t, stats.AdvancedInsights.LargestDeposit)
	assert.Nil(t, stats.AdvancedInsights.LargestWithdrawal)
	assert.Empty(t, stats.AdvancedInsights.DailyEndingBalance)
}

func TestBasic_TotalsIdentity(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 1), "PAYROLL", "1000.00", "1000.00"),
		txn("acc-1", date(2024, 1, 2), "RENT", "-600.00", "400.00"),
		txn("acc-1", date(2024, 1, 3), "FEE", "-10.00", "390.00"),
		txn("acc-1", date(2024, 1, 4), "REFUND", "10.00", "400.00"),
	}

	basic := statistics.Basic(txns)

	assert.Equal(t, 4, basic.TotalTransactions)
	assert.True(t, basic.TotalDeposited.Equal(decimal.RequireFromString("1010.00")))
	assert.True(t, basic.TotalWithdrawn.Equal(decimal.RequireFromString("-610.00")))
	// TotalBalance is always TotalDeposited + TotalWithdrawn.
	assert.True(t, basic.TotalBalance.Equal(basic.TotalDeposited.Add(basic.TotalWithdrawn)))
	assert.True(t, basic.AverageTransactionAmount.Equal(decimal.RequireFromString("100.00")))
}

func TestBasic_PerConceptOrdering(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 1), "FEE", "-10.00", "990.00"),
		txn("acc-1", date(2024, 1, 2), "PAYROLL", "1000.00", "1990.00"),
		txn("acc-1", date(2024, 1, 3), "FEE", "-10.00", "1980.00"),
	}

	basic := statistics.Basic(txns)

	require.Len(t, basic.TransactionsPerConcept, 2)
	// Descending by per-concept total.
	assert.Equal(t, "PAYROLL", basic.TransactionsPerConcept[0].Concept)
	assert.Equal(t, 1, basic.TransactionsPerConcept[0].NumTransactions)
	assert.Equal(t, "FEE", basic.TransactionsPerConcept[1].Concept)
	assert.Equal(t, 2, basic.TransactionsPerConcept[1].NumTransactions)
	assert.True(t, basic.TransactionsPerConcept[1].TotalBalance.Equal(decimal.RequireFromString("-20.00")))
}

func TestTimeBased_GroupsByDayAndMonth(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 31), "A", "10.00", "10.00"),
		txn("acc-1", date(2024, 1, 31), "B", "5.00", "15.00"),
		txn("acc-1", date(2024, 2, 1), "C", "-3.00", "12.00"),
	}

	analysis := statistics.TimeBased(txns)

	require.Len(t, analysis.DailyTransactions, 2)
	assert.Equal(t, "2024-01-31", analysis.DailyTransactions[0].Period)
	assert.Equal(t, 2, analysis.DailyTransactions[0].NumTransactions)
	assert.True(t, analysis.DailyTransactions[0].TotalBalance.Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, "2024-02-01", analysis.DailyTransactions[1].Period)

	require.Len(t, analysis.MonthlyTransactions, 2)
	assert.Equal(t, "2024-01", analysis.MonthlyTransactions[0].Period)
	assert.Equal(t, "2024-02", analysis.MonthlyTransactions[1].Period)
	assert.True(t, analysis.MonthlyTransactions[1].TotalBalance.Equal(decimal.RequireFromString("-3.00")))
}

func TestAccountBased_FinalBalanceIgnoresInputOrder(t *testing.T) {
	// Deliberately shuffled: the chronologically last row carries balance 400.
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 3), "LAST", "10.00", "400.00"),
		txn("acc-1", date(2024, 1, 1), "FIRST", "100.00", "100.00"),
		txn("acc-1", date(2024, 1, 2), "MIDDLE", "290.00", "390.00"),
	}

	analysis := statistics.AccountBased(txns)

	assert.True(t, analysis.FinalBalance.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, analysis.AverageBalance.Equal(decimal.RequireFromString("296.6666666666666667")))
}

func TestAdvanced_LargestDepositAndWithdrawal(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 1), "SMALL IN", "10.00", "10.00"),
		txn("acc-1", date(2024, 1, 2), "BIG IN", "500.00", "510.00"),
		txn("acc-1", date(2024, 1, 3), "SMALL OUT", "-5.00", "505.00"),
		txn("acc-1", date(2024, 1, 4), "BIG OUT", "-300.00", "205.00"),
	}

	insights := statistics.Advanced(txns)

	require.NotNil(t, insights.LargestDeposit)
	assert.Equal(t, "BIG IN", insights.LargestDeposit.Concept)
	require.NotNil(t, insights.LargestWithdrawal)
	assert.Equal(t, "BIG OUT", insights.LargestWithdrawal.Concept)
}

func TestAdvanced_NoWithdrawalsLeavesNil(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 1, 1), "IN", "10.00", "10.00"),
	}

	insights := statistics.Advanced(txns)

	require.NotNil(t, insights.LargestDeposit)
	assert.Nil(t, insights.LargestWithdrawal)
}

func TestAdvanced_DailyEndingBalanceCarriesForward(t *testing.T) {
	// Activity on day 1 and day 4 only; days 2 and 3 must carry day 1 forward.
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 3, 1), "IN", "100.00", "100.00"),
		txn("acc-1", date(2024, 3, 4), "OUT", "-50.00", "50.00"),
	}

	insights := statistics.Advanced(txns)

	series := insights.DailyEndingBalance["acc-1"]
	require.Len(t, series, 4)
	assert.True(t, series["2024-03-01"].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, series["2024-03-02"].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, series["2024-03-03"].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, series["2024-03-04"].Equal(decimal.RequireFromString("50.00")))
}

func TestAdvanced_DailyEndingBalancePerAccount(t *testing.T) {
	txns := []domain.Transaction{
		txn("acc-1", date(2024, 3, 1), "IN", "100.00", "100.00"),
		txn("acc-2", date(2024, 3, 2), "IN", "20.00", "20.00"),
	}

	insights := statistics.Advanced(txns)

	require.Len(t, insights.DailyEndingBalance, 2)
	assert.Len(t, insights.DailyEndingBalance["acc-1"], 1)
	assert.Len(t, insights.DailyEndingBalance["acc-2"], 1)
	assert.True(t, insights.DailyEndingBalance["acc-2"]["2024-03-02"].Equal(decimal.RequireFromString("20.00")))
}

func TestAdvanced_DailyEndingBalanceLastRowOfDayWins(t *testing.T) {
	day := date(2024, 3, 1)
	txns := []domain.Transaction{
		{
			OperationOriginalDate:  day,
			OperationEffectiveDate: day,
			Concept:                "FIRST",
			Amount:                 decimal.RequireFromString("100.00"),
			Balance:                decimal.RequireFromString("100.00"),
			AccountID:              "acc-1",
		},
		{
			OperationOriginalDate:  day,
			OperationEffectiveDate: day,
			Concept:                "SECOND",
			Amount:                 decimal.RequireFromString("-40.00"),
			Balance:                decimal.RequireFromString("60.00"),
			AccountID:              "acc-1",
		},
	}

	insights := statistics.Advanced(txns)

	assert.True(t, insights.DailyEndingBalance["acc-1"]["2024-03-01"].Equal(decimal.RequireFromString("60.00")))
}
