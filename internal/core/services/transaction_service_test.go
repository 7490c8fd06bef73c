package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/nmoratal-dev/bank-ledger-api/internal/apperrors"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/domain"
	portssvc "github.com/nmoratal-dev/bank-ledger-api/internal/core/ports/services"
	"github.com/nmoratal-dev/bank-ledger-api/internal/core/services"
	"github.com/nmoratal-dev/bank-ledger-api/internal/dto"
)

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	service         portssvc.TransactionSvc
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewTransactionService(suite.mockAccountRepo, suite.mockTxnRepo)
}

// buildStatementBytes assembles a statement workbook with the bank's fixed
// layout and the given transaction rows.
func buildStatementBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellStr(sheet, "C2", "ES9121000418450200051332"))
	require.NoError(t, f.SetCellStr(sheet, "C4", "JANE DOE"))
	require.NoError(t, f.SetCellStr(sheet, "D4", "1.234,56 EUR"))
	for i, row := range rows {
		for j, value := range row {
			cellName, err := excelize.CoordinatesToCellName(j+1, 10+i)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr(sheet, cellName, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func testAccount() *domain.Account {
	return &domain.Account{
		AccountID:     "acc-1",
		AccountNumber: "ES9121000418450200051332",
		AccountHolder: "JANE DOE",
		Balance:       decimal.RequireFromString("1234.56"),
	}
}

// --- ImportStatement ---

func (suite *TransactionServiceTestSuite) TestImportStatement_NewAccountAllRowsImported() {
	ctx := context.Background()
	contents := buildStatementBytes(suite.T(), [][]string{
		{"01/03/2024", "02/03/2024", "PAYROLL", "1000.00", "2234.56"},
		{"05/03/2024", "05/03/2024", "RENT", "-600.00", "1634.56"},
	})

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "ES9121000418450200051332").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Twice()

	result, err := suite.service.ImportStatement(ctx, contents)

	suite.Require().NoError(err)
	suite.Equal("ES9121000418450200051332", result.AccountNumber)
	suite.Equal(2, result.Imported)
	suite.Equal(0, result.Duplicates)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestImportStatement_ReimportCountsDuplicates() {
	ctx := context.Background()
	contents := buildStatementBytes(suite.T(), [][]string{
		{"01/03/2024", "02/03/2024", "PAYROLL", "1000.00", "2234.56"},
		{"05/03/2024", "05/03/2024", "RENT", "-600.00", "1634.56"},
	})

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, mock.Anything).Return(testAccount(), nil).Once()
	// First row already persisted, second is new.
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(&domain.Transaction{TransactionID: "existing"}, nil).Once()
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	result, err := suite.service.ImportStatement(ctx, contents)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	suite.Equal(1, result.Duplicates)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestImportStatement_UniqueViolationCountsAsDuplicate() {
	ctx := context.Background()
	contents := buildStatementBytes(suite.T(), [][]string{
		{"01/03/2024", "02/03/2024", "PAYROLL", "1000.00", "2234.56"},
	})

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, mock.Anything).Return(testAccount(), nil).Once()
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	// A concurrent import won the insert race after our dedup probe.
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()

	result, err := suite.service.ImportStatement(ctx, contents)

	suite.Require().NoError(err)
	suite.Equal(0, result.Imported)
	suite.Equal(1, result.Duplicates)
}

func (suite *TransactionServiceTestSuite) TestImportStatement_AccountCreationRaceRecovers() {
	ctx := context.Background()
	contents := buildStatementBytes(suite.T(), [][]string{
		{"01/03/2024", "02/03/2024", "PAYROLL", "1000.00", "2234.56"},
	})

	// A concurrent import created the account between our lookup and insert;
	// the import must continue against the winner's row.
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "ES9121000418450200051332").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "ES9121000418450200051332").Return(testAccount(), nil).Once()
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil).Once()

	result, err := suite.service.ImportStatement(ctx, contents)

	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)
	suite.Equal(0, result.Duplicates)
	suite.Equal(testAccount().AccountID, saved.AccountID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestImportStatement_RowFailureKeepsPartialCounters() {
	ctx := context.Background()
	contents := buildStatementBytes(suite.T(), [][]string{
		{"01/03/2024", "02/03/2024", "PAYROLL", "1000.00", "2234.56"},
		{"05/03/2024", "05/03/2024", "RENT", "-600.00", "1634.56"},
	})

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, mock.Anything).Return(testAccount(), nil).Once()
	suite.mockTxnRepo.On("FindOneTransactionByFilters", ctx, mock.Anything).Return(nil, apperrors.ErrNotFound).Twice()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(assert.AnError).Once()

	result, err := suite.service.ImportStatement(ctx, contents)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTransactionService)
	// The first row made it in before the failure.
	suite.Equal(1, result.Imported)
	suite.Equal(0, result.Duplicates)
}

func (suite *TransactionServiceTestSuite) TestImportStatement_RejectsNonWorkbook() {
	ctx := context.Background()

	result, err := suite.service.ImportStatement(ctx, []byte("not a spreadsheet"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedFormat)
	suite.Equal(0, result.Imported)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

// --- ListTransactions ---

func (suite *TransactionServiceTestSuite) TestListTransactions_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	page, err := suite.service.ListTransactions(ctx, "missing", domain.ListQuery{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(page)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_ScopesToAccountAndAppliesDefaults() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	var capturedFilters []domain.Filter
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything, domain.DefaultOrderBy, domain.OrderDesc, (*int)(nil), (*int)(nil)).
		Run(func(args mock.Arguments) {
			capturedFilters = args.Get(1).([]domain.Filter)
		}).
		Return([]domain.Transaction{}, nil).Once()
	suite.mockTxnRepo.On("CountTransactions", ctx, mock.Anything).Return(int64(0), nil).Once()

	page, err := suite.service.ListTransactions(ctx, account.AccountNumber, domain.ListQuery{})

	suite.Require().NoError(err)
	suite.Equal(int64(0), page.TotalCount)
	suite.Require().NotEmpty(capturedFilters)
	suite.Equal("account_id", capturedFilters[0].Field)
	suite.Equal(account.AccountID, capturedFilters[0].Value)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_StatisticsUseFullFilteredSet() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	full := []domain.Transaction{
		{OperationOriginalDate: day, OperationEffectiveDate: day, Amount: decimal.RequireFromString("10"), Balance: decimal.RequireFromString("10"), AccountID: account.AccountID},
		{OperationOriginalDate: day.AddDate(0, 0, 1), OperationEffectiveDate: day.AddDate(0, 0, 1), Amount: decimal.RequireFromString("5"), Balance: decimal.RequireFromString("15"), AccountID: account.AccountID},
		{OperationOriginalDate: day.AddDate(0, 0, 2), OperationEffectiveDate: day.AddDate(0, 0, 2), Amount: decimal.RequireFromString("-3"), Balance: decimal.RequireFromString("12"), AccountID: account.AccountID},
	}
	limit, offset := 1, 0

	// Paged query first, then the unbounded one for the statistics.
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything, domain.DefaultOrderBy, domain.OrderDesc, &limit, &offset).
		Return(full[:1], nil).Once()
	suite.mockTxnRepo.On("CountTransactions", ctx, mock.Anything).Return(int64(3), nil).Once()
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything, domain.DefaultOrderBy, domain.OrderDesc, (*int)(nil), (*int)(nil)).
		Return(full, nil).Once()

	page, err := suite.service.ListTransactions(ctx, account.AccountNumber, domain.ListQuery{
		Limit:          &limit,
		Offset:         &offset,
		WithStatistics: true,
	})

	suite.Require().NoError(err)
	suite.Len(page.Transactions, 1)
	suite.Equal(int64(3), page.TotalCount)
	suite.Require().NotNil(page.Statistics)
	suite.Equal(3, page.Statistics.BasicStatistics.TotalTransactions)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_PageDateRange() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	// Descending order: the earliest date is at the end.
	txns := []domain.Transaction{
		{OperationOriginalDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{OperationOriginalDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	suite.mockTxnRepo.On("ListTransactions", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(txns, nil).Once()
	suite.mockTxnRepo.On("CountTransactions", ctx, mock.Anything).Return(int64(2), nil).Once()

	page, err := suite.service.ListTransactions(ctx, account.AccountNumber, domain.ListQuery{})

	suite.Require().NoError(err)
	suite.Equal("2024-03-01", page.FromDate)
	suite.Equal("2024-03-05", page.ToDate)
}

// --- CRUD ---

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_CrossAccountHidden() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(&domain.Transaction{
		TransactionID: "txn-1",
		AccountID:     "someone-elses-account",
	}, nil).Once()

	txn, err := suite.service.GetTransactionByID(ctx, account.AccountNumber, "txn-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(txn)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	req := dto.TransactionRequest{
		OperationOriginalDate:  "2024-03-01",
		OperationEffectiveDate: "2024-03-02",
		Concept:                "MANUAL ENTRY",
		Amount:                 decimal.RequireFromString("50.00"),
		Balance:                decimal.RequireFromString("1284.56"),
	}

	txn, err := suite.service.CreateTransaction(ctx, account.AccountNumber, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(account.AccountID, txn.AccountID)
	suite.WithinDuration(time.Now(), txn.CreatedAt, time.Second)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InvalidDate() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()

	req := dto.TransactionRequest{
		OperationOriginalDate:  "01/03/2024",
		OperationEffectiveDate: "2024-03-02",
		Concept:                "MANUAL ENTRY",
	}

	_, err := suite.service.CreateTransaction(ctx, account.AccountNumber, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidDateFormat)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Duplicate() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()

	req := dto.TransactionRequest{
		OperationOriginalDate:  "2024-03-01",
		OperationEffectiveDate: "2024-03-02",
		Concept:                "MANUAL ENTRY",
	}

	_, err := suite.service.CreateTransaction(ctx, account.AccountNumber, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_PreservesIdentityAndCreation() {
	ctx := context.Background()
	account := testAccount()
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	existing := &domain.Transaction{
		TransactionID: "txn-1",
		AccountID:     account.AccountID,
		AuditFields:   domain.AuditFields{CreatedAt: created, LastUpdatedAt: created},
	}
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(existing, nil).Once()

	var saved domain.Transaction
	suite.mockTxnRepo.On("UpdateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil).Once()

	req := dto.TransactionRequest{
		OperationOriginalDate:  "2024-03-01",
		OperationEffectiveDate: "2024-03-02",
		Concept:                "CORRECTED",
		Amount:                 decimal.RequireFromString("1.00"),
		Balance:                decimal.RequireFromString("2.00"),
	}

	err := suite.service.UpdateTransaction(ctx, account.AccountNumber, "txn-1", req)

	suite.Require().NoError(err)
	suite.Equal("txn-1", saved.TransactionID)
	suite.Equal(created, saved.CreatedAt)
	suite.True(saved.LastUpdatedAt.After(created))
	suite.Equal("CORRECTED", saved.Concept)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	account := testAccount()
	suite.mockAccountRepo.On("FindAccountByNumber", ctx, account.AccountNumber).Return(account, nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, "txn-1").Return(&domain.Transaction{
		TransactionID: "txn-1",
		AccountID:     account.AccountID,
	}, nil).Once()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, "txn-1").Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, account.AccountNumber, "txn-1")

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
